package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/logger"
	"github.com/gerunddev/mdsite/internal/state"
	"github.com/gerunddev/mdsite/internal/styles"
)

// hasFlag reports whether name appears in args
func hasFlag(args []string, name string) bool {
	for _, arg := range args {
		if arg == name {
			return true
		}
	}
	return false
}

// flagValue returns the argument following name, or "" when absent
func flagValue(args []string, name string) string {
	for i, arg := range args {
		if arg == name && i+1 < len(args) {
			return args[i+1]
		}
		if value, ok := strings.CutPrefix(arg, name+"="); ok {
			return value
		}
	}
	return ""
}

// positional returns the arguments that are neither flags nor flag values.
// valueFlags lists the flags that take a value.
func positional(args []string, valueFlags ...string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			for _, f := range valueFlags {
				if arg == f {
					i++
					break
				}
			}
			continue
		}
		out = append(out, arg)
	}
	return out
}

// loadConfig loads the configuration, applying a base path override
func loadConfig(basePath string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if basePath != "" {
		cfg.BasePath = config.NormalizeBasePath(basePath)
	}
	if err := cfg.ExpandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// mustLoad loads config and state or exits
func mustLoad(basePath string) (*config.Config, *state.State) {
	cfg, err := loadConfig(basePath)
	if err != nil {
		fatal(err.Error())
	}

	st, err := state.Load(cfg.StateFilePath())
	if err != nil {
		fatal("Error loading state: " + err.Error())
	}
	return cfg, st
}

// fileLogger opens the configured log file, also writing to extra. Without a
// log file it logs to extra alone. The returned cleanup is never nil.
func fileLogger(cfg *config.Config, extra ...io.Writer) (*logger.Logger, func()) {
	fallback := func() *logger.Logger {
		if len(extra) == 0 {
			return logger.Discard()
		}
		return logger.NewMultiLogger(extra...)
	}

	if cfg.LogFile == "" {
		return fallback(), func() {}
	}
	l, cleanup, err := logger.NewFileLogger(cfg.LogFile, extra...)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.WarningStyle.Render("Warning: cannot open log file: "+err.Error()))
		return fallback(), func() {}
	}
	return l, cleanup
}

// interactive reports whether stdout is a terminal
func interactive() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func fatal(msg string) {
	fmt.Println(styles.ErrorStyle.Render("✗ " + msg))
	os.Exit(1)
}

// ParseLogFile reads the last maxLines lines of the log file and extracts the
// time and page count of the most recent completed build
func ParseLogFile(logPath string, maxLines int) ([]string, time.Time, int) {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return []string{"Unable to read log file"}, time.Time{}, 0
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	recentLines := lines[startIdx:]

	var lastBuild time.Time
	pagesGenerated := 0

	for i := len(recentLines) - 1; i >= 0; i-- {
		line := recentLines[i]
		if !strings.Contains(line, "build completed") {
			continue
		}
		// Format: 2026-01-02 15:04:05 INFO build completed pages_generated=3 ...
		if len(line) >= len(time.DateTime) {
			if t, err := time.ParseInLocation(time.DateTime, line[:len(time.DateTime)], time.Local); err == nil {
				lastBuild = t
			}
		}
		if idx := strings.Index(line, "pages_generated="); idx != -1 {
			_, _ = fmt.Sscanf(line[idx:], "pages_generated=%d", &pagesGenerated) //nolint:errcheck // best effort parsing
		}
		break
	}

	return recentLines, lastBuild, pagesGenerated
}
