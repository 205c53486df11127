package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gerunddev/mdsite/internal/daemon"
	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/styles"
)

// Watch rebuilds the site every interval until interrupted
func Watch(args []string) {
	cfg, st := mustLoad(flagValue(args, "--base"))

	if intervalArg := flagValue(args, "--interval"); intervalArg != "" {
		interval, err := time.ParseDuration(intervalArg)
		if err != nil || interval <= 0 {
			fatal(fmt.Sprintf("Invalid interval: %s", intervalArg))
		}
		cfg.Interval = interval
	}

	if running, pid, _ := daemon.IsRunning(); running {
		fatal(fmt.Sprintf("Watcher already running with PID %d", pid))
	}
	if err := daemon.WritePID(); err != nil {
		fatal("Error writing PID file: " + err.Error())
	}
	defer func() {
		if err := daemon.RemovePID(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove PID file on shutdown: %v\n", err)
		}
	}()

	// A detached watcher has no terminal to write to
	var extra []io.Writer
	if interactive() {
		extra = append(extra, os.Stderr)
	}
	log, cleanup := fileLogger(cfg, extra...)
	defer cleanup()

	log.ConfigLoaded(cfg.ContentDir, cfg.OutputDir, cfg.Interval)
	log.Info("watcher started",
		"pid", os.Getpid(),
		"interval", cfg.Interval)

	builder := site.NewBuilder(cfg, st)
	builder.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	daemon.Loop(ctx, cfg.Interval, func(ctx context.Context) {
		result, err := builder.Build(ctx, site.Options{})
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Error("build failed", "error", err)
			}
			return
		}
		if result.Removed > 0 {
			log.Info("removed stale pages", "count", result.Removed)
		}
		if err := st.Save(cfg.StateFilePath()); err != nil {
			log.StateError("save", err)
		}
	})

	if err := st.Save(cfg.StateFilePath()); err != nil {
		log.StateError("save", err)
	}
	log.Info("watcher stopped")
}

// Start launches the watcher in the background
func Start(args []string) {
	if running, pid, _ := daemon.IsRunning(); running {
		fatal(fmt.Sprintf("Watcher already running with PID %d", pid))
	}

	// Fail here rather than in the detached process
	cfg, err := loadConfig(flagValue(args, "--base"))
	if err != nil {
		fatal(err.Error())
	}

	watchArgs := []string{"watch"}
	if interval := flagValue(args, "--interval"); interval != "" {
		if _, err := time.ParseDuration(interval); err != nil {
			fatal(fmt.Sprintf("Invalid interval: %s", interval))
		}
		watchArgs = append(watchArgs, "--interval", interval)
	}
	if base := flagValue(args, "--base"); base != "" {
		watchArgs = append(watchArgs, "--base", base)
	}

	if err := daemon.Daemonize(watchArgs); err != nil {
		fatal("Failed to start watcher: " + err.Error())
	}

	// Give it a moment to write its PID file
	var pid int
	running := false
	for i := 0; i < 10 && !running; i++ {
		time.Sleep(200 * time.Millisecond)
		running, pid, _ = daemon.IsRunning()
	}
	if !running {
		fatal("Watcher failed to start, see " + cfg.LogFile)
	}

	fmt.Println(styles.SuccessStyle.Render(fmt.Sprintf("✓ Watcher started with PID %d", pid)))
	fmt.Println(styles.DimStyle.Render("  Run 'mdsite status' to check on it"))
}

// Stop stops the background watcher
func Stop() {
	running, pid, _ := daemon.IsRunning()
	if !running {
		fmt.Println(styles.DimStyle.Render("Watcher is not running"))
		return
	}

	fmt.Printf("Stopping watcher (PID %d)...\n", pid)

	if err := daemon.Stop(); err != nil {
		fatal("Failed to stop watcher: " + err.Error())
	}

	for i := 0; i < 10; i++ {
		time.Sleep(500 * time.Millisecond)
		if running, _, _ = daemon.IsRunning(); !running {
			break
		}
	}

	if running {
		fatal("Watcher did not stop gracefully")
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Watcher stopped"))
}
