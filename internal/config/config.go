package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
)

// LocalConfigName is the project-local config file looked up in the working directory
const LocalConfigName = "mdsite.json"

// Config represents the mdsite configuration
type Config struct {
	ContentDir      string        `json:"content_dir"`
	StaticDir       string        `json:"static_dir"`
	OutputDir       string        `json:"output_dir"`
	TemplatePath    string        `json:"template_path"`
	BasePath        string        `json:"base_path"`
	LogFile         string        `json:"log_file"`
	Interval        time.Duration `json:"-"` // Custom JSON handling below
	ExcludePatterns []string      `json:"exclude_patterns,omitempty"`
}

// rawConfig is the on-disk shape, with the interval as a duration string
type rawConfig struct {
	ContentDir      string   `json:"content_dir"`
	StaticDir       string   `json:"static_dir"`
	OutputDir       string   `json:"output_dir"`
	TemplatePath    string   `json:"template_path"`
	BasePath        string   `json:"base_path,omitempty"`
	LogFile         string   `json:"log_file"`
	Interval        string   `json:"interval"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty"`
}

// DefaultConfig returns default configuration. Site directories are
// relative to the working directory.
func DefaultConfig() *Config {
	return &Config{
		ContentDir:      "content",
		StaticDir:       "static",
		OutputDir:       "docs",
		TemplatePath:    "template.html",
		BasePath:        "/",
		LogFile:         filepath.Join(xdg.StateHome, "mdsite", "mdsite.log"),
		Interval:        30 * time.Second,
		ExcludePatterns: []string{},
	}
}

// ConfigPath returns the path to the config file. A mdsite.json in the
// working directory takes precedence over the user config.
// Can be overridden for testing
var ConfigPath = func() string {
	if _, err := os.Stat(LocalConfigName); err == nil {
		if abs, err := filepath.Abs(LocalConfigName); err == nil {
			return abs
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(xdg.ConfigHome, "mdsite", "config.json")
	}
	return filepath.Join(home, ".config", "mdsite", "config.json")
}

// StateDir returns the directory holding build state files
// Can be overridden for testing
var StateDir = func() string {
	return filepath.Join(xdg.DataHome, "mdsite")
}

// StateFilePath returns the build state file for this site. Each output
// directory gets its own manifest.
func (c *Config) StateFilePath() string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(filepath.Clean(c.OutputDir)))
	return filepath.Join(StateDir(), "sites", id.String()+".json")
}

// Load reads configuration from ConfigPath
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads configuration from path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := DefaultConfig()
	if raw.ContentDir != "" {
		cfg.ContentDir = raw.ContentDir
	}
	if raw.StaticDir != "" {
		cfg.StaticDir = raw.StaticDir
	}
	if raw.OutputDir != "" {
		cfg.OutputDir = raw.OutputDir
	}
	if raw.TemplatePath != "" {
		cfg.TemplatePath = raw.TemplatePath
	}
	if raw.BasePath != "" {
		cfg.BasePath = raw.BasePath
	}
	if raw.LogFile != "" {
		cfg.LogFile = raw.LogFile
	}
	if raw.Interval != "" {
		interval, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid interval format '%s': %w", raw.Interval, err)
		}
		cfg.Interval = interval
	}
	if raw.ExcludePatterns != nil {
		cfg.ExcludePatterns = raw.ExcludePatterns
	}

	cfg.BasePath = NormalizeBasePath(cfg.BasePath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to ConfigPath
func (c *Config) Save() error {
	return c.SaveFile(ConfigPath())
}

// SaveFile writes configuration to path
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw := rawConfig{
		ContentDir:      c.ContentDir,
		StaticDir:       c.StaticDir,
		OutputDir:       c.OutputDir,
		TemplatePath:    c.TemplatePath,
		BasePath:        c.BasePath,
		LogFile:         c.LogFile,
		Interval:        c.Interval.String(),
		ExcludePatterns: c.ExcludePatterns,
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	if c.TemplatePath == "" {
		return fmt.Errorf("template_path cannot be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	// The output directory is wiped on clean builds
	out := filepath.Clean(c.OutputDir)
	if out == filepath.Clean(c.ContentDir) {
		return fmt.Errorf("output_dir must differ from content_dir")
	}
	if c.StaticDir != "" && out == filepath.Clean(c.StaticDir) {
		return fmt.Errorf("output_dir must differ from static_dir")
	}

	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") &&
		!strings.HasPrefix(c.BasePath, "http://") && !strings.HasPrefix(c.BasePath, "https://") {
		return fmt.Errorf("invalid base_path '%s': must start with / or be an absolute URL", c.BasePath)
	}

	for _, pattern := range c.ExcludePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	fields := []struct {
		name string
		path *string
	}{
		{"content_dir", &c.ContentDir},
		{"static_dir", &c.StaticDir},
		{"output_dir", &c.OutputDir},
		{"template_path", &c.TemplatePath},
		{"log_file", &c.LogFile},
	}

	for _, f := range fields {
		expanded, err := expandPath(*f.path)
		if err != nil {
			return fmt.Errorf("failed to expand %s: %w", f.name, err)
		}
		*f.path = expanded
	}

	return nil
}

// NormalizeBasePath makes sure a base path ends with a slash. An empty base
// path becomes "/".
func NormalizeBasePath(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return "/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
