package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file, creating its
// directory when needed. Entries are also copied to any extra writers.
func NewFileLogger(path string, extra ...io.Writer) (*Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewMultiLogger(append(extra, f)...), cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(writers ...io.Writer) *Logger {
	w := io.MultiWriter(writers...)
	return New(w)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// BuildStarted logs the start of a site build
func (l *Logger) BuildStarted(contentDir, outputDir string) {
	l.Info("build started",
		"content_dir", contentDir,
		"output_dir", outputDir)
}

// BuildCompleted logs the completion of a site build
func (l *Logger) BuildCompleted(generated, skipped, errors int, duration time.Duration) {
	l.Info("build completed",
		"pages_generated", generated,
		"pages_skipped", skipped,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// PageGenerated logs a successfully written page
func (l *Logger) PageGenerated(source, dest, title string) {
	l.Info("page generated",
		"source", source,
		"dest", dest,
		"title", title)
}

// PageSkipped logs when a page is not regenerated
func (l *Logger) PageSkipped(source, reason string) {
	l.Debug("page skipped",
		"source", source,
		"reason", reason)
}

// AssetCopied logs a static file copy
func (l *Logger) AssetCopied(source, dest string) {
	l.Debug("asset copied",
		"source", source,
		"dest", dest)
}

// PageError logs a failure for a specific page
func (l *Logger) PageError(source string, err error) {
	l.Error("page failed",
		"source", source,
		"error", err)
}

// FileError logs a file-related error
func (l *Logger) FileError(path string, err error) {
	l.Error("file error",
		"path", path,
		"error", err)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(contentDir, outputDir string, interval time.Duration) {
	l.Debug("config loaded",
		"content_dir", contentDir,
		"output_dir", outputDir,
		"interval", interval)
}
