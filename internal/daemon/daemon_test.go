package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func usePIDFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "watch.pid")
	orig := PIDFile
	PIDFile = func() string { return path }
	t.Cleanup(func() { PIDFile = orig })
	return path
}

func TestPIDRoundTrip(t *testing.T) {
	path := usePIDFile(t)

	if _, err := ReadPID(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("ReadPID() without file error = %v, want ErrNotRunning", err)
	}

	if err := WritePID(); err != nil {
		t.Fatalf("WritePID() error = %v", err)
	}
	pid, err := ReadPID()
	if err != nil {
		t.Fatalf("ReadPID() error = %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("ReadPID() = %d, want %d", pid, os.Getpid())
	}

	running, runningPID, started := IsRunning()
	if !running || runningPID != os.Getpid() {
		t.Errorf("IsRunning() = %v, %d; want true, %d", running, runningPID, os.Getpid())
	}
	if started.IsZero() {
		t.Error("IsRunning() should report a start time")
	}

	if err := RemovePID(); err != nil {
		t.Fatalf("RemovePID() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("PID file should be removed")
	}
	if err := RemovePID(); err != nil {
		t.Errorf("RemovePID() on missing file error = %v", err)
	}
}

func TestIsRunningStalePID(t *testing.T) {
	path := usePIDFile(t)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	// Above the kernel's pid_max
	if err := os.WriteFile(path, []byte("999999999\n"), 0644); err != nil {
		t.Fatalf("Failed to write PID file: %v", err)
	}

	if running, _, _ := IsRunning(); running {
		t.Error("IsRunning() should be false for a dead process")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("stale PID file should be cleaned up")
	}
	if err := Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop() error = %v, want ErrNotRunning", err)
	}
}

func TestReadPIDInvalid(t *testing.T) {
	path := usePIDFile(t)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte("not a pid"), 0644); err != nil {
		t.Fatalf("Failed to write PID file: %v", err)
	}
	if _, err := ReadPID(); err == nil {
		t.Error("ReadPID() should fail on garbage")
	}
}

func TestLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32

	done := make(chan struct{})
	go func() {
		Loop(ctx, 10*time.Millisecond, func(context.Context) {
			if runs.Add(1) == 3 {
				cancel()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Loop did not stop after cancel")
	}
	if got := runs.Load(); got < 3 {
		t.Errorf("run called %d times, want at least 3", got)
	}
}
