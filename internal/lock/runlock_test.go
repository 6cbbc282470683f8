package lock

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestAcquireWritesPID(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	l, err := Acquire(stateDir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	t.Cleanup(func() { _ = l.Release() })

	b, err := os.ReadFile(filepath.Join(stateDir, "devctl.pid"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		t.Fatalf("expected PID in lock file, got %q", b)
	}
	if pid != os.Getpid() {
		t.Fatalf("expected own PID %d, got %d", os.Getpid(), pid)
	}
}

func TestAcquireCreatesStateDir(t *testing.T) {
	t.Parallel()

	stateDir := filepath.Join(t.TempDir(), "nested", ".devctl")
	l, err := Acquire(stateDir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	t.Cleanup(func() { _ = l.Release() })

	if _, err := os.Stat(stateDir); err != nil {
		t.Fatalf("expected state dir to exist: %v", err)
	}
}

func TestAcquireRejectsSecondHolder(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	l1, err := Acquire(stateDir)
	if err != nil {
		t.Fatalf("Acquire 1: %v", err)
	}
	t.Cleanup(func() { _ = l1.Release() })

	if _, err := Acquire(stateDir); err == nil {
		t.Fatal("expected second Acquire to fail while lock is held")
	}
}

func TestReleaseAllowsReacquire(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	l1, err := Acquire(stateDir)
	if err != nil {
		t.Fatalf("Acquire 1: %v", err)
	}
	if err := l1.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	l2, err := Acquire(stateDir)
	if err != nil {
		t.Fatalf("Acquire 2 after release: %v", err)
	}
	_ = l2.Release()
}

func TestReleaseNilSafe(t *testing.T) {
	t.Parallel()

	var l *RunLock
	if err := l.Release(); err != nil {
		t.Fatalf("Release on nil: %v", err)
	}
}
