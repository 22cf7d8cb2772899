package lock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/sleeplit/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

func stubProcesses(t *testing.T, fn func(pid int) (ps.Process, error)) {
	t.Helper()
	old := findProcessFunc
	findProcessFunc = fn
	t.Cleanup(func() { findProcessFunc = old })
}

func TestAcquireRelease(t *testing.T) {
	dir := t.TempDir()
	stubProcesses(t, func(pid int) (ps.Process, error) { return nil, nil })

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if _, err := os.Stat(l.Path()); err != nil {
		t.Fatalf("lockfile not created: %v", err)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(l.Path()); !os.IsNotExist(err) {
		t.Error("lockfile should be removed after Release")
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release should be a no-op, got %v", err)
	}
}

func TestAcquire_HeldByLiveProcess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, constants.LockfileName)
	if err := os.WriteFile(path, []byte("4242|sleeplit"), 0600); err != nil {
		t.Fatal(err)
	}
	stubProcesses(t, func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "sleeplit"}, nil
	})

	if _, err := Acquire(dir); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	holder, alive := Status(dir)
	if !alive || holder.PID != 4242 {
		t.Errorf("Status = %+v, %v", holder, alive)
	}
}

func TestAcquire_ReclaimsStale(t *testing.T) {
	tests := []struct {
		name    string
		content string
		process func(pid int) (ps.Process, error)
	}{
		{
			name:    "process gone",
			content: "4242|sleeplit",
			process: func(pid int) (ps.Process, error) { return nil, nil },
		},
		{
			name:    "pid reused by another program",
			content: "4242|sleeplit",
			process: func(pid int) (ps.Process, error) {
				return &mockProcess{pid: pid, executable: "bash"}, nil
			},
		},
		{
			name:    "malformed",
			content: "garbage",
			process: func(pid int) (ps.Process, error) {
				return &mockProcess{pid: pid, executable: "sleeplit"}, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, constants.LockfileName)
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			stubProcesses(t, tt.process)

			l, err := Acquire(dir)
			if err != nil {
				t.Fatalf("expected stale lock to be reclaimed, got %v", err)
			}
			defer l.Release()
		})
	}
}

func TestRelease_LeavesForeignLock(t *testing.T) {
	dir := t.TempDir()
	stubProcesses(t, func(pid int) (ps.Process, error) { return nil, nil })

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	// Another process reclaimed the lock in the meantime.
	if err := os.WriteFile(l.Path(), []byte("9999|sleeplit"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(l.Path()); err != nil {
		t.Error("Release removed a lock it did not own")
	}
}

func TestSameExecutable(t *testing.T) {
	tests := []struct {
		recorded, running string
		want              bool
	}{
		{"sleeplit", "sleeplit", true},
		{"sleeplit-dev-build", "sleeplit-dev-bu", true},
		{"sleeplit", "", true},
		{"sleeplit", "bash", false},
	}
	for _, tt := range tests {
		if got := sameExecutable(tt.recorded, tt.running); got != tt.want {
			t.Errorf("sameExecutable(%q, %q) = %v, want %v", tt.recorded, tt.running, got, tt.want)
		}
	}
}
