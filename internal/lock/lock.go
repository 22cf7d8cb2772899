// Package lock guards the sleep store against two writers on one machine.
// The lockfile holds "pid|executable"; a lock whose process is gone is
// reclaimed.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/logger"
)

var (
	ErrLocked = errors.New("another sleeplit process owns the sleep store")

	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// Lock is a held lockfile.
type Lock struct {
	path    string
	content string
}

// Holder describes the process recorded in a lockfile.
type Holder struct {
	PID        int
	Executable string
}

// Acquire takes the lockfile in dir, reclaiming it when it is stale.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := filepath.Join(dir, constants.LockfileName)
	content := fmt.Sprintf("%d|%s", getpidFunc(), executableName())

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := f.WriteString(content)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			return &Lock{path: path, content: content}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		holder, alive := inspect(path)
		if alive {
			return nil, fmt.Errorf("%w (pid %d)", ErrLocked, holder.PID)
		}
		logger.Debug("Reclaiming stale lockfile", "path", path, "pid", holder.PID)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, ErrLocked
}

// Release removes the lockfile if it still belongs to this lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	content, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if strings.TrimSpace(string(content)) != l.content {
		return nil
	}
	return os.Remove(l.path)
}

// Path returns the lockfile location.
func (l *Lock) Path() string { return l.path }

// Status reports the current holder of the lockfile in dir, if it is alive.
func Status(dir string) (Holder, bool) {
	return inspect(filepath.Join(dir, constants.LockfileName))
}

func inspect(path string) (Holder, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Holder{}, false
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return Holder{}, false
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Holder{}, false
	}
	holder := Holder{PID: pid, Executable: parts[1]}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return holder, false
	}
	// A recycled PID owned by an unrelated program does not hold the lock.
	if !sameExecutable(holder.Executable, process.Executable()) {
		return holder, false
	}
	return holder, true
}

// sameExecutable compares executable names, allowing for the kernel
// truncating process names.
func sameExecutable(recorded, running string) bool {
	if recorded == "" || running == "" {
		return true
	}
	if len(running) > len(recorded) {
		recorded, running = running, recorded
	}
	return strings.HasPrefix(recorded, running)
}

func executableName() string {
	exe, err := os.Executable()
	if err != nil {
		return constants.AppName
	}
	return filepath.Base(exe)
}
