package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/sleeplit/internal/backup"
	"github.com/julianstephens/sleeplit/internal/config"
	"github.com/julianstephens/sleeplit/internal/lock"
	"github.com/julianstephens/sleeplit/internal/logger"
	"github.com/julianstephens/sleeplit/internal/sleep"
	"github.com/julianstephens/sleeplit/internal/storage"
)

// Context is handed to every command's Run.
type Context struct {
	Ctx     context.Context
	Config  config.Config
	Backend storage.Backend
	Store   *sleep.Store
	Timer   *sleep.Timer
	Out     io.Writer
	In      io.Reader
}

// NewContext wires a store and timer over an initialised backend.
func NewContext(ctx context.Context, cfg config.Config, backend storage.Backend, opts ...sleep.Option) *Context {
	opts = append([]sleep.Option{sleep.WithLogger(logger.Get())}, opts...)
	store := sleep.NewStore(backend, opts...)
	return &Context{
		Ctx:     ctx,
		Config:  cfg,
		Backend: backend,
		Store:   store,
		Timer:   sleep.NewTimer(store),
		Out:     os.Stdout,
		In:      os.Stdin,
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Confirm prints prompt and reads a y/N answer.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// WithLock runs fn while holding the store lockfile.
func (c *Context) WithLock(fn func() error) error {
	l, err := lock.Acquire(c.Config.Dir())
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release lockfile", "path", l.Path(), "error", err)
		}
	}()
	return fn()
}

// BackupManager returns a backup manager for file-backed storage.
func (c *Context) BackupManager() (*backup.Manager, error) {
	fb, ok := c.Backend.(storage.FileBacked)
	if !ok {
		return nil, fmt.Errorf("backups are only supported for file storage, not %s", c.Backend.Location())
	}
	return backup.NewManager(fb.Path(), backup.WithMax(c.Config.Backup.Max)), nil
}

// PerformAutomaticBackup creates a backup when enabled, logging failures
// instead of interrupting the caller.
func (c *Context) PerformAutomaticBackup() {
	if !c.Config.Backup.Auto {
		return
	}
	mgr, err := c.BackupManager()
	if err != nil {
		logger.Debug("Skipping automatic backup", "reason", err)
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
