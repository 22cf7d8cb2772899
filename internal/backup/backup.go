// Package backup keeps rotating snapshots of file-backed sleep storage.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/logger"
	"github.com/julianstephens/sleeplit/internal/sleep"
	"github.com/julianstephens/sleeplit/internal/storage"
	sqlitestore "github.com/julianstephens/sleeplit/internal/storage/sqlite"
)

// Format is the on-disk layout being backed up.
type Format int

const (
	FormatSQLite Format = iota
	FormatJSON
)

// FormatOf guesses the layout from the file name.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatSQLite
}

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup operations
type Manager struct {
	srcPath   string
	backupDir string
	format    Format
	suffix    string
	max       int
	now       func() time.Time
}

type Option func(*Manager)

// WithMax sets how many backups rotation keeps.
func WithMax(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.max = n
		}
	}
}

// WithClock overrides the timestamp source for backup names.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a manager for the storage file at srcPath. Backups
// live in a "backups" directory beside it.
func NewManager(srcPath string, opts ...Option) *Manager {
	suffix := filepath.Ext(srcPath)
	if suffix == "" {
		suffix = ".db"
	}
	m := &Manager{
		srcPath:   srcPath,
		backupDir: filepath.Join(filepath.Dir(srcPath), constants.BackupDirName),
		format:    FormatOf(srcPath),
		suffix:    suffix,
		max:       constants.MaxBackups,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup snapshots the storage file and rotates old backups.
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// skipRotation is set while restoring so the pre-restore snapshot cannot
// evict the backup being restored.
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.srcPath); os.IsNotExist(err) {
		return "", fmt.Errorf("storage does not exist: %s", m.srcPath)
	}

	backupPath, err := m.uniqueName()
	if err != nil {
		return "", err
	}

	switch m.format {
	case FormatJSON:
		err = copyFile(m.srcPath, backupPath)
	default:
		err = vacuumInto(m.srcPath, backupPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to back up storage: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}
	return backupPath, nil
}

func (m *Manager) name(stamp string, counter int) string {
	if counter == 0 {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+m.suffix)
	}
	return filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, counter, m.suffix))
}

// uniqueName tries minute precision, then seconds, then a counter.
func (m *Manager) uniqueName() (string, error) {
	now := m.now()
	path := m.name(now.Format("20060102-1504"), 0)
	if !exists(path) {
		return path, nil
	}

	stamp := now.Format("20060102-150405")
	for counter := 0; counter <= 100; counter++ {
		path = m.name(stamp, counter)
		if !exists(path) {
			return path, nil
		}
	}
	return "", errors.New("failed to generate unique backup filename")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func vacuumInto(src, dst string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dst); err != nil {
		db.Close()
		return copyFile(src, dst)
	}
	return nil
}

// ListBackups returns all backups, newest first.
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, m.suffix) {
			continue
		}

		stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), m.suffix)
		ts, counter, ok := parseStamp(stamp)
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path: filepath.Join(m.backupDir, name),
			// Counter suffixes order same-second backups.
			Timestamp: ts.Add(time.Duration(counter) * time.Millisecond),
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseStamp accepts YYYYMMDD-HHMM, YYYYMMDD-HHMMSS and either with a
// trailing -N counter.
func parseStamp(stamp string) (time.Time, int, bool) {
	counter := 0
	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		n := 0
		for _, c := range parts[2] {
			if c < '0' || c > '9' {
				return time.Time{}, 0, false
			}
			n = n*10 + int(c-'0')
		}
		counter = n + 1
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, counter, true
		}
	}
	return time.Time{}, 0, false
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := m.max; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup replaces the storage file with backupPath. The current file
// is snapshotted first; the snapshot path is returned when one was made.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := m.Verify(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var current string
	if exists(m.srcPath) {
		var err error
		current, err = m.createBackup(true)
		if err != nil {
			return "", fmt.Errorf("failed to back up current storage before restore: %w", err)
		}
	}

	tempPath := m.srcPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return current, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.srcPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return current, fmt.Errorf("failed to restore storage: %w", err)
	}
	return current, nil
}

// Verify opens a backup with the matching backend and checks that any
// stored sleep state decodes.
func (m *Manager) Verify(path string) error {
	ctx := context.Background()

	var backend storage.Backend
	switch m.format {
	case FormatJSON:
		backend = storage.NewJSONFileBackend(path)
	default:
		sq, err := openSQLite(path)
		if err != nil {
			return err
		}
		backend = sq
	}
	defer backend.Close()

	raw, err := backend.Get(ctx, constants.StateKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	_, err = sleep.Decode(raw)
	return err
}

func openSQLite(path string) (*sqlitestore.Store, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, err
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		db.Close()
		return nil, err
	}
	return sqlitestore.NewWithDB(path, db), nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
