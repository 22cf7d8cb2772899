package constants

import "time"

const (
	AppName            = "sleeplit"
	Version            = "v0.1.0"
	DefaultKeyringUser = "storage-connection"
	DefaultConfigDir   = "~/.config/sleeplit"
	DefaultConfigPath  = "~/.config/sleeplit/config.yaml"
	DefaultStoragePath = "~/.config/sleeplit/sleeplit.db"
	ConnectionEnvVar   = "SLEEPLIT_DB_CONNECTION"

	// DateFormat is the calendar date format of SleepRecord.Date (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the local clock format of SleepTime/WakeTime (HH:MM)
	TimeFormat = "15:04"

	// Storage keys. The whole SleepState lives under StateKey; the pending
	// timer start lives under TimerKey so the state layout stays fixed.
	StateKey = "sleepData"
	TimerKey = "sleepTimer"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "sleeplit-"

	// Lock constants
	LockfileName = "sleeplit.lock"

	// Watcher constants
	WatchDebounce = 250 * time.Millisecond

	// TUI constants
	DefaultRefreshInterval = time.Second
	StatusTTL              = 3 * time.Second
	HistoryRows            = 10
)
