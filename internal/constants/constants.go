package constants

import "time"

const (
	AppName            = "remind"
	Version            = "v0.3.1"
	DefaultConfigPath  = "~/.config/remind/remind.db"
	DefaultKeyringUser = "database-connection"

	// DateTimeFormat is the standard date-time format accepted on the command line
	DateTimeFormat = "2006-01-02 15:04"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Snooze policy. The offset and cap are fixed; reminders already in flight were
	// scheduled against these exact values.
	SnoozeOffset      = 5 * time.Minute
	MaxSnoozeCount    = 3
	AutoSnoozedReason = "AUTO_SNOOZED"

	// DefaultCategory is where uncategorized reminders land
	DefaultCategory = "PERSONAL"

	// Daemon constants
	DefaultPollInterval = 30 * time.Second

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "remind-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.jspargo.remind"
)
