package constants

import "time"

const (
	AppName            = "vitalflow"
	DefaultKeyringUser = "gemini-api-key"
	DefaultConfigPath  = "~/.config/vitalflow/vitalflow.db"
	Version            = "v0.3.0"

	// KeyringPostgresUser holds the Postgres password kept out of the connection string
	KeyringPostgresUser = "postgres-password"

	// DateFormat is the canonical calendar-day format for log entries (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Snapshot keys. Each key holds one whole-snapshot blob.
	KeyLedger          = "ledger"
	KeyPointsAndBadges = "pointsAndBadges"
	KeyUserProfile     = "userProfile"

	// Legacy prefix for the per-date bonus marker stored as a badge id
	LegacyBonusBadgePrefix = "allHabitsBonus-"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "vitalflow-"

	// Lock constants
	LockfileName      = "vitalflow.lock"
	LockRetryDelay    = 100 * time.Millisecond
	LockMaxRetries    = 20
	LockfileSeparator = "|"

	// Postgres
	PostgresTimeout = 10 * time.Second

	// Ledger id schemes
	IDSchemeSequence = "sequence"
	IDSchemeUUID     = "uuid"
	SequenceIDPrefix = "log-"
)
