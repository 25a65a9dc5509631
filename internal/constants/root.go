package constants

const (
	AppName            = "shiftledger"
	DefaultKeyringUser = "database-connection"
	SessionKeyringUser = "session-secret"
	DefaultConfigPath  = "~/.config/shiftledger/shiftledger.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// MonthFormat identifies a calendar month (YYYY-MM)
	MonthFormat = "2006-01"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "shiftledger-"
	BackupFileSuffix = ".json"

	// ExportVersion tags the JSON export document layout
	ExportVersion = "1.0"

	// Hours caps applied when settings are missing
	DefaultDailyLimitHours  = 8.0
	DefaultWeeklyLimitHours = 40.0

	// RollingWindowDays is the length of the trailing hours window, target date included
	RollingWindowDays = 7

	// Simulator ceilings
	SimulatorDailyHours  = 8.0
	SimulatorWeeklyHours = 40.0
	SimulatorDays        = 7
)

// BlockLengths is the closed set of offered block lengths in minutes.
var BlockLengths = []int{180, 210, 240, 270}

// BucketToleranceMinutes is how far a recorded length may sit from the nearest
// offered length and still count toward its payout history.
const BucketToleranceMinutes = 15

// DayNames labels simulator day indexes 0-6.
var DayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
