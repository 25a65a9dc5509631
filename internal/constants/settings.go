package constants

const (
	// General Settings
	SettingDailyLimitHours   = "daily_limit_hours"
	SettingWeeklyLimitHours  = "weekly_limit_hours"
	SettingTimezone          = "timezone"
	SettingCappedPlatforms   = "capped_platforms"
	SettingPasswordHash      = "password_hash"
	SettingReminderEmail     = "reminder_email"
	SettingReminderDaysAhead = "reminder_days_ahead"

	// Simulator Settings
	SettingSimBlocksBeforeGas = "sim_blocks_before_gas"
	SettingSimGasPrice        = "sim_gas_price"
	SettingSimTankSize        = "sim_tank_size"
	SettingSimMinRatePrefix   = "sim_min_rate_"

	// Default Settings Values
	DefaultTimezone          = "Local"
	DefaultCappedPlatforms   = "amazon_flex"
	DefaultReminderDaysAhead = 3
	DefaultBlocksBeforeGas   = 3
	DefaultGasPrice          = 3.50
	DefaultTankSize          = 12.0
)

// DefaultMinRates is the default minimum acceptable payout per block length ($18/hour).
var DefaultMinRates = map[int]float64{
	180: 54,
	210: 63,
	240: 72,
	270: 81,
}
