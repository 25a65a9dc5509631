package models

// SimulatorConfig holds the user-tunable schedule simulation parameters.
type SimulatorConfig struct {
	BlocksBeforeGas int             `json:"blocks_before_gas"`
	GasPrice        float64         `json:"gas_price"` // per unit volume
	TankSize        float64         `json:"tank_size"`
	MinRates        map[int]float64 `json:"min_rates"` // block minutes -> minimum acceptable payout
}

// Settings represents application-wide settings
type Settings struct {
	DailyLimitHours   float64         `json:"daily_limit_hours"`   // per-day worked hours cap
	WeeklyLimitHours  float64         `json:"weekly_limit_hours"`  // trailing 7-day worked hours cap
	Timezone          string          `json:"timezone"`            // IANA timezone name or "Local"
	CappedPlatforms   []Platform      `json:"capped_platforms"`    // platforms the hours caps apply to
	ReminderEmail     string          `json:"reminder_email"`      // destination for due-date reminders
	ReminderDaysAhead int             `json:"reminder_days_ahead"` // look-ahead window for reminders
	Simulator         SimulatorConfig `json:"simulator"`
	PasswordHash      string          `json:"-"`
}
