package models

// GoalPeriod is the cadence a goal is measured over.
type GoalPeriod string

const (
	GoalPeriodWeekly  GoalPeriod = "weekly"
	GoalPeriodMonthly GoalPeriod = "monthly"
)

// IsValid reports whether p is a known goal period.
func (p GoalPeriod) IsValid() bool {
	return p == GoalPeriodWeekly || p == GoalPeriodMonthly
}

// Goal is a savings or earnings target. Priority 1 is the highest.
type Goal struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Period       GoalPeriod `json:"period"`
	TargetAmount float64    `json:"target_amount"`
	StartDate    string     `json:"start_date"` // YYYY-MM-DD format
	EndDate      string     `json:"end_date"`   // YYYY-MM-DD format
	IsActive     bool       `json:"is_active"`
	Priority     int        `json:"priority"`
}
