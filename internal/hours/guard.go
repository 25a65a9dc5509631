package hours

import (
	"fmt"

	"github.com/julianstephens/shiftledger/internal/constants"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/money"
	"github.com/julianstephens/shiftledger/internal/utils"
)

// Cap names which limit a write would breach.
type Cap string

const (
	CapDaily  Cap = "daily"
	CapWeekly Cap = "weekly"
)

// CapExceededError rejects a write that would push usage past a cap.
type CapExceededError struct {
	Cap          Cap     `json:"cap"`
	Date         string  `json:"date"` // the day, or the last day of the rolling window
	LimitHours   float64 `json:"limit_hours"`
	UsedHours    float64 `json:"used_hours"`
	OverageHours float64 `json:"overage_hours"`
}

func (e *CapExceededError) Error() string {
	if e.Cap == CapDaily {
		return fmt.Sprintf("daily hours limit exceeded on %s: %.2fh of %.2fh (over by %.2fh)",
			e.Date, e.UsedHours, e.LimitHours, e.OverageHours)
	}
	return fmt.Sprintf("rolling 7-day hours limit exceeded for the window ending %s: %.2fh of %.2fh (over by %.2fh)",
		e.Date, e.UsedHours, e.LimitHours, e.OverageHours)
}

// CheckWrite simulates persisting candidate into existing and rejects it when
// the result breaks a cap and uses more hours there than before the write.
// Usage already over a cap, after the cap was lowered, may stay or shrink.
// replaceID names the entry being edited; pass "" for an insert. Candidates
// on uncapped platforms always pass.
//
// A block on day D counts toward every seven-day window ending D through D+6,
// so each of those windows is checked.
func CheckWrite(existing []models.IncomeEntry, candidate models.IncomeEntry, replaceID string, l Limits) error {
	if !l.Capped(candidate.Platform) || BlockMinutes(candidate) == 0 {
		return nil
	}
	target, err := utils.ParseDate(candidate.Date)
	if err != nil {
		return nil
	}

	before := l.Filter(existing)
	simulated := make([]models.IncomeEntry, 0, len(existing)+1)
	for _, e := range existing {
		if replaceID != "" && e.ID == replaceID {
			continue
		}
		simulated = append(simulated, e)
	}
	simulated = append(simulated, candidate)
	simulated = l.Filter(simulated)

	day := utils.FormatDate(target)
	after := Used(simulated, day, l.DailyHours, l.WeeklyHours)
	if exceeds(after.DailyHoursUsed, l.DailyHours) &&
		grows(after.DailyHoursUsed, Used(before, day, l.DailyHours, l.WeeklyHours).DailyHoursUsed) {
		return newCapError(CapDaily, day, l.DailyHours, after.DailyHoursUsed)
	}
	for i := 0; i < constants.RollingWindowDays; i++ {
		windowEnd := utils.FormatDate(target.AddDate(0, 0, i))
		after := Used(simulated, windowEnd, l.DailyHours, l.WeeklyHours)
		if exceeds(after.WeeklyHoursUsed, l.WeeklyHours) &&
			grows(after.WeeklyHoursUsed, Used(before, windowEnd, l.DailyHours, l.WeeklyHours).WeeklyHoursUsed) {
			return newCapError(CapWeekly, windowEnd, l.WeeklyHours, after.WeeklyHoursUsed)
		}
	}
	return nil
}

func exceeds(used, limit float64) bool {
	return money.Round(used-limit) > 0
}

func grows(after, before float64) bool {
	return money.Round(after-before) > 0
}

func newCapError(c Cap, date string, limit, used float64) *CapExceededError {
	return &CapExceededError{
		Cap:          c,
		Date:         date,
		LimitHours:   limit,
		UsedHours:    used,
		OverageHours: money.Round(used - limit),
	}
}
