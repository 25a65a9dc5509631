// Package hours tracks worked hours against the daily cap and the rolling
// seven-day cap that some platforms impose.
package hours

import (
	"github.com/julianstephens/shiftledger/internal/constants"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/money"
	"github.com/julianstephens/shiftledger/internal/utils"
)

// Usage is the hours picture for one target date.
type Usage struct {
	DailyHoursUsed  float64 `json:"daily_hours_used"`
	WeeklyHoursUsed float64 `json:"weekly_hours_used"`
	DailyRemaining  float64 `json:"daily_remaining"`
	WeeklyRemaining float64 `json:"weekly_remaining"`
}

// Limits are the configured caps plus the platforms they apply to.
type Limits struct {
	DailyHours  float64           `json:"daily_hours"`
	WeeklyHours float64           `json:"weekly_hours"`
	Platforms   []models.Platform `json:"platforms"`
}

// DefaultLimits returns the 8h/40h caps on Amazon Flex.
func DefaultLimits() Limits {
	return Limits{
		DailyHours:  constants.DefaultDailyLimitHours,
		WeeklyHours: constants.DefaultWeeklyLimitHours,
		Platforms:   []models.Platform{models.PlatformAmazonFlex},
	}
}

// LimitsFromSettings builds Limits from persisted settings.
func LimitsFromSettings(s models.Settings) Limits {
	return Limits{
		DailyHours:  s.DailyLimitHours,
		WeeklyHours: s.WeeklyLimitHours,
		Platforms:   s.CappedPlatforms,
	}
}

// Capped reports whether p is subject to the caps.
func (l Limits) Capped(p models.Platform) bool {
	for _, c := range l.Platforms {
		if c == p {
			return true
		}
	}
	return false
}

// Filter keeps only entries on capped platforms.
func (l Limits) Filter(entries []models.IncomeEntry) []models.IncomeEntry {
	var out []models.IncomeEntry
	for _, e := range entries {
		if l.Capped(e.Platform) {
			out = append(out, e)
		}
	}
	return out
}

// BlockMinutes is the worked length of an entry: the recorded block length,
// else the span between its start and end, else zero.
func BlockMinutes(e models.IncomeEntry) int {
	if e.BlockLength > 0 {
		return e.BlockLength
	}
	if e.BlockStart == "" || e.BlockEnd == "" {
		return 0
	}
	m, err := utils.BlockMinutes(e.BlockStart, e.BlockEnd)
	if err != nil {
		return 0
	}
	return m
}

// Used computes hours worked on targetDate and in the seven days ending on it.
//
// The weekly figure is a trailing window, not the calendar week. An
// unreadable target date reports zero usage and full headroom.
func Used(entries []models.IncomeEntry, targetDate string, dailyLimitHours, weeklyLimitHours float64) Usage {
	dailyLimitHours = money.NonNegative(dailyLimitHours)
	weeklyLimitHours = money.NonNegative(weeklyLimitHours)

	target, err := utils.ParseDate(targetDate)
	if err != nil {
		return Usage{DailyRemaining: dailyLimitHours, WeeklyRemaining: weeklyLimitHours}
	}
	start, end := utils.TrailingWindow(target, constants.RollingWindowDays)
	windowStart, windowEnd := utils.FormatDate(start), utils.FormatDate(end)
	day := utils.FormatDate(target)

	var dailyMinutes, weeklyMinutes int
	for _, e := range entries {
		if len(e.Date) < len(day) {
			continue
		}
		date := e.Date[:len(day)]
		if !utils.InRange(date, windowStart, windowEnd) {
			continue
		}
		m := BlockMinutes(e)
		weeklyMinutes += m
		if date == day {
			dailyMinutes += m
		}
	}

	daily := minutesToHours(dailyMinutes)
	weekly := minutesToHours(weeklyMinutes)
	return Usage{
		DailyHoursUsed:  daily,
		WeeklyHoursUsed: weekly,
		DailyRemaining:  money.Round(money.NonNegative(dailyLimitHours - daily)),
		WeeklyRemaining: money.Round(money.NonNegative(weeklyLimitHours - weekly)),
	}
}

// ForLimits computes usage for the capped platforms only.
func ForLimits(entries []models.IncomeEntry, targetDate string, l Limits) Usage {
	return Used(l.Filter(entries), targetDate, l.DailyHours, l.WeeklyHours)
}

func minutesToHours(m int) float64 {
	return money.Round(float64(m) / 60)
}
