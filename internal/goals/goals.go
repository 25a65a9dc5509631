// Package goals measures income against savings goals, either one goal at a
// time or as a priority-ordered waterfall over a shared pool.
package goals

import (
	"sort"

	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/money"
	"github.com/julianstephens/shiftledger/internal/utils"
)

// Progress is a goal's funding state.
type Progress struct {
	Goal            models.Goal `json:"goal"`
	CurrentAmount   float64     `json:"current_amount"`
	PercentComplete float64     `json:"percent_complete"`
	RemainingAmount float64     `json:"remaining_amount"`
	IsComplete      bool        `json:"is_complete"`
}

// IncomeInRange sums entry amounts dated within [start, end].
func IncomeInRange(entries []models.IncomeEntry, start, end string) float64 {
	var amounts []float64
	for _, e := range entries {
		if len(e.Date) < len(start) {
			continue
		}
		if utils.InRange(e.Date[:len(start)], start, end) {
			amounts = append(amounts, e.Amount)
		}
	}
	return money.Sum(amounts...)
}

// ForGoal measures the goal against all income inside its own date range.
func ForGoal(goal models.Goal, entries []models.IncomeEntry) Progress {
	return measure(goal, IncomeInRange(entries, goal.StartDate, goal.EndDate))
}

// Prioritized runs the waterfall for the active goals of period.
//
// The pool is the income inside the top-priority goal's date range, and every
// goal in the waterfall draws from it. Goals are funded in ascending priority
// order, each taking as much of what is left as its target allows.
func Prioritized(goals []models.Goal, entries []models.IncomeEntry, period models.GoalPeriod) []Progress {
	var active []models.Goal
	for _, g := range goals {
		if g.IsActive && g.Period == period {
			active = append(active, g)
		}
	}
	if len(active) == 0 {
		return nil
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority < active[j].Priority
	})

	pool := IncomeInRange(entries, active[0].StartDate, active[0].EndDate)
	results := make([]Progress, 0, len(active))
	for _, g := range active {
		allocated := money.Round(min(pool, money.NonNegative(g.TargetAmount)))
		pool = money.Round(pool - allocated)
		results = append(results, measure(g, allocated))
	}
	return results
}

func measure(goal models.Goal, current float64) Progress {
	target := money.NonNegative(goal.TargetAmount)
	current = money.Safe(current)

	complete := target > 0 && current >= target

	var percent float64
	if target > 0 {
		percent = money.Round(max(min(100, current/target*100), 0))
	}
	// Rounding must not report 100% for a goal that is still short.
	if !complete && percent >= 100 {
		percent = 99.99
	}

	return Progress{
		Goal:            goal,
		CurrentAmount:   current,
		PercentComplete: percent,
		RemainingAmount: money.Round(money.NonNegative(target - current)),
		IsComplete:      complete,
	}
}
