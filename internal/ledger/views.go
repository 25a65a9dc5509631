package ledger

import (
	"errors"
	"fmt"
	"slices"

	"github.com/julianstephens/shiftledger/internal/goals"
	"github.com/julianstephens/shiftledger/internal/hours"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/payplan"
	"github.com/julianstephens/shiftledger/internal/profit"
	"github.com/julianstephens/shiftledger/internal/simulator"
	"github.com/julianstephens/shiftledger/internal/storage"
)

// ErrPlanPaidOff is returned when recording a payment on a finished plan.
var ErrPlanPaidOff = errors.New("payment plan is already paid off")

func errPlanPaidOff(plan models.PaymentPlan) error {
	return fmt.Errorf("%s: %w", plan.Name, ErrPlanPaidOff)
}

// DailyProfit is the profit picture for one date.
func (l *Ledger) DailyProfit(date string) profit.DailyProfit {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var daily *models.DailyData
	if i := slices.IndexFunc(l.state.DailyData, func(d models.DailyData) bool { return d.Date == date }); i >= 0 {
		d := l.state.DailyData[i]
		daily = &d
	}
	return profit.ForDate(date, l.state.IncomeEntries, daily)
}

// MonthSummary builds the per-day and month-level figures for a YYYY-MM month.
func (l *Ledger) MonthSummary(month string) (profit.MonthSummary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return profit.ForMonth(month, l.state.IncomeEntries, l.state.DailyData, l.state.FixedExpenses, l.state.PaymentPlans)
}

// HoursUsed reports usage against the configured caps for the capped platforms.
func (l *Ledger) HoursUsed(date string) hours.Usage {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return hours.ForLimits(l.state.IncomeEntries, date, hours.LimitsFromSettings(l.state.Settings))
}

// GoalProgress runs the priority waterfall over the active goals of period.
func (l *Ledger) GoalProgress(period models.GoalPeriod) []goals.Progress {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return goals.Prioritized(l.state.Goals, l.state.IncomeEntries, period)
}

// Goal reports a single goal measured on its own date range.
func (l *Ledger) Goal(id string) (goals.Progress, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := slices.IndexFunc(l.state.Goals, func(g models.Goal) bool { return g.ID == id })
	if i < 0 {
		return goals.Progress{}, fmt.Errorf("goal %q: %w", id, storage.ErrNotFound)
	}
	return goals.ForGoal(l.state.Goals[i], l.state.IncomeEntries), nil
}

// PlanProgress pairs a plan with its derived installment state.
type PlanProgress struct {
	Plan     models.PaymentPlan `json:"plan"`
	Progress payplan.Progress   `json:"progress"`
	NextDue  string             `json:"next_due,omitempty"`
}

func (l *Ledger) Plans() []PlanProgress {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]PlanProgress, 0, len(l.state.PaymentPlans))
	for _, p := range l.state.PaymentPlans {
		next, _ := payplan.NextDueDate(p)
		out = append(out, PlanProgress{Plan: p, Progress: payplan.Remaining(p), NextDue: next})
	}
	return out
}

// Simulate plans a week from the block history on capped platforms and the
// simulator settings.
func (l *Ledger) Simulate() (*simulator.Results, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	blocks := hours.LimitsFromSettings(l.state.Settings).Filter(l.state.IncomeEntries)
	return simulator.New(l.state.Settings.Simulator).Run(blocks)
}
