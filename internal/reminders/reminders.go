// Package reminders lists bills and installments coming due and delivers
// them by email.
package reminders

import (
	"cmp"
	"slices"
	"time"

	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/money"
	"github.com/julianstephens/shiftledger/internal/payplan"
	"github.com/julianstephens/shiftledger/internal/utils"
)

type Kind string

const (
	KindBill        Kind = "bill"
	KindInstallment Kind = "installment"
)

// Reminder is one payment falling due.
type Reminder struct {
	Kind      Kind    `json:"kind"`
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	DueDate   string  `json:"due_date"` // YYYY-MM-DD format
	Amount    float64 `json:"amount"`
	DaysUntil int     `json:"days_until"`
}

// Upcoming lists active bills and incomplete plans whose next due date falls
// within [now, now+daysAhead], soonest first. A bill due on a day the month
// lacks falls on the month's last day.
func Upcoming(now time.Time, fixed []models.FixedExpense, plans []models.PaymentPlan, daysAhead int) []Reminder {
	if daysAhead < 0 {
		return nil
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	horizon := today.AddDate(0, 0, daysAhead)

	var out []Reminder
	add := func(kind Kind, id, name string, due time.Time, amount float64) {
		if due.Before(today) || due.After(horizon) {
			return
		}
		out = append(out, Reminder{
			Kind:      kind,
			ID:        id,
			Name:      name,
			DueDate:   utils.FormatDate(due),
			Amount:    money.Round(amount),
			DaysUntil: int(due.Sub(today).Hours() / 24),
		})
	}

	for _, f := range fixed {
		if !f.IsActive || f.DueDay < 1 {
			continue
		}
		// The window can span a month boundary.
		for m := today; !monthAfter(m, horizon); m = firstOfNextMonth(m) {
			add(KindBill, f.ID, f.Name, dueInMonth(m, f.DueDay), money.Safe(f.Amount))
		}
	}

	for _, p := range plans {
		next, ok := payplan.NextDueDate(p)
		if !ok {
			continue
		}
		due, err := utils.ParseDate(next)
		if err != nil {
			continue
		}
		add(KindInstallment, p.ID, p.Name, due, payplan.EffectivePaymentAmount(p))
	}

	slices.SortStableFunc(out, func(a, b Reminder) int {
		return cmp.Or(cmp.Compare(a.DueDate, b.DueDate), cmp.Compare(a.Name, b.Name))
	})
	return out
}

func dueInMonth(m time.Time, day int) time.Time {
	last := time.Date(m.Year(), m.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return time.Date(m.Year(), m.Month(), min(day, last), 0, 0, 0, 0, time.UTC)
}

func firstOfNextMonth(m time.Time) time.Time {
	return time.Date(m.Year(), m.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}

func monthAfter(m, horizon time.Time) bool {
	return m.Year() > horizon.Year() || (m.Year() == horizon.Year() && m.Month() > horizon.Month())
}

// Total sums reminder amounts.
func Total(rs []Reminder) float64 {
	amounts := make([]float64, 0, len(rs))
	for _, r := range rs {
		amounts = append(amounts, r.Amount)
	}
	return money.Sum(amounts...)
}
