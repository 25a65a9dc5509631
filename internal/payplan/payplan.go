// Package payplan derives installment progress for payment plans. Every
// remaining-payments or remaining-balance figure shown anywhere in the
// application comes from Remaining; nothing else recomputes it.
package payplan

import (
	"time"

	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/money"
	"github.com/julianstephens/shiftledger/internal/utils"
)

// Progress is the derived installment state of a plan.
type Progress struct {
	PaymentsMade      int     `json:"payments_made"`
	RemainingPayments int     `json:"remaining_payments"`
	RemainingAmount   float64 `json:"remaining_amount"`
}

// Summary aggregates progress over a set of plans.
type Summary struct {
	ActivePlans     int     `json:"active_plans"`
	TotalRemaining  float64 `json:"total_remaining"`
	TotalMinimumDue float64 `json:"total_minimum_due"`
}

// EffectivePaymentAmount is the minimum-monthly override when set, else the installment amount.
func EffectivePaymentAmount(plan models.PaymentPlan) float64 {
	if plan.MinimumMonthlyPayment != nil {
		return money.Safe(*plan.MinimumMonthlyPayment)
	}
	return money.Safe(plan.PaymentAmount)
}

// Remaining computes payments made, payments left and the balance left on a plan.
func Remaining(plan models.PaymentPlan) Progress {
	total := plan.TotalPayments
	if total < 0 {
		total = 0
	}

	made := plan.CurrentPayment - 1
	if made < 0 {
		made = 0
	}
	if made > total {
		made = total
	}

	paid := float64(made) * EffectivePaymentAmount(plan)
	return Progress{
		PaymentsMade:      made,
		RemainingPayments: total - made,
		RemainingAmount:   money.Round(money.NonNegative(money.Safe(plan.InitialCost) - paid)),
	}
}

// Summarize totals the remaining balance and minimum due across incomplete plans.
func Summarize(plans []models.PaymentPlan) Summary {
	var s Summary
	var remaining, due []float64
	for _, plan := range plans {
		if plan.IsCompleted {
			continue
		}
		s.ActivePlans++
		remaining = append(remaining, Remaining(plan).RemainingAmount)
		due = append(due, EffectivePaymentAmount(plan))
	}
	s.TotalRemaining = money.Sum(remaining...)
	s.TotalMinimumDue = money.Sum(due...)
	return s
}

// NextDueDate projects the due date of the next unpaid installment from the
// start date and cadence. It returns false when nothing is left to pay or the
// plan dates cannot be read.
func NextDueDate(plan models.PaymentPlan) (string, bool) {
	if plan.IsCompleted {
		return "", false
	}
	progress := Remaining(plan)
	if progress.RemainingPayments == 0 {
		return "", false
	}
	start, err := utils.ParseDate(plan.StartDate)
	if err != nil {
		return "", false
	}

	n := progress.PaymentsMade
	var due time.Time
	switch plan.Frequency {
	case models.FrequencyWeekly:
		due = start.AddDate(0, 0, 7*n)
	case models.FrequencyBiweekly:
		due = start.AddDate(0, 0, 14*n)
	case models.FrequencyMonthly:
		due = start.AddDate(0, n, 0)
	default:
		return "", false
	}
	return utils.FormatDate(due), true
}

// MonthsUntilDeadline counts months from now through the deadline month, inclusive.
func MonthsUntilDeadline(now time.Time, endDate string) int {
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return 0
	}
	return utils.MonthsInclusive(now, end)
}

// RecommendedMonthlyPayment spreads the remaining balance over the months left.
func RecommendedMonthlyPayment(remainingBalance float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	return money.Round(money.Safe(remainingBalance) / float64(months))
}

// RequiredMonthlyPayment is the monthly amount an Other-provider plan needs to
// clear its balance by its end date. Plans from named providers, or without an
// end date, report zero.
func RequiredMonthlyPayment(plan models.PaymentPlan, now time.Time) float64 {
	if plan.Provider != models.ProviderOther || plan.EndDate == "" {
		return 0
	}
	months := MonthsUntilDeadline(now, plan.EndDate)
	required := RecommendedMonthlyPayment(Remaining(plan).RemainingAmount, months)
	if plan.MinimumPayment != nil && required > 0 && required < money.Safe(*plan.MinimumPayment) {
		return money.Round(*plan.MinimumPayment)
	}
	return required
}
