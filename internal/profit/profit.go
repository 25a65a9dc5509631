// Package profit computes daily and monthly profit from raw income and expense records.
package profit

import (
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/money"
	"github.com/julianstephens/shiftledger/internal/payplan"
	"github.com/julianstephens/shiftledger/internal/utils"
)

// DailyProfit is the profit picture for a single calendar date.
type DailyProfit struct {
	Date            string   `json:"date"`
	TotalIncome     float64  `json:"total_income"`
	GasExpense      float64  `json:"gas_expense"`
	Profit          float64  `json:"profit"`
	EarningsPerMile *float64 `json:"earnings_per_mile"` // nil when no distance was logged
}

// MonthlyNet is the month-level obligation breakdown.
type MonthlyNet struct {
	Net                    float64 `json:"net"`
	TotalBills             float64 `json:"total_bills"`
	PaymentPlansMinimumDue float64 `json:"payment_plans_minimum_due"`
	TotalGasExpenses       float64 `json:"total_gas_expenses"`
}

// TotalIncome sums entry amounts, treating non-finite amounts as zero.
func TotalIncome(entries []models.IncomeEntry) float64 {
	amounts := make([]float64, 0, len(entries))
	for _, e := range entries {
		amounts = append(amounts, e.Amount)
	}
	return money.Sum(amounts...)
}

// EntriesOn returns the entries worked on date.
func EntriesOn(date string, entries []models.IncomeEntry) []models.IncomeEntry {
	var matched []models.IncomeEntry
	for _, e := range entries {
		if utils.SameDate(e.Date, date) {
			matched = append(matched, e)
		}
	}
	return matched
}

// ForDate computes the profit for date by scanning all entries.
func ForDate(date string, entries []models.IncomeEntry, daily *models.DailyData) DailyProfit {
	return ForDateMatched(date, EntriesOn(date, entries), daily)
}

// ForDateMatched computes the profit for date from entries the caller already
// filtered to that date. Given the same matches it agrees with ForDate.
func ForDateMatched(date string, matched []models.IncomeEntry, daily *models.DailyData) DailyProfit {
	income := TotalIncome(matched)

	var gas float64
	var epm *float64
	if daily != nil && (daily.Date == "" || utils.SameDate(daily.Date, date)) {
		gas = money.Round(money.SafePtr(daily.GasCost))
		epm = money.Ratio(income, money.SafePtr(daily.Mileage))
	}

	return DailyProfit{
		Date:            date,
		TotalIncome:     income,
		GasExpense:      gas,
		Profit:          money.Round(income - gas),
		EarningsPerMile: epm,
	}
}

// Monthly computes the month's net after bills, installment minimums and fuel.
//
// Bills deliberately include every fixed expense, active or not: the monthly
// overview shows the full obligation. Installment minimums only count plans
// that are not completed.
func Monthly(totalIncome float64, fixed []models.FixedExpense, plans []models.PaymentPlan, daily []models.DailyData) MonthlyNet {
	bills := make([]float64, 0, len(fixed))
	for _, f := range fixed {
		bills = append(bills, f.Amount)
	}
	totalBills := money.Sum(bills...)

	minimumDue := payplan.Summarize(plans).TotalMinimumDue

	gas := make([]float64, 0, len(daily))
	for _, d := range daily {
		gas = append(gas, money.SafePtr(d.GasCost))
	}
	totalGas := money.Sum(gas...)

	return MonthlyNet{
		Net:                    money.Round(money.Safe(totalIncome) - totalBills - minimumDue - totalGas),
		TotalBills:             totalBills,
		PaymentPlansMinimumDue: minimumDue,
		TotalGasExpenses:       totalGas,
	}
}
