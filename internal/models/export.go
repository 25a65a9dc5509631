package models

import "time"

// ExportDocument is the portable JSON form of the whole ledger. The password
// hash never leaves the store.
type ExportDocument struct {
	Version       string         `json:"version"`
	ExportedAt    time.Time      `json:"exportedAt"`
	IncomeEntries []IncomeEntry  `json:"incomeEntries"`
	DailyData     []DailyData    `json:"dailyData"`
	FixedExpenses []FixedExpense `json:"fixedExpenses"`
	PaymentPlans  []PaymentPlan  `json:"paymentPlans"`
	Goals         []Goal         `json:"goals"`
	Settings      Settings       `json:"settings"`
}
