package models

// FixedExpense is a recurring monthly bill.
type FixedExpense struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	DueDay   int     `json:"due_date"` // day of month, 1-31
	IsActive bool    `json:"is_active"`
}

// Provider identifies an installment lender.
type Provider string

const (
	ProviderAffirm   Provider = "affirm"
	ProviderKlarna   Provider = "klarna"
	ProviderAfterpay Provider = "afterpay"
	ProviderPayPal   Provider = "paypal"
	ProviderZip      Provider = "zip"
	ProviderSezzle   Provider = "sezzle"
	ProviderOther    Provider = "other"
)

// Providers lists every accepted provider value.
var Providers = []Provider{
	ProviderAffirm,
	ProviderKlarna,
	ProviderAfterpay,
	ProviderPayPal,
	ProviderZip,
	ProviderSezzle,
	ProviderOther,
}

// IsValid reports whether p is one of the enumerated providers.
func (p Provider) IsValid() bool {
	for _, known := range Providers {
		if p == known {
			return true
		}
	}
	return false
}

// Frequency is the installment cadence of a payment plan.
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// IsValid reports whether f is a known cadence.
func (f Frequency) IsValid() bool {
	return f == FrequencyWeekly || f == FrequencyBiweekly || f == FrequencyMonthly
}

// PaymentPlan is an installment purchase. CurrentPayment is the 1-indexed
// next unpaid installment, so payments made = CurrentPayment - 1.
type PaymentPlan struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Provider              Provider  `json:"provider"`
	CustomProvider        string    `json:"custom_provider_name,omitempty"`
	InitialCost           float64   `json:"initial_cost"`
	TotalPayments         int       `json:"total_payments"`
	CurrentPayment        int       `json:"current_payment"`
	PaymentAmount         float64   `json:"payment_amount"`
	MinimumMonthlyPayment *float64  `json:"minimum_monthly_payment,omitempty"`
	StartDate             string    `json:"start_date"` // YYYY-MM-DD format
	Frequency             Frequency `json:"frequency"`
	EndDate               string    `json:"end_date,omitempty"` // YYYY-MM-DD format
	MinimumPayment        *float64  `json:"minimum_payment,omitempty"`
	IsCompleted           bool      `json:"is_completed"`
}
