package storage

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/shiftledger/internal/constants"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/money"
)

// Rows hold a record exactly as it is stored: snake_case columns, NULLable
// optionals and NUMERIC amounts. Each entity has one ToRow/FromRow pair and
// every backend goes through it.

var IncomeEntryColumns = []string{
	"id", "date", "platform", "custom_platform_name", "block_start", "block_end",
	"block_length", "amount", "notes",
}

type IncomeEntryRow struct {
	ID                 string
	Date               string
	Platform           string
	CustomPlatformName sql.NullString
	BlockStart         sql.NullString
	BlockEnd           sql.NullString
	BlockLength        sql.NullInt64
	Amount             decimal.Decimal
	Notes              sql.NullString
}

func IncomeEntryToRow(e models.IncomeEntry) IncomeEntryRow {
	return IncomeEntryRow{
		ID:                 e.ID,
		Date:               NormalizeDate(e.Date),
		Platform:           string(e.Platform),
		CustomPlatformName: nullString(e.CustomPlatform),
		BlockStart:         nullString(e.BlockStart),
		BlockEnd:           nullString(e.BlockEnd),
		BlockLength:        nullInt(e.BlockLength),
		Amount:             amount(e.Amount),
		Notes:              nullString(e.Notes),
	}
}

func IncomeEntryFromRow(r IncomeEntryRow) models.IncomeEntry {
	return models.IncomeEntry{
		ID:             r.ID,
		Date:           NormalizeDate(r.Date),
		Platform:       models.Platform(r.Platform),
		CustomPlatform: r.CustomPlatformName.String,
		BlockStart:     r.BlockStart.String,
		BlockEnd:       r.BlockEnd.String,
		BlockLength:    int(r.BlockLength.Int64),
		Amount:         r.Amount.InexactFloat64(),
		Notes:          r.Notes.String,
	}
}

// Values returns the column values in IncomeEntryColumns order.
func (r IncomeEntryRow) Values() []any {
	return []any{r.ID, r.Date, r.Platform, r.CustomPlatformName, r.BlockStart, r.BlockEnd, r.BlockLength, r.Amount, r.Notes}
}

// Dest returns scan destinations in IncomeEntryColumns order.
func (r *IncomeEntryRow) Dest() []any {
	return []any{&r.ID, &r.Date, &r.Platform, &r.CustomPlatformName, &r.BlockStart, &r.BlockEnd, &r.BlockLength, &r.Amount, &r.Notes}
}

var DailyDataColumns = []string{"date", "mileage", "gas_expense"}

type DailyDataRow struct {
	Date       string
	Mileage    decimal.NullDecimal
	GasExpense decimal.NullDecimal
}

func DailyDataToRow(d models.DailyData) DailyDataRow {
	return DailyDataRow{
		Date:       NormalizeDate(d.Date),
		Mileage:    nullAmount(d.Mileage),
		GasExpense: nullAmount(d.GasCost),
	}
}

func DailyDataFromRow(r DailyDataRow) models.DailyData {
	return models.DailyData{
		Date:    NormalizeDate(r.Date),
		Mileage: floatPtr(r.Mileage),
		GasCost: floatPtr(r.GasExpense),
	}
}

func (r DailyDataRow) Values() []any {
	return []any{r.Date, r.Mileage, r.GasExpense}
}

func (r *DailyDataRow) Dest() []any {
	return []any{&r.Date, &r.Mileage, &r.GasExpense}
}

var FixedExpenseColumns = []string{"id", "name", "amount", "due_date", "is_active"}

type FixedExpenseRow struct {
	ID       string
	Name     string
	Amount   decimal.Decimal
	DueDate  int64
	IsActive bool
}

func FixedExpenseToRow(f models.FixedExpense) FixedExpenseRow {
	return FixedExpenseRow{
		ID:       f.ID,
		Name:     f.Name,
		Amount:   amount(f.Amount),
		DueDate:  int64(f.DueDay),
		IsActive: f.IsActive,
	}
}

func FixedExpenseFromRow(r FixedExpenseRow) models.FixedExpense {
	return models.FixedExpense{
		ID:       r.ID,
		Name:     r.Name,
		Amount:   r.Amount.InexactFloat64(),
		DueDay:   int(r.DueDate),
		IsActive: r.IsActive,
	}
}

func (r FixedExpenseRow) Values() []any {
	return []any{r.ID, r.Name, r.Amount, r.DueDate, r.IsActive}
}

func (r *FixedExpenseRow) Dest() []any {
	return []any{&r.ID, &r.Name, &r.Amount, &r.DueDate, &r.IsActive}
}

var PaymentPlanColumns = []string{
	"id", "name", "provider", "custom_provider_name", "initial_cost", "total_payments",
	"current_payment", "payment_amount", "minimum_monthly_payment", "start_date",
	"frequency", "end_date", "minimum_payment", "is_completed",
}

type PaymentPlanRow struct {
	ID                    string
	Name                  string
	Provider              string
	CustomProviderName    sql.NullString
	InitialCost           decimal.Decimal
	TotalPayments         int64
	CurrentPayment        int64
	PaymentAmount         decimal.Decimal
	MinimumMonthlyPayment decimal.NullDecimal
	StartDate             string
	Frequency             string
	EndDate               sql.NullString
	MinimumPayment        decimal.NullDecimal
	IsCompleted           bool
}

func PaymentPlanToRow(p models.PaymentPlan) PaymentPlanRow {
	return PaymentPlanRow{
		ID:                    p.ID,
		Name:                  p.Name,
		Provider:              string(p.Provider),
		CustomProviderName:    nullString(p.CustomProvider),
		InitialCost:           amount(p.InitialCost),
		TotalPayments:         int64(p.TotalPayments),
		CurrentPayment:        int64(p.CurrentPayment),
		PaymentAmount:         amount(p.PaymentAmount),
		MinimumMonthlyPayment: nullAmount(p.MinimumMonthlyPayment),
		StartDate:             NormalizeDate(p.StartDate),
		Frequency:             string(p.Frequency),
		EndDate:               nullString(NormalizeDate(p.EndDate)),
		MinimumPayment:        nullAmount(p.MinimumPayment),
		IsCompleted:           p.IsCompleted,
	}
}

func PaymentPlanFromRow(r PaymentPlanRow) models.PaymentPlan {
	return models.PaymentPlan{
		ID:                    r.ID,
		Name:                  r.Name,
		Provider:              models.Provider(r.Provider),
		CustomProvider:        r.CustomProviderName.String,
		InitialCost:           r.InitialCost.InexactFloat64(),
		TotalPayments:         int(r.TotalPayments),
		CurrentPayment:        int(r.CurrentPayment),
		PaymentAmount:         r.PaymentAmount.InexactFloat64(),
		MinimumMonthlyPayment: floatPtr(r.MinimumMonthlyPayment),
		StartDate:             NormalizeDate(r.StartDate),
		Frequency:             models.Frequency(r.Frequency),
		EndDate:               NormalizeDate(r.EndDate.String),
		MinimumPayment:        floatPtr(r.MinimumPayment),
		IsCompleted:           r.IsCompleted,
	}
}

func (r PaymentPlanRow) Values() []any {
	return []any{
		r.ID, r.Name, r.Provider, r.CustomProviderName, r.InitialCost, r.TotalPayments,
		r.CurrentPayment, r.PaymentAmount, r.MinimumMonthlyPayment, r.StartDate,
		r.Frequency, r.EndDate, r.MinimumPayment, r.IsCompleted,
	}
}

func (r *PaymentPlanRow) Dest() []any {
	return []any{
		&r.ID, &r.Name, &r.Provider, &r.CustomProviderName, &r.InitialCost, &r.TotalPayments,
		&r.CurrentPayment, &r.PaymentAmount, &r.MinimumMonthlyPayment, &r.StartDate,
		&r.Frequency, &r.EndDate, &r.MinimumPayment, &r.IsCompleted,
	}
}

var GoalColumns = []string{"id", "name", "period", "target_amount", "start_date", "end_date", "is_active", "priority"}

type GoalRow struct {
	ID           string
	Name         string
	Period       string
	TargetAmount decimal.Decimal
	StartDate    string
	EndDate      string
	IsActive     bool
	Priority     int64
}

func GoalToRow(g models.Goal) GoalRow {
	return GoalRow{
		ID:           g.ID,
		Name:         g.Name,
		Period:       string(g.Period),
		TargetAmount: amount(g.TargetAmount),
		StartDate:    NormalizeDate(g.StartDate),
		EndDate:      NormalizeDate(g.EndDate),
		IsActive:     g.IsActive,
		Priority:     int64(g.Priority),
	}
}

func GoalFromRow(r GoalRow) models.Goal {
	return models.Goal{
		ID:           r.ID,
		Name:         r.Name,
		Period:       models.GoalPeriod(r.Period),
		TargetAmount: r.TargetAmount.InexactFloat64(),
		StartDate:    NormalizeDate(r.StartDate),
		EndDate:      NormalizeDate(r.EndDate),
		IsActive:     r.IsActive,
		Priority:     int(r.Priority),
	}
}

func (r GoalRow) Values() []any {
	return []any{r.ID, r.Name, r.Period, r.TargetAmount, r.StartDate, r.EndDate, r.IsActive, r.Priority}
}

func (r *GoalRow) Dest() []any {
	return []any{&r.ID, &r.Name, &r.Period, &r.TargetAmount, &r.StartDate, &r.EndDate, &r.IsActive, &r.Priority}
}

// NormalizeDate trims a stored date or timestamp to YYYY-MM-DD. Postgres DATE
// columns scan as RFC 3339 timestamps.
func NormalizeDate(s string) string {
	if n := len(constants.DateFormat); len(s) > n {
		return s[:n]
	}
	return s
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(money.Safe(v)).Round(2)
}

func nullAmount(p *float64) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: amount(*p), Valid: true}
}

func floatPtr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	v := d.Decimal.InexactFloat64()
	return &v
}
