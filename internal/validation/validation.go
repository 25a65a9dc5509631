// Package validation declares the constraints on every stored record once, so
// the write path and the engine's defensive checks agree.
package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/julianstephens/shiftledger/internal/constants"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/money"
	"github.com/julianstephens/shiftledger/internal/utils"
)

// IssueType classifies a failed constraint
type IssueType string

const (
	IssueRequired    IssueType = "required"
	IssueNotPositive IssueType = "not_positive"
	IssueNegative    IssueType = "negative"
	IssueInvalidDate IssueType = "invalid_date"
	IssueInvalidTime IssueType = "invalid_time"
	IssueInvalidEnum IssueType = "invalid_enum"
	IssueOutOfRange  IssueType = "out_of_range"
	IssueDateOrder   IssueType = "date_order"
	IssueSubCent     IssueType = "sub_cent"
)

// Issue is one failed constraint on one field.
type Issue struct {
	Type        IssueType
	Entity      string
	Field       string
	Description string
}

// Result collects the issues found on a record.
type Result struct {
	Issues []Issue
}

// HasIssues returns true if any constraint failed
func (r *Result) HasIssues() bool {
	return len(r.Issues) > 0
}

// Has reports whether field failed with the given issue type.
func (r *Result) Has(field string, t IssueType) bool {
	for _, issue := range r.Issues {
		if issue.Field == field && issue.Type == t {
			return true
		}
	}
	return false
}

// FormatReport returns a human-readable report of all issues
func (r *Result) FormatReport() string {
	if !r.HasIssues() {
		return "No issues detected."
	}

	var sb strings.Builder
	sb.WriteString("Validation failed:\n")
	for _, issue := range r.Issues {
		fmt.Fprintf(&sb, "- %s\n", issue.Description)
	}
	return sb.String()
}

// Err returns nil when the record is valid, else one error joining every issue.
func (r *Result) Err() error {
	if !r.HasIssues() {
		return nil
	}
	errs := make([]error, 0, len(r.Issues))
	for _, issue := range r.Issues {
		errs = append(errs, errors.New(issue.Description))
	}
	return errors.Join(errs...)
}

func (r *Result) add(t IssueType, entity, field, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Type:        t,
		Entity:      entity,
		Field:       field,
		Description: fmt.Sprintf(format, args...),
	})
}

func (r *Result) required(entity, field, value string) {
	if strings.TrimSpace(value) == "" {
		r.add(IssueRequired, entity, field, "%s %s is required", entity, field)
	}
}

func (r *Result) positive(entity, field string, v float64) {
	if !finite(v) || v <= 0 {
		r.add(IssueNotPositive, entity, field, "%s %s must be greater than 0, got %v", entity, field, v)
	}
}

func (r *Result) nonNegative(entity, field string, v *float64) {
	if v != nil && (!finite(*v) || *v < 0) {
		r.add(IssueNegative, entity, field, "%s %s must not be negative, got %v", entity, field, *v)
	}
}

// currency is positive with at most two decimal places, matching what the
// store keeps.
func (r *Result) currency(entity, field string, v float64) {
	r.positive(entity, field, v)
	r.cents(entity, field, &v)
}

func (r *Result) optionalCurrency(entity, field string, v *float64) {
	r.nonNegative(entity, field, v)
	r.cents(entity, field, v)
}

func (r *Result) cents(entity, field string, v *float64) {
	if v != nil && finite(*v) && !money.IsCents(*v) {
		r.add(IssueSubCent, entity, field, "%s %s must have at most two decimal places, got %v", entity, field, *v)
	}
}

func (r *Result) date(entity, field, value string) bool {
	if !utils.ValidateDateFormat(value) {
		r.add(IssueInvalidDate, entity, field, "%s %s must be a date in YYYY-MM-DD format, got %q", entity, field, value)
		return false
	}
	return true
}

func (r *Result) clock(entity, field, value string) {
	if value != "" && !utils.ValidateTimeFormat(value) {
		r.add(IssueInvalidTime, entity, field, "%s %s must be a time in HH:MM format, got %q", entity, field, value)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IncomeEntry validates an income entry.
func IncomeEntry(e models.IncomeEntry) Result {
	const entity = "income entry"
	var r Result

	r.date(entity, "date", e.Date)
	if !e.Platform.IsValid() {
		r.add(IssueInvalidEnum, entity, "platform", "%s platform %q is not recognized", entity, e.Platform)
	}
	if e.Platform == models.PlatformOther {
		r.required(entity, "custom platform name", e.CustomPlatform)
	}
	r.clock(entity, "block start", e.BlockStart)
	r.clock(entity, "block end", e.BlockEnd)
	if e.BlockLength < 0 {
		r.add(IssueNegative, entity, "block length", "%s block length must not be negative, got %d", entity, e.BlockLength)
	}
	r.currency(entity, "amount", e.Amount)
	return r
}

// DailyData validates a per-date record.
func DailyData(d models.DailyData) Result {
	const entity = "daily data"
	var r Result

	r.date(entity, "date", d.Date)
	r.optionalCurrency(entity, "mileage", d.Mileage)
	r.optionalCurrency(entity, "gas expense", d.GasCost)
	return r
}

// FixedExpense validates a recurring bill.
func FixedExpense(f models.FixedExpense) Result {
	const entity = "fixed expense"
	var r Result

	r.required(entity, "name", f.Name)
	r.currency(entity, "amount", f.Amount)
	if f.DueDay < 1 || f.DueDay > 31 {
		r.add(IssueOutOfRange, entity, "due date", "%s due date must be a day of month between 1 and 31, got %d", entity, f.DueDay)
	}
	return r
}

// PaymentPlan validates an installment plan.
func PaymentPlan(p models.PaymentPlan) Result {
	const entity = "payment plan"
	var r Result

	r.required(entity, "name", p.Name)
	if !p.Provider.IsValid() {
		r.add(IssueInvalidEnum, entity, "provider", "%s provider %q is not recognized", entity, p.Provider)
	}
	r.currency(entity, "initial cost", p.InitialCost)
	if p.TotalPayments < 1 {
		r.add(IssueOutOfRange, entity, "total payments", "%s total payments must be at least 1, got %d", entity, p.TotalPayments)
	}
	if p.CurrentPayment < 1 || p.CurrentPayment > p.TotalPayments+1 {
		r.add(IssueOutOfRange, entity, "current payment",
			"%s current payment must be between 1 and %d, got %d", entity, p.TotalPayments+1, p.CurrentPayment)
	}
	r.currency(entity, "payment amount", p.PaymentAmount)
	r.optionalCurrency(entity, "minimum monthly payment", p.MinimumMonthlyPayment)
	r.optionalCurrency(entity, "minimum payment", p.MinimumPayment)
	if !p.Frequency.IsValid() {
		r.add(IssueInvalidEnum, entity, "frequency", "%s frequency %q is not recognized", entity, p.Frequency)
	}

	startOK := r.date(entity, "start date", p.StartDate)
	if p.EndDate != "" && r.date(entity, "end date", p.EndDate) && startOK && p.EndDate < p.StartDate {
		r.add(IssueDateOrder, entity, "end date", "%s end date %s is before start date %s", entity, p.EndDate, p.StartDate)
	}
	return r
}

// Goal validates a savings goal.
func Goal(g models.Goal) Result {
	const entity = "goal"
	var r Result

	r.required(entity, "name", g.Name)
	if !g.Period.IsValid() {
		r.add(IssueInvalidEnum, entity, "period", "%s period %q must be weekly or monthly", entity, g.Period)
	}
	r.currency(entity, "target amount", g.TargetAmount)
	startOK := r.date(entity, "start date", g.StartDate)
	endOK := r.date(entity, "end date", g.EndDate)
	if startOK && endOK && g.EndDate <= g.StartDate {
		r.add(IssueDateOrder, entity, "end date", "%s end date %s must be after start date %s", entity, g.EndDate, g.StartDate)
	}
	if g.Priority < 1 {
		r.add(IssueOutOfRange, entity, "priority", "%s priority must be a positive integer, got %d", entity, g.Priority)
	}
	return r
}

// SimulatorConfig validates simulation parameters.
func SimulatorConfig(c models.SimulatorConfig) Result {
	const entity = "simulator"
	var r Result

	if c.BlocksBeforeGas < 1 {
		r.add(IssueOutOfRange, entity, "blocks before gas", "%s blocks before gas must be at least 1, got %d", entity, c.BlocksBeforeGas)
	}
	r.nonNegative(entity, "gas price", &c.GasPrice)
	r.nonNegative(entity, "tank size", &c.TankSize)
	for minutes, rate := range c.MinRates {
		if !knownBlockLength(minutes) {
			r.add(IssueInvalidEnum, entity, "min rates", "%s block length %d is not offered (want one of %v)", entity, minutes, constants.BlockLengths)
			continue
		}
		r.nonNegative(entity, fmt.Sprintf("min rate %d", minutes), &rate)
	}
	return r
}

// Settings validates application settings, simulator included.
func Settings(s models.Settings) Result {
	const entity = "settings"
	var r Result

	r.positive(entity, "daily limit hours", s.DailyLimitHours)
	r.positive(entity, "weekly limit hours", s.WeeklyLimitHours)
	if !utils.ValidateTimezone(s.Timezone) {
		r.add(IssueInvalidEnum, entity, "timezone", "%s timezone %q is not a valid IANA name", entity, s.Timezone)
	}
	for _, p := range s.CappedPlatforms {
		if !p.IsValid() {
			r.add(IssueInvalidEnum, entity, "capped platforms", "%s capped platform %q is not recognized", entity, p)
		}
	}
	if s.ReminderDaysAhead < 0 {
		r.add(IssueNegative, entity, "reminder days ahead", "%s reminder days ahead must not be negative, got %d", entity, s.ReminderDaysAhead)
	}

	sim := SimulatorConfig(s.Simulator)
	r.Issues = append(r.Issues, sim.Issues...)
	return r
}

func knownBlockLength(minutes int) bool {
	for _, b := range constants.BlockLengths {
		if b == minutes {
			return true
		}
	}
	return false
}
