package ledger

import (
	"slices"
	"strings"

	"github.com/julianstephens/shiftledger/internal/hours"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/storage"
	"github.com/julianstephens/shiftledger/internal/validation"
)

// AddIncomeEntry records a worked block. An empty ID is assigned. The entry
// is rejected when it would push a capped platform past the daily or
// rolling-week hours limit.
func (l *Ledger) AddIncomeEntry(e models.IncomeEntry) (models.IncomeEntry, Outcome) {
	if e.ID == "" {
		e.ID = newID()
	}
	if err := validateIncome(e); err != nil {
		return e, rejected(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := hours.CheckWrite(l.state.IncomeEntries, e, "", hours.LimitsFromSettings(l.state.Settings)); err != nil {
		return e, rejected(err)
	}
	return e, l.commit("add_income_entry", e.ID,
		func(s *State) {
			s.IncomeEntries = append(s.IncomeEntries, e)
			slices.SortStableFunc(s.IncomeEntries, byDate)
		},
		func(p storage.Provider) error { return p.AddIncomeEntry(e) })
}

func (l *Ledger) UpdateIncomeEntry(e models.IncomeEntry) Outcome {
	if err := validateIncome(e); err != nil {
		return rejected(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.state.IncomeEntries, func(x models.IncomeEntry) bool { return x.ID == e.ID })
	if i < 0 {
		return notFound("income entry", e.ID)
	}
	if err := hours.CheckWrite(l.state.IncomeEntries, e, e.ID, hours.LimitsFromSettings(l.state.Settings)); err != nil {
		return rejected(err)
	}
	return l.commit("update_income_entry", e.ID,
		func(s *State) {
			s.IncomeEntries[i] = e
			slices.SortStableFunc(s.IncomeEntries, byDate)
		},
		func(p storage.Provider) error { return p.UpdateIncomeEntry(e) })
}

func (l *Ledger) DeleteIncomeEntry(id string) Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.state.IncomeEntries, func(x models.IncomeEntry) bool { return x.ID == id })
	if i < 0 {
		return notFound("income entry", id)
	}
	return l.commit("delete_income_entry", id,
		func(s *State) { s.IncomeEntries = slices.Delete(s.IncomeEntries, i, i+1) },
		func(p storage.Provider) error { return p.DeleteIncomeEntry(id) })
}

// SaveDailyData inserts or replaces the record for d.Date.
func (l *Ledger) SaveDailyData(d models.DailyData) Outcome {
	r := validation.DailyData(d)
	if err := r.Err(); err != nil {
		return rejected(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.commit("save_daily_data", d.Date,
		func(s *State) {
			i := slices.IndexFunc(s.DailyData, func(x models.DailyData) bool { return x.Date == d.Date })
			if i >= 0 {
				s.DailyData[i] = d
				return
			}
			s.DailyData = append(s.DailyData, d)
			slices.SortFunc(s.DailyData, func(a, b models.DailyData) int { return strings.Compare(a.Date, b.Date) })
		},
		func(p storage.Provider) error { return p.SaveDailyData(d) })
}

func (l *Ledger) DeleteDailyData(date string) Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.state.DailyData, func(x models.DailyData) bool { return x.Date == date })
	if i < 0 {
		return notFound("daily data", date)
	}
	return l.commit("delete_daily_data", date,
		func(s *State) { s.DailyData = slices.Delete(s.DailyData, i, i+1) },
		func(p storage.Provider) error { return p.DeleteDailyData(date) })
}

func (l *Ledger) AddFixedExpense(f models.FixedExpense) (models.FixedExpense, Outcome) {
	if f.ID == "" {
		f.ID = newID()
	}
	r := validation.FixedExpense(f)
	if err := r.Err(); err != nil {
		return f, rejected(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return f, l.commit("add_fixed_expense", f.ID,
		func(s *State) { s.FixedExpenses = append(s.FixedExpenses, f) },
		func(p storage.Provider) error { return p.AddFixedExpense(f) })
}

func (l *Ledger) UpdateFixedExpense(f models.FixedExpense) Outcome {
	r := validation.FixedExpense(f)
	if err := r.Err(); err != nil {
		return rejected(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.state.FixedExpenses, func(x models.FixedExpense) bool { return x.ID == f.ID })
	if i < 0 {
		return notFound("fixed expense", f.ID)
	}
	return l.commit("update_fixed_expense", f.ID,
		func(s *State) { s.FixedExpenses[i] = f },
		func(p storage.Provider) error { return p.UpdateFixedExpense(f) })
}

func (l *Ledger) DeleteFixedExpense(id string) Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.state.FixedExpenses, func(x models.FixedExpense) bool { return x.ID == id })
	if i < 0 {
		return notFound("fixed expense", id)
	}
	return l.commit("delete_fixed_expense", id,
		func(s *State) { s.FixedExpenses = slices.Delete(s.FixedExpenses, i, i+1) },
		func(p storage.Provider) error { return p.DeleteFixedExpense(id) })
}

func (l *Ledger) AddPaymentPlan(plan models.PaymentPlan) (models.PaymentPlan, Outcome) {
	if plan.ID == "" {
		plan.ID = newID()
	}
	if plan.CurrentPayment == 0 {
		plan.CurrentPayment = 1
	}
	r := validation.PaymentPlan(plan)
	if err := r.Err(); err != nil {
		return plan, rejected(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return plan, l.commit("add_payment_plan", plan.ID,
		func(s *State) { s.PaymentPlans = append(s.PaymentPlans, plan) },
		func(p storage.Provider) error { return p.AddPaymentPlan(plan) })
}

func (l *Ledger) UpdatePaymentPlan(plan models.PaymentPlan) Outcome {
	r := validation.PaymentPlan(plan)
	if err := r.Err(); err != nil {
		return rejected(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.state.PaymentPlans, func(x models.PaymentPlan) bool { return x.ID == plan.ID })
	if i < 0 {
		return notFound("payment plan", plan.ID)
	}
	return l.commit("update_payment_plan", plan.ID,
		func(s *State) { s.PaymentPlans[i] = plan },
		func(p storage.Provider) error { return p.UpdatePaymentPlan(plan) })
}

// RecordPayment advances a plan by one installment and marks it completed
// once the last installment is paid.
func (l *Ledger) RecordPayment(id string) (models.PaymentPlan, Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.state.PaymentPlans, func(x models.PaymentPlan) bool { return x.ID == id })
	if i < 0 {
		return models.PaymentPlan{}, notFound("payment plan", id)
	}
	plan := l.state.PaymentPlans[i]
	if plan.IsCompleted || plan.CurrentPayment > plan.TotalPayments {
		return plan, rejected(errPlanPaidOff(plan))
	}
	plan.CurrentPayment++
	plan.IsCompleted = plan.CurrentPayment > plan.TotalPayments

	return plan, l.commit("record_payment", id,
		func(s *State) { s.PaymentPlans[i] = plan },
		func(p storage.Provider) error { return p.UpdatePaymentPlan(plan) })
}

func (l *Ledger) DeletePaymentPlan(id string) Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.state.PaymentPlans, func(x models.PaymentPlan) bool { return x.ID == id })
	if i < 0 {
		return notFound("payment plan", id)
	}
	return l.commit("delete_payment_plan", id,
		func(s *State) { s.PaymentPlans = slices.Delete(s.PaymentPlans, i, i+1) },
		func(p storage.Provider) error { return p.DeletePaymentPlan(id) })
}

func (l *Ledger) AddGoal(g models.Goal) (models.Goal, Outcome) {
	if g.ID == "" {
		g.ID = newID()
	}
	r := validation.Goal(g)
	if err := r.Err(); err != nil {
		return g, rejected(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return g, l.commit("add_goal", g.ID,
		func(s *State) {
			s.Goals = append(s.Goals, g)
			slices.SortStableFunc(s.Goals, byPriority)
		},
		func(p storage.Provider) error { return p.AddGoal(g) })
}

func (l *Ledger) UpdateGoal(g models.Goal) Outcome {
	r := validation.Goal(g)
	if err := r.Err(); err != nil {
		return rejected(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.state.Goals, func(x models.Goal) bool { return x.ID == g.ID })
	if i < 0 {
		return notFound("goal", g.ID)
	}
	return l.commit("update_goal", g.ID,
		func(s *State) {
			s.Goals[i] = g
			slices.SortStableFunc(s.Goals, byPriority)
		},
		func(p storage.Provider) error { return p.UpdateGoal(g) })
}

func (l *Ledger) DeleteGoal(id string) Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.state.Goals, func(x models.Goal) bool { return x.ID == id })
	if i < 0 {
		return notFound("goal", id)
	}
	return l.commit("delete_goal", id,
		func(s *State) { s.Goals = slices.Delete(s.Goals, i, i+1) },
		func(p storage.Provider) error { return p.DeleteGoal(id) })
}

// SaveSettings replaces the settings. An empty PasswordHash keeps the
// current one.
func (l *Ledger) SaveSettings(settings models.Settings) Outcome {
	r := validation.Settings(settings)
	if err := r.Err(); err != nil {
		return rejected(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if settings.PasswordHash == "" {
		settings.PasswordHash = l.state.Settings.PasswordHash
	}
	return l.commit("save_settings", "settings",
		func(s *State) { s.Settings = settings },
		func(p storage.Provider) error { return p.SaveSettings(settings) })
}

// SetOwnerPassword stores the owner password hash if none is set yet.
func (l *Ledger) SetOwnerPassword(hash string) Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Settings.PasswordHash != "" {
		return rejected(ErrSetupDone)
	}
	settings := l.state.Settings
	settings.PasswordHash = hash
	return l.commit("set_owner_password", "settings",
		func(s *State) { s.Settings = settings },
		func(p storage.Provider) error { return p.SaveSettings(settings) })
}

func validateIncome(e models.IncomeEntry) error {
	r := validation.IncomeEntry(e)
	return r.Err()
}

func byPriority(a, b models.Goal) int {
	return a.Priority - b.Priority
}
