package sqlstore

import (
	"strings"

	"github.com/julianstephens/shiftledger/internal/storage"
)

const (
	tableIncomeEntries = "income_entries"
	tableDailyData     = "daily_data"
	tableFixedExpenses = "fixed_expenses"
	tablePaymentPlans  = "payment_plans"
	tableGoals         = "goals"
)

var (
	qIncomeSelect   = selectFrom(tableIncomeEntries, storage.IncomeEntryColumns)
	qIncomeByID     = qIncomeSelect + " WHERE id = ?"
	qIncomeAll      = qIncomeSelect + " ORDER BY date, created_at, id"
	qIncomeRange    = qIncomeSelect + " WHERE date >= ? AND date <= ? ORDER BY date, created_at, id"
	qDailySelect    = selectFrom(tableDailyData, storage.DailyDataColumns)
	qDailyByDate    = qDailySelect + " WHERE date = ?"
	qDailyAll       = qDailySelect + " ORDER BY date"
	qDailyUpsert    = "INSERT INTO daily_data (date, mileage, gas_expense) VALUES (?, ?, ?) ON CONFLICT (date) DO UPDATE SET mileage = excluded.mileage, gas_expense = excluded.gas_expense"
	qFixedSelect    = selectFrom(tableFixedExpenses, storage.FixedExpenseColumns)
	qFixedByID      = qFixedSelect + " WHERE id = ?"
	qFixedAll       = qFixedSelect + " ORDER BY due_date, name"
	qPlanSelect     = selectFrom(tablePaymentPlans, storage.PaymentPlanColumns)
	qPlanByID       = qPlanSelect + " WHERE id = ?"
	qPlanAll        = qPlanSelect + " ORDER BY is_completed, start_date, name"
	qGoalSelect     = selectFrom(tableGoals, storage.GoalColumns)
	qGoalByID       = qGoalSelect + " WHERE id = ?"
	qGoalAll        = qGoalSelect + " ORDER BY priority, name"
	qSettingsAll    = "SELECT key, value FROM settings"
	qSettingsUpsert = "INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value"
)

func selectFrom(table string, columns []string) string {
	return "SELECT " + strings.Join(columns, ", ") + " FROM " + table
}

func insertInto(table string, columns []string) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + marks + ")"
}

// updateByKey sets every column after the first, keyed on the first.
func updateByKey(table string, columns []string) string {
	sets := make([]string, 0, len(columns)-1)
	for _, c := range columns[1:] {
		sets = append(sets, c+" = ?")
	}
	return "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE " + columns[0] + " = ?"
}

func deleteByKey(table, key string) string {
	return "DELETE FROM " + table + " WHERE " + key + " = ?"
}
