package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/storage"
)

// Store implements every record operation of storage.Provider over a *sql.DB.
// Backends embed it and add their own lifecycle.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB returns the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) exec(query string, args ...any) (sql.Result, error) {
	return s.db.Exec(s.dialect.Rebind(query), args...)
}

func (s *Store) query(query string, args ...any) (*sql.Rows, error) {
	return s.db.Query(s.dialect.Rebind(query), args...)
}

func (s *Store) queryRow(query string, args ...any) *sql.Row {
	return s.db.QueryRow(s.dialect.Rebind(query), args...)
}

// expectOne maps a write that touched no rows to storage.ErrNotFound.
func expectOne(res sql.Result, what, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, key, storage.ErrNotFound)
	}
	return nil
}

func notFound(err error, what, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, key, storage.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// scanAll scans every row into R and maps it to a model.
func scanAll[R any, PR interface {
	*R
	Dest() []any
}, M any](rows *sql.Rows, fromRow func(R) M) ([]M, error) {
	defer rows.Close()

	results := []M{}
	for rows.Next() {
		var r R
		if err := rows.Scan(PR(&r).Dest()...); err != nil {
			return nil, err
		}
		results = append(results, fromRow(r))
	}
	return results, rows.Err()
}

// Settings

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.query(qSettingsAll)
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, fmt.Errorf("settings: %w", storage.ErrNotFound)
	}

	settings, err := models.MapToSettings(data)
	if err != nil {
		return models.Settings{}, err
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(s.dialect.Rebind(qSettingsUpsert))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// Income entries

func (s *Store) AddIncomeEntry(e models.IncomeEntry) error {
	if _, err := s.exec(insertInto(tableIncomeEntries, storage.IncomeEntryColumns), storage.IncomeEntryToRow(e).Values()...); err != nil {
		return fmt.Errorf("failed to insert income entry: %w", err)
	}
	return nil
}

func (s *Store) GetIncomeEntry(id string) (models.IncomeEntry, error) {
	var r storage.IncomeEntryRow
	if err := s.queryRow(qIncomeByID, id).Scan(r.Dest()...); err != nil {
		return models.IncomeEntry{}, notFound(err, "income entry", id)
	}
	return storage.IncomeEntryFromRow(r), nil
}

func (s *Store) GetIncomeEntries() ([]models.IncomeEntry, error) {
	rows, err := s.query(qIncomeAll)
	if err != nil {
		return nil, fmt.Errorf("failed to list income entries: %w", err)
	}
	return scanAll[storage.IncomeEntryRow](rows, storage.IncomeEntryFromRow)
}

func (s *Store) GetIncomeEntriesInRange(start, end string) ([]models.IncomeEntry, error) {
	rows, err := s.query(qIncomeRange, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list income entries: %w", err)
	}
	return scanAll[storage.IncomeEntryRow](rows, storage.IncomeEntryFromRow)
}

func (s *Store) UpdateIncomeEntry(e models.IncomeEntry) error {
	res, err := s.exec(updateByKey(tableIncomeEntries, storage.IncomeEntryColumns), keyLast(storage.IncomeEntryToRow(e).Values())...)
	if err != nil {
		return fmt.Errorf("failed to update income entry: %w", err)
	}
	return expectOne(res, "income entry", e.ID)
}

func (s *Store) DeleteIncomeEntry(id string) error {
	res, err := s.exec(deleteByKey(tableIncomeEntries, "id"), id)
	if err != nil {
		return fmt.Errorf("failed to delete income entry: %w", err)
	}
	return expectOne(res, "income entry", id)
}

// Daily data

func (s *Store) SaveDailyData(d models.DailyData) error {
	if _, err := s.exec(qDailyUpsert, storage.DailyDataToRow(d).Values()...); err != nil {
		return fmt.Errorf("failed to save daily data: %w", err)
	}
	return nil
}

func (s *Store) GetDailyData(date string) (models.DailyData, error) {
	var r storage.DailyDataRow
	if err := s.queryRow(qDailyByDate, date).Scan(r.Dest()...); err != nil {
		return models.DailyData{}, notFound(err, "daily data", date)
	}
	return storage.DailyDataFromRow(r), nil
}

func (s *Store) GetAllDailyData() ([]models.DailyData, error) {
	rows, err := s.query(qDailyAll)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily data: %w", err)
	}
	return scanAll[storage.DailyDataRow](rows, storage.DailyDataFromRow)
}

func (s *Store) DeleteDailyData(date string) error {
	res, err := s.exec(deleteByKey(tableDailyData, "date"), date)
	if err != nil {
		return fmt.Errorf("failed to delete daily data: %w", err)
	}
	return expectOne(res, "daily data", date)
}

// Fixed expenses

func (s *Store) AddFixedExpense(f models.FixedExpense) error {
	if _, err := s.exec(insertInto(tableFixedExpenses, storage.FixedExpenseColumns), storage.FixedExpenseToRow(f).Values()...); err != nil {
		return fmt.Errorf("failed to insert fixed expense: %w", err)
	}
	return nil
}

func (s *Store) GetFixedExpense(id string) (models.FixedExpense, error) {
	var r storage.FixedExpenseRow
	if err := s.queryRow(qFixedByID, id).Scan(r.Dest()...); err != nil {
		return models.FixedExpense{}, notFound(err, "fixed expense", id)
	}
	return storage.FixedExpenseFromRow(r), nil
}

func (s *Store) GetFixedExpenses() ([]models.FixedExpense, error) {
	rows, err := s.query(qFixedAll)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixed expenses: %w", err)
	}
	return scanAll[storage.FixedExpenseRow](rows, storage.FixedExpenseFromRow)
}

func (s *Store) UpdateFixedExpense(f models.FixedExpense) error {
	res, err := s.exec(updateByKey(tableFixedExpenses, storage.FixedExpenseColumns), keyLast(storage.FixedExpenseToRow(f).Values())...)
	if err != nil {
		return fmt.Errorf("failed to update fixed expense: %w", err)
	}
	return expectOne(res, "fixed expense", f.ID)
}

func (s *Store) DeleteFixedExpense(id string) error {
	res, err := s.exec(deleteByKey(tableFixedExpenses, "id"), id)
	if err != nil {
		return fmt.Errorf("failed to delete fixed expense: %w", err)
	}
	return expectOne(res, "fixed expense", id)
}

// Payment plans

func (s *Store) AddPaymentPlan(p models.PaymentPlan) error {
	if _, err := s.exec(insertInto(tablePaymentPlans, storage.PaymentPlanColumns), storage.PaymentPlanToRow(p).Values()...); err != nil {
		return fmt.Errorf("failed to insert payment plan: %w", err)
	}
	return nil
}

func (s *Store) GetPaymentPlan(id string) (models.PaymentPlan, error) {
	var r storage.PaymentPlanRow
	if err := s.queryRow(qPlanByID, id).Scan(r.Dest()...); err != nil {
		return models.PaymentPlan{}, notFound(err, "payment plan", id)
	}
	return storage.PaymentPlanFromRow(r), nil
}

func (s *Store) GetPaymentPlans() ([]models.PaymentPlan, error) {
	rows, err := s.query(qPlanAll)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment plans: %w", err)
	}
	return scanAll[storage.PaymentPlanRow](rows, storage.PaymentPlanFromRow)
}

func (s *Store) UpdatePaymentPlan(p models.PaymentPlan) error {
	res, err := s.exec(updateByKey(tablePaymentPlans, storage.PaymentPlanColumns), keyLast(storage.PaymentPlanToRow(p).Values())...)
	if err != nil {
		return fmt.Errorf("failed to update payment plan: %w", err)
	}
	return expectOne(res, "payment plan", p.ID)
}

func (s *Store) DeletePaymentPlan(id string) error {
	res, err := s.exec(deleteByKey(tablePaymentPlans, "id"), id)
	if err != nil {
		return fmt.Errorf("failed to delete payment plan: %w", err)
	}
	return expectOne(res, "payment plan", id)
}

// Goals

func (s *Store) AddGoal(g models.Goal) error {
	if _, err := s.exec(insertInto(tableGoals, storage.GoalColumns), storage.GoalToRow(g).Values()...); err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

func (s *Store) GetGoal(id string) (models.Goal, error) {
	var r storage.GoalRow
	if err := s.queryRow(qGoalByID, id).Scan(r.Dest()...); err != nil {
		return models.Goal{}, notFound(err, "goal", id)
	}
	return storage.GoalFromRow(r), nil
}

func (s *Store) GetGoals() ([]models.Goal, error) {
	rows, err := s.query(qGoalAll)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return scanAll[storage.GoalRow](rows, storage.GoalFromRow)
}

func (s *Store) UpdateGoal(g models.Goal) error {
	res, err := s.exec(updateByKey(tableGoals, storage.GoalColumns), keyLast(storage.GoalToRow(g).Values())...)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return expectOne(res, "goal", g.ID)
}

func (s *Store) DeleteGoal(id string) error {
	res, err := s.exec(deleteByKey(tableGoals, "id"), id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return expectOne(res, "goal", id)
}

// keyLast moves the leading key value to the end to match updateByKey.
func keyLast(values []any) []any {
	return append(values[1:], values[0])
}
