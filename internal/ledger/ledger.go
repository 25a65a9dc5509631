// Package ledger holds the working state of the books in memory over a
// storage.Provider. Every mutation is applied to memory first and then written
// through; a failed write restores the state captured before the change.
package ledger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/julianstephens/shiftledger/internal/logger"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/storage"
)

// Status is the discriminant of an Outcome.
type Status string

const (
	// StatusCommitted means memory and storage both hold the change.
	StatusCommitted Status = "committed"
	// StatusRejected means the change failed validation or a limit check and
	// nothing was touched.
	StatusRejected Status = "rejected"
	// StatusRolledBack means the write failed and memory was restored.
	StatusRolledBack Status = "rolled_back"
)

var (
	// ErrRolledBack is joined into the error of every rolled-back Outcome.
	ErrRolledBack = errors.New("change rolled back after a failed write")
	ErrSetupDone  = errors.New("setup has already been completed")
)

// Outcome reports what happened to a mutation.
type Outcome struct {
	Status Status
	Err    error
}

func (o Outcome) OK() bool {
	return o.Status == StatusCommitted
}

func rejected(err error) Outcome {
	return Outcome{Status: StatusRejected, Err: err}
}

// State is a point-in-time copy of every collection.
type State struct {
	Settings      models.Settings       `json:"settings"`
	IncomeEntries []models.IncomeEntry  `json:"income_entries"`
	DailyData     []models.DailyData    `json:"daily_data"`
	FixedExpenses []models.FixedExpense `json:"fixed_expenses"`
	PaymentPlans  []models.PaymentPlan  `json:"payment_plans"`
	Goals         []models.Goal         `json:"goals"`
}

func (s State) clone() State {
	c := State{
		Settings:      s.Settings,
		IncomeEntries: slices.Clone(s.IncomeEntries),
		DailyData:     slices.Clone(s.DailyData),
		FixedExpenses: slices.Clone(s.FixedExpenses),
		PaymentPlans:  slices.Clone(s.PaymentPlans),
		Goals:         slices.Clone(s.Goals),
	}
	c.Settings.CappedPlatforms = slices.Clone(s.Settings.CappedPlatforms)
	c.Settings.Simulator.MinRates = maps.Clone(s.Settings.Simulator.MinRates)
	return c
}

// Ledger is safe for concurrent use. Writes are serialized.
type Ledger struct {
	mu    sync.RWMutex
	store storage.Provider
	state State
}

// Open loads every collection from a store that has already been loaded or
// initialized.
func Open(store storage.Provider) (*Ledger, error) {
	l := &Ledger{store: store}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload replaces the in-memory state with what the store holds.
func (l *Ledger) Reload() error {
	var (
		st  State
		err error
	)
	if st.Settings, err = l.store.GetSettings(); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		models.ApplyDefaultSettings(&st.Settings)
	}
	if st.IncomeEntries, err = l.store.GetIncomeEntries(); err != nil {
		return fmt.Errorf("failed to load income entries: %w", err)
	}
	if st.DailyData, err = l.store.GetAllDailyData(); err != nil {
		return fmt.Errorf("failed to load daily data: %w", err)
	}
	if st.FixedExpenses, err = l.store.GetFixedExpenses(); err != nil {
		return fmt.Errorf("failed to load fixed expenses: %w", err)
	}
	if st.PaymentPlans, err = l.store.GetPaymentPlans(); err != nil {
		return fmt.Errorf("failed to load payment plans: %w", err)
	}
	if st.Goals, err = l.store.GetGoals(); err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}

	l.mu.Lock()
	l.state = st
	l.mu.Unlock()
	logger.Debug("Ledger loaded",
		"income_entries", len(st.IncomeEntries),
		"daily_data", len(st.DailyData),
		"fixed_expenses", len(st.FixedExpenses),
		"payment_plans", len(st.PaymentPlans),
		"goals", len(st.Goals))
	return nil
}

// Snapshot returns a copy the caller may keep.
func (l *Ledger) Snapshot() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.clone()
}

func (l *Ledger) Settings() models.Settings {
	return l.Snapshot().Settings
}

// commit applies mutate, writes through and restores the pre-image on a
// failed write. The caller holds l.mu.
func (l *Ledger) commit(action, key string, mutate func(*State), write func(storage.Provider) error) Outcome {
	pre := l.state.clone()
	mutate(&l.state)
	if err := write(l.store); err != nil {
		l.state = pre
		logger.Warn("Write failed, state rolled back", "action", action, "id", key, "error", err)
		return Outcome{Status: StatusRolledBack, Err: errors.Join(ErrRolledBack, err)}
	}
	logger.Debug("Change committed", "action", action, "id", key)
	return Outcome{Status: StatusCommitted}
}

func newID() string {
	return uuid.New().String()
}

func notFound(kind, id string) Outcome {
	return rejected(fmt.Errorf("%s %q: %w", kind, id, storage.ErrNotFound))
}

func byDate(a, b models.IncomeEntry) int {
	return strings.Compare(a.Date, b.Date)
}
