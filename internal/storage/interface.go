// Package storage defines the persistence boundary of the ledger: the
// Provider contract every backend implements and the row mapping between
// stored columns and models.
package storage

import (
	"errors"

	"github.com/julianstephens/shiftledger/internal/models"
)

// ErrNotFound is returned when a record with the requested key does not exist.
var ErrNotFound = errors.New("record not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Income entries
	AddIncomeEntry(models.IncomeEntry) error
	GetIncomeEntry(id string) (models.IncomeEntry, error)
	GetIncomeEntries() ([]models.IncomeEntry, error)
	// GetIncomeEntriesInRange returns entries dated within [start, end], both YYYY-MM-DD.
	GetIncomeEntriesInRange(start, end string) ([]models.IncomeEntry, error)
	UpdateIncomeEntry(models.IncomeEntry) error
	DeleteIncomeEntry(id string) error

	// Daily data, keyed by date
	SaveDailyData(models.DailyData) error
	GetDailyData(date string) (models.DailyData, error)
	GetAllDailyData() ([]models.DailyData, error)
	DeleteDailyData(date string) error

	// Fixed expenses
	AddFixedExpense(models.FixedExpense) error
	GetFixedExpense(id string) (models.FixedExpense, error)
	GetFixedExpenses() ([]models.FixedExpense, error)
	UpdateFixedExpense(models.FixedExpense) error
	DeleteFixedExpense(id string) error

	// Payment plans
	AddPaymentPlan(models.PaymentPlan) error
	GetPaymentPlan(id string) (models.PaymentPlan, error)
	GetPaymentPlans() ([]models.PaymentPlan, error)
	UpdatePaymentPlan(models.PaymentPlan) error
	DeletePaymentPlan(id string) error

	// Goals
	AddGoal(models.Goal) error
	GetGoal(id string) (models.Goal, error)
	GetGoals() ([]models.Goal, error)
	UpdateGoal(models.Goal) error
	DeleteGoal(id string) error

	// Utils
	GetConfigPath() string
}
