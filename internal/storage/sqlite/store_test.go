package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/shiftledger/internal/constants"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/storage"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func floatPtr(v float64) *float64 { return &v }

func TestInit_SeedsDefaultSettings(t *testing.T) {
	store := setupStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if settings.DailyLimitHours != constants.DefaultDailyLimitHours || settings.WeeklyLimitHours != constants.DefaultWeeklyLimitHours {
		t.Errorf("limits = %v/%v, want defaults", settings.DailyLimitHours, settings.WeeklyLimitHours)
	}
	if len(settings.CappedPlatforms) != 1 || settings.CappedPlatforms[0] != models.PlatformAmazonFlex {
		t.Errorf("CappedPlatforms = %v, want [amazon_flex]", settings.CappedPlatforms)
	}
	if settings.Simulator.MinRates[270] != 81 {
		t.Errorf("MinRates[270] = %v, want 81", settings.Simulator.MinRates[270])
	}

	status, err := store.MigrationStatus()
	if err != nil || !status.UpToDate() {
		t.Errorf("MigrationStatus() = %+v, %v; want up to date", status, err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	if err := NewStore(path).Load(); err == nil {
		t.Error("Load() on a missing database should fail")
	}

	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := store.AddGoal(models.Goal{ID: "g1", Name: "Rent", Period: models.GoalPeriodMonthly, TargetAmount: 300,
		StartDate: "2025-01-01", EndDate: "2025-01-31", IsActive: true, Priority: 1}); err != nil {
		t.Fatalf("AddGoal() error = %v", err)
	}
	store.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.GetGoal("g1"); err != nil {
		t.Errorf("GetGoal() after reload error = %v", err)
	}
}

func TestSaveSettings_KeepsPasswordHash(t *testing.T) {
	store := setupStore(t)

	settings, _ := store.GetSettings()
	settings.PasswordHash = "$2a$10$hash"
	settings.DailyLimitHours = 10
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	// Saving without a hash must not clear the stored one.
	settings.PasswordHash = ""
	settings.Timezone = "America/New_York"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if got.PasswordHash != "$2a$10$hash" || got.DailyLimitHours != 10 || got.Timezone != "America/New_York" {
		t.Errorf("GetSettings() = %+v", got)
	}
}

func TestIncomeEntries(t *testing.T) {
	store := setupStore(t)

	entries := []models.IncomeEntry{
		{ID: "a", Date: "2025-01-03", Platform: models.PlatformAmazonFlex, BlockStart: "22:00", BlockEnd: "02:00", BlockLength: 240, Amount: 72, Notes: "late"},
		{ID: "b", Date: "2025-01-01", Platform: models.PlatformOther, CustomPlatform: "Roadie", Amount: 45.5},
		{ID: "c", Date: "2025-01-05", Platform: models.PlatformDoorDash, Amount: 30},
	}
	for _, e := range entries {
		if err := store.AddIncomeEntry(e); err != nil {
			t.Fatalf("AddIncomeEntry(%s) error = %v", e.ID, err)
		}
	}

	got, err := store.GetIncomeEntry("a")
	if err != nil {
		t.Fatalf("GetIncomeEntry() error = %v", err)
	}
	if got != entries[0] {
		t.Errorf("GetIncomeEntry() = %+v, want %+v", got, entries[0])
	}

	all, err := store.GetIncomeEntries()
	if err != nil {
		t.Fatalf("GetIncomeEntries() error = %v", err)
	}
	if len(all) != 3 || all[0].ID != "b" || all[2].ID != "c" {
		t.Errorf("GetIncomeEntries() order = %v", ids(all))
	}

	ranged, err := store.GetIncomeEntriesInRange("2025-01-02", "2025-01-05")
	if err != nil {
		t.Fatalf("GetIncomeEntriesInRange() error = %v", err)
	}
	if len(ranged) != 2 || ranged[0].ID != "a" || ranged[1].ID != "c" {
		t.Errorf("GetIncomeEntriesInRange() = %v, want [a c]", ids(ranged))
	}

	updated := entries[1]
	updated.Amount = 50
	if err := store.UpdateIncomeEntry(updated); err != nil {
		t.Fatalf("UpdateIncomeEntry() error = %v", err)
	}
	if got, _ := store.GetIncomeEntry("b"); got.Amount != 50 {
		t.Errorf("Amount after update = %v, want 50", got.Amount)
	}

	if err := store.DeleteIncomeEntry("c"); err != nil {
		t.Fatalf("DeleteIncomeEntry() error = %v", err)
	}
	if _, err := store.GetIncomeEntry("c"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetIncomeEntry() after delete error = %v, want ErrNotFound", err)
	}
}

func TestNotFound(t *testing.T) {
	store := setupStore(t)

	tests := []struct {
		name string
		fn   func() error
	}{
		{"get entry", func() error { _, err := store.GetIncomeEntry("missing"); return err }},
		{"update entry", func() error {
			return store.UpdateIncomeEntry(models.IncomeEntry{ID: "missing", Date: "2025-01-01", Amount: 1})
		}},
		{"delete entry", func() error { return store.DeleteIncomeEntry("missing") }},
		{"get daily", func() error { _, err := store.GetDailyData("2025-01-01"); return err }},
		{"delete daily", func() error { return store.DeleteDailyData("2025-01-01") }},
		{"get expense", func() error { _, err := store.GetFixedExpense("missing"); return err }},
		{"update expense", func() error {
			return store.UpdateFixedExpense(models.FixedExpense{ID: "missing", Amount: 1, DueDay: 1})
		}},
		{"delete plan", func() error { return store.DeletePaymentPlan("missing") }},
		{"get goal", func() error { _, err := store.GetGoal("missing"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestDailyData_Upsert(t *testing.T) {
	store := setupStore(t)

	if err := store.SaveDailyData(models.DailyData{Date: "2025-01-02", Mileage: floatPtr(80)}); err != nil {
		t.Fatalf("SaveDailyData() error = %v", err)
	}
	if err := store.SaveDailyData(models.DailyData{Date: "2025-01-02", Mileage: floatPtr(95.5), GasCost: floatPtr(32.1)}); err != nil {
		t.Fatalf("SaveDailyData() second error = %v", err)
	}

	all, err := store.GetAllDailyData()
	if err != nil {
		t.Fatalf("GetAllDailyData() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("GetAllDailyData() = %d records, want 1 per date", len(all))
	}
	if *all[0].Mileage != 95.5 || *all[0].GasCost != 32.1 {
		t.Errorf("daily data = %v/%v, want 95.5/32.1", *all[0].Mileage, *all[0].GasCost)
	}
}

func TestFixedExpensesAndPlans(t *testing.T) {
	store := setupStore(t)

	if err := store.AddFixedExpense(models.FixedExpense{ID: "f1", Name: "Rent", Amount: 1200, DueDay: 1, IsActive: true}); err != nil {
		t.Fatalf("AddFixedExpense() error = %v", err)
	}
	if err := store.AddFixedExpense(models.FixedExpense{ID: "f2", Name: "Gym", Amount: 40, DueDay: 20, IsActive: false}); err != nil {
		t.Fatalf("AddFixedExpense() error = %v", err)
	}
	expenses, err := store.GetFixedExpenses()
	if err != nil {
		t.Fatalf("GetFixedExpenses() error = %v", err)
	}
	if len(expenses) != 2 || expenses[1].IsActive {
		t.Errorf("GetFixedExpenses() = %+v", expenses)
	}

	plan := models.PaymentPlan{
		ID: "p1", Name: "Laptop", Provider: models.ProviderAffirm, InitialCost: 400, TotalPayments: 4,
		CurrentPayment: 2, PaymentAmount: 100, MinimumMonthlyPayment: floatPtr(90),
		StartDate: "2025-01-01", Frequency: models.FrequencyMonthly,
	}
	if err := store.AddPaymentPlan(plan); err != nil {
		t.Fatalf("AddPaymentPlan() error = %v", err)
	}
	plan.CurrentPayment = 3
	if err := store.UpdatePaymentPlan(plan); err != nil {
		t.Fatalf("UpdatePaymentPlan() error = %v", err)
	}
	got, err := store.GetPaymentPlan("p1")
	if err != nil {
		t.Fatalf("GetPaymentPlan() error = %v", err)
	}
	if got.CurrentPayment != 3 || got.MinimumMonthlyPayment == nil || *got.MinimumMonthlyPayment != 90 || got.EndDate != "" {
		t.Errorf("GetPaymentPlan() = %+v", got)
	}
}

func TestGoals_OrderedByPriority(t *testing.T) {
	store := setupStore(t)

	for _, g := range []models.Goal{
		{ID: "g2", Name: "Emergency", Period: models.GoalPeriodMonthly, TargetAmount: 200, StartDate: "2025-01-01", EndDate: "2025-01-31", IsActive: true, Priority: 2},
		{ID: "g1", Name: "Rent", Period: models.GoalPeriodMonthly, TargetAmount: 300, StartDate: "2025-01-01", EndDate: "2025-01-31", IsActive: true, Priority: 1},
	} {
		if err := store.AddGoal(g); err != nil {
			t.Fatalf("AddGoal() error = %v", err)
		}
	}

	goals, err := store.GetGoals()
	if err != nil {
		t.Fatalf("GetGoals() error = %v", err)
	}
	if len(goals) != 2 || goals[0].ID != "g1" {
		t.Errorf("GetGoals() = %+v, want g1 first", goals)
	}
	if err := store.DeleteGoal("g1"); err != nil {
		t.Errorf("DeleteGoal() error = %v", err)
	}
}

func ids(entries []models.IncomeEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}
