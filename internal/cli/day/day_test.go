package day

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/shiftledger/internal/cli"
	"github.com/julianstephens/shiftledger/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &cli.Context{Store: store, ConfigDir: dir}
}

func ptr(v float64) *float64 { return &v }

func TestDaySetCmd_Validate(t *testing.T) {
	if err := (&DaySetCmd{}).Validate(); err == nil {
		t.Error("expected an error when neither figure is given")
	}
	if err := (&DaySetCmd{Gas: ptr(10)}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestDaySetCmd_KeepsOtherFigure(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&DaySetCmd{Date: "2025-02-01", Mileage: ptr(120)}).Run(ctx); err != nil {
		t.Fatalf("set mileage failed: %v", err)
	}
	if err := (&DaySetCmd{Date: "2025-02-01", Gas: ptr(32.5)}).Run(ctx); err != nil {
		t.Fatalf("set gas failed: %v", err)
	}

	d, err := ctx.Store.GetDailyData("2025-02-01")
	if err != nil {
		t.Fatalf("GetDailyData() error = %v", err)
	}
	if d.Mileage == nil || *d.Mileage != 120 {
		t.Errorf("mileage = %v, want 120", d.Mileage)
	}
	if d.GasCost == nil || *d.GasCost != 32.5 {
		t.Errorf("gas = %v, want 32.5", d.GasCost)
	}
}

func TestDaySetCmd_RejectsNegative(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&DaySetCmd{Date: "2025-02-01", Gas: ptr(-5)}).Run(ctx); err == nil {
		t.Error("expected negative gas to be rejected")
	}
}

func TestDayShowAndClear(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&DaySetCmd{Date: "2025-02-01", Mileage: ptr(100), Gas: ptr(20)}).Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := (&DayShowCmd{Date: "2025-02-01"}).Run(ctx); err != nil {
		t.Errorf("show failed: %v", err)
	}
	if err := (&DayShowCmd{}).Run(ctx); err != nil {
		t.Errorf("show today failed: %v", err)
	}
	if err := (&DayShowCmd{Date: "Feb 1"}).Run(ctx); err == nil {
		t.Error("expected a malformed date to fail")
	}

	if err := (&DayClearCmd{Date: "2025-02-01"}).Run(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := ctx.Store.GetDailyData("2025-02-01"); err == nil {
		t.Error("daily data still present after clear")
	}
}
