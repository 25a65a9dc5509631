package system

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/storage/sqlite"
)

func TestDoctorCmd_Healthy(t *testing.T) {
	gokeyring.MockInit()
	ctx := setupTestDB(t)
	seed(t, ctx)
	if _, err := ctx.Backups().CreateBackup(ctx.Store); err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor failed on a healthy database: %v", err)
	}
}

func TestDoctorCmd_NewerSchema(t *testing.T) {
	gokeyring.MockInit()
	ctx := setupTestDB(t)

	store := ctx.Store.(*sqlite.Store)
	if _, err := store.DB().Exec("UPDATE schema_version SET version = 999"); err != nil {
		t.Fatalf("failed to bump schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail on a schema newer than the binary")
	}
}

func TestCheckPaymentPlans(t *testing.T) {
	ctx := setupTestDB(t)

	// Written straight to the store to get past ledger validation.
	bad := models.PaymentPlan{
		ID: "p1", Name: "Tires", Provider: models.ProviderAffirm, InitialCost: 400,
		TotalPayments: 4, CurrentPayment: 5, PaymentAmount: 100,
		StartDate: "2025-01-01", Frequency: models.FrequencyBiweekly,
	}
	if err := ctx.Store.AddPaymentPlan(bad); err != nil {
		t.Fatalf("AddPaymentPlan() error = %v", err)
	}
	if err := checkPaymentPlans(ctx); err == nil {
		t.Error("expected a paid-off plan not marked complete to be reported")
	}

	bad.IsCompleted = true
	if err := ctx.Store.UpdatePaymentPlan(bad); err != nil {
		t.Fatalf("UpdatePaymentPlan() error = %v", err)
	}
	if err := checkPaymentPlans(ctx); err != nil {
		t.Errorf("checkPaymentPlans() error = %v", err)
	}
}

func TestCheckHoursCaps(t *testing.T) {
	ctx := setupTestDB(t)

	for i, id := range []string{"a", "b"} {
		e := models.IncomeEntry{ID: id, Date: "2025-01-06", Amount: float64(100 + i), Platform: models.PlatformAmazonFlex, BlockLength: 270}
		if err := ctx.Store.AddIncomeEntry(e); err != nil {
			t.Fatalf("AddIncomeEntry() error = %v", err)
		}
	}
	if err := checkHoursCaps(ctx); err == nil {
		t.Error("expected 9 hours in a day to exceed the default cap")
	}
}
