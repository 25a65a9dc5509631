package system

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/shiftledger/internal/cli"
	"github.com/julianstephens/shiftledger/internal/models"
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

func seed(t *testing.T, ctx *cli.Context) {
	t.Helper()
	l, err := ctx.Ledger()
	if err != nil {
		t.Fatalf("Ledger() error = %v", err)
	}
	if _, out := l.AddIncomeEntry(models.IncomeEntry{Date: "2025-01-06", Amount: 80, Platform: models.PlatformAmazonFlex, BlockLength: 180}); out.Err != nil {
		t.Fatalf("AddIncomeEntry() error = %v", out.Err)
	}
	if _, out := l.AddFixedExpense(models.FixedExpense{Name: "Phone", Amount: 45, DueDay: 15, IsActive: true}); out.Err != nil {
		t.Fatalf("AddFixedExpense() error = %v", out.Err)
	}
}
