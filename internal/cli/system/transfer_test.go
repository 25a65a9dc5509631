package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/shiftledger/internal/models"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := setupTestDB(t)
	seed(t, src)

	out := filepath.Join(t.TempDir(), "export.json")
	if err := (&ExportCmd{Output: out}).Run(src); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("export file mode = %v, want 0600", info.Mode().Perm())
	}

	dst := setupTestDB(t)
	if err := (&ImportCmd{File: out}).Run(dst); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	entries, _ := dst.Store.GetIncomeEntries()
	if len(entries) != 1 {
		t.Errorf("expected 1 imported entry, got %d", len(entries))
	}

	// Importing again updates in place rather than duplicating.
	if err := (&ImportCmd{File: out}).Run(dst); err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	entries, _ = dst.Store.GetIncomeEntries()
	if len(entries) != 1 {
		t.Errorf("expected 1 entry after re-import, got %d", len(entries))
	}
}

func TestImportCmd_Replace(t *testing.T) {
	src := setupTestDB(t)
	seed(t, src)
	out := filepath.Join(t.TempDir(), "export.json")
	if err := (&ExportCmd{Output: out}).Run(src); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	dst := setupTestDB(t)
	l, _ := dst.Ledger()
	if _, o := l.AddFixedExpense(models.FixedExpense{Name: "Gym", Amount: 30, DueDay: 3, IsActive: true}); o.Err != nil {
		t.Fatalf("AddFixedExpense() error = %v", o.Err)
	}

	if err := (&ImportCmd{File: out, Replace: true, Yes: true}).Run(dst); err != nil {
		t.Fatalf("replace import failed: %v", err)
	}
	expenses, _ := dst.Store.GetFixedExpenses()
	if len(expenses) != 1 || expenses[0].Name != "Phone" {
		t.Errorf("expenses after replace = %+v", expenses)
	}

	backups, _ := dst.Backups().ListBackups()
	if len(backups) == 0 {
		t.Error("expected an automatic backup before the import")
	}
}

func TestImportCmd_InvalidFile(t *testing.T) {
	ctx := setupTestDB(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"incomeEntries": [{"id": "x", "amount": -5}]}`), 0600); err != nil {
		t.Fatal(err)
	}
	if err := (&ImportCmd{File: path}).Run(ctx); err == nil {
		t.Error("expected an invalid document to be rejected")
	}
}
