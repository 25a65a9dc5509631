package backups

import (
	"os"
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

func TestBackupCreateListRestore(t *testing.T) {
	ctx := setupTestDB(t)
	l, err := ctx.Ledger()
	if err != nil {
		t.Fatalf("Ledger() error = %v", err)
	}
	if _, out := l.AddFixedExpense(models.FixedExpense{Name: "Phone", Amount: 45, DueDay: 15, IsActive: true}); out.Err != nil {
		t.Fatalf("AddFixedExpense() error = %v", out.Err)
	}

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	backups, err := ctx.Backups().ListBackups()
	if err != nil || len(backups) != 1 {
		t.Fatalf("ListBackups() = %v, %v", backups, err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}

	// Change the data, then restore by bare file name.
	expenses, _ := ctx.Store.GetFixedExpenses()
	if err := ctx.Store.DeleteFixedExpense(expenses[0].ID); err != nil {
		t.Fatalf("DeleteFixedExpense() error = %v", err)
	}

	restore := &BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), Yes: true}
	if err := restore.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	expenses, _ = ctx.Store.GetFixedExpenses()
	if len(expenses) != 1 || expenses[0].Name != "Phone" {
		t.Errorf("expenses after restore = %+v", expenses)
	}
}

func TestBackupRestoreCmd_Missing(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&BackupRestoreCmd{BackupFile: "nope.json", Yes: true}).Run(ctx); err == nil {
		t.Error("expected a missing backup to fail")
	}
}

func TestResolveBackupPath(t *testing.T) {
	backupDir := t.TempDir()
	inDir := filepath.Join(backupDir, "in-dir.json")
	if err := os.WriteFile(inDir, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"absolute", inDir, inDir, false},
		{"bare name", "in-dir.json", inDir, false},
		{"missing absolute", filepath.Join(backupDir, "gone.json"), "", true},
		{"missing name", "gone.json", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveBackupPath(tt.input, backupDir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveBackupPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveBackupPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
