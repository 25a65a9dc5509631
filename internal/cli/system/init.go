package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/shiftledger/internal/backup"
	"github.com/julianstephens/shiftledger/internal/cli"
	"github.com/julianstephens/shiftledger/internal/migration"
	"github.com/julianstephens/shiftledger/internal/storage"
	"github.com/julianstephens/shiftledger/internal/storage/postgres"
	"github.com/julianstephens/shiftledger/internal/storage/sqlite"
)

// migrator is implemented by both SQL backends.
type migrator interface {
	MigrationStatus() (migration.Status, error)
	Migrate() (int, error)
}

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	// If force flag is provided, delete existing database
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if c.Source != "" {
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized shiftledger storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}
	return nil
}

func (c *InitCmd) copyData(ctx *cli.Context, source string) error {
	var sourceStore storage.Provider
	if strings.HasPrefix(source, "postgres://") || strings.HasPrefix(source, "postgresql://") {
		if valid, err := postgres.ValidateConnString(source); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return err
		}
		sourceStore = postgres.New(source)
	} else {
		sourceStore = sqlite.NewStore(source)
	}

	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	doc, err := backup.Export(sourceStore)
	if err != nil {
		return fmt.Errorf("failed to read source database: %w", err)
	}
	report, err := backup.Import(ctx.Store, doc, false)
	if err != nil {
		return err
	}

	// Exports never carry the owner password, so copy it directly.
	sourceSettings, err := sourceStore.GetSettings()
	if err == nil && sourceSettings.PasswordHash != "" {
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return fmt.Errorf("failed to read settings: %w", err)
		}
		settings.PasswordHash = sourceSettings.PasswordHash
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to copy owner password: %w", err)
		}
	}

	fmt.Printf("  Copied %d income entries, %d daily records, %d expenses, %d plans, %d goals\n",
		len(doc.IncomeEntries), len(doc.DailyData), len(doc.FixedExpenses), len(doc.PaymentPlans), len(doc.Goals))
	fmt.Printf("  %d added, %d updated\n", report.Added, report.Updated)
	return nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return errors.New("this storage backend does not support migrations")
	}
	applied, err := m.Migrate()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	status, err := m.MigrationStatus()
	if err != nil {
		return err
	}
	if applied == 0 {
		fmt.Printf("Database schema is up to date (version %d)\n", status.Current)
		return nil
	}
	fmt.Printf("Applied %d migration(s), schema is now at version %d\n", applied, status.Current)
	return nil
}
