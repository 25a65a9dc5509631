package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/shiftledger/internal/backup"
	"github.com/julianstephens/shiftledger/internal/cli"
	"github.com/julianstephens/shiftledger/internal/hours"
	"github.com/julianstephens/shiftledger/internal/keyring"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name  string
	run   func(*cli.Context) error
	needs bool // requires a reachable database
	warn  bool // failure is a warning only
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needs: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needs: true},
	{name: "Backups present", run: checkBackupsPresent, warn: true},
	{name: "Data validation", run: checkValidation, needs: true},
	{name: "Clock/timezone", run: checkClockTimezone, needs: true},
	{name: "Hours caps", run: checkHoursCaps, needs: true, warn: true},
	{name: "Payment plans", run: checkPaymentPlans, needs: true},
	{name: "OS keyring", run: checkKeyring, warn: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needs && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	// Status fails when the schema is newer than this build.
	_, err := m.MigrationStatus()
	return err
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	status, err := m.MigrationStatus()
	if err != nil {
		return err
	}
	if !status.UpToDate() {
		return fmt.Errorf("%d pending migration(s), current version %d, latest %d; run 'shiftledger migrate'",
			len(status.Pending), status.Current, status.Latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := ctx.Backups()
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", mgr.GetBackupDir())
	}
	if age := time.Since(backups[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("latest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	doc, err := backup.Export(ctx.Store)
	if err != nil {
		return err
	}
	return backup.Validate(doc)
}

func checkClockTimezone(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone %q", settings.Timezone)
	}
	if now := time.Now(); now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkHoursCaps(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	entries, err := ctx.Store.GetIncomeEntries()
	if err != nil {
		return err
	}

	limits := hours.LimitsFromSettings(settings)
	var over []string
	seen := map[string]bool{}
	for _, e := range limits.Filter(entries) {
		if seen[e.Date] {
			continue
		}
		seen[e.Date] = true
		u := hours.ForLimits(entries, e.Date, limits)
		if u.DailyHoursUsed > limits.DailyHours || u.WeeklyHoursUsed > limits.WeeklyHours {
			over = append(over, e.Date)
		}
	}
	if len(over) > 0 {
		return fmt.Errorf("recorded hours exceed the caps on %d date(s), first %s", len(over), over[0])
	}
	return nil
}

func checkPaymentPlans(ctx *cli.Context) error {
	plans, err := ctx.Store.GetPaymentPlans()
	if err != nil {
		return err
	}
	var errs []error
	for _, p := range plans {
		if p.CurrentPayment > p.TotalPayments+1 {
			errs = append(errs, fmt.Errorf("%s: installment cursor %d is past %d payments", p.Name, p.CurrentPayment, p.TotalPayments))
		}
		if paidOff(p) && !p.IsCompleted {
			errs = append(errs, fmt.Errorf("%s: every installment is paid but the plan is not marked complete", p.Name))
		}
	}
	return errors.Join(errs...)
}

func paidOff(p models.PaymentPlan) bool {
	return p.TotalPayments > 0 && p.CurrentPayment > p.TotalPayments
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}
