package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/julianstephens/shiftledger/internal/constants"
	"github.com/julianstephens/shiftledger/internal/logger"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/storage"
	"github.com/julianstephens/shiftledger/internal/validation"
)

var (
	// ErrUnsupportedVersion is returned for documents written by an unknown layout.
	ErrUnsupportedVersion = errors.New("unsupported export version")
	// ErrReplaceRolledBack means a replacing import failed and the previous
	// contents were restored.
	ErrReplaceRolledBack = errors.New("replace failed and was rolled back")
	ErrRestoreFailed     = errors.New("failed to restore previous ledger")
)

// ImportReport counts what an import did per collection.
type ImportReport struct {
	Added    int `json:"added"`
	Updated  int `json:"updated"`
	Replaced int `json:"replaced"` // records removed before a replacing import
}

// Export reads every collection from the store into one document.
func Export(p storage.Provider) (models.ExportDocument, error) {
	doc := models.ExportDocument{
		Version:    constants.ExportVersion,
		ExportedAt: time.Now().UTC(),
	}

	var err error
	if doc.Settings, err = p.GetSettings(); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return doc, fmt.Errorf("failed to read settings: %w", err)
	}
	doc.Settings.PasswordHash = ""
	if doc.IncomeEntries, err = p.GetIncomeEntries(); err != nil {
		return doc, fmt.Errorf("failed to read income entries: %w", err)
	}
	if doc.DailyData, err = p.GetAllDailyData(); err != nil {
		return doc, fmt.Errorf("failed to read daily data: %w", err)
	}
	if doc.FixedExpenses, err = p.GetFixedExpenses(); err != nil {
		return doc, fmt.Errorf("failed to read fixed expenses: %w", err)
	}
	if doc.PaymentPlans, err = p.GetPaymentPlans(); err != nil {
		return doc, fmt.Errorf("failed to read payment plans: %w", err)
	}
	if doc.Goals, err = p.GetGoals(); err != nil {
		return doc, fmt.Errorf("failed to read goals: %w", err)
	}
	return doc, nil
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc models.ExportDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Decode reads a document and checks its version tag.
func Decode(r io.Reader) (models.ExportDocument, error) {
	var doc models.ExportDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return doc, fmt.Errorf("failed to decode export document: %w", err)
	}
	if doc.Version != constants.ExportVersion {
		return doc, fmt.Errorf("%w: %q", ErrUnsupportedVersion, doc.Version)
	}
	return doc, nil
}

// Validate checks every record in the document before anything is written.
func Validate(doc models.ExportDocument) error {
	var issues []validation.Issue
	collect := func(r validation.Result) { issues = append(issues, r.Issues...) }

	for _, e := range doc.IncomeEntries {
		collect(validation.IncomeEntry(e))
	}
	for _, d := range doc.DailyData {
		collect(validation.DailyData(d))
	}
	for _, f := range doc.FixedExpenses {
		collect(validation.FixedExpense(f))
	}
	for _, p := range doc.PaymentPlans {
		collect(validation.PaymentPlan(p))
	}
	for _, g := range doc.Goals {
		collect(validation.Goal(g))
	}
	settings := doc.Settings
	models.ApplyDefaultSettings(&settings)
	collect(validation.Settings(settings))

	r := validation.Result{Issues: issues}
	return r.Err()
}

// Import writes a document into the store. With replace set, every existing
// record is removed first; otherwise records are merged by key, updating the
// ones that already exist.
func Import(p storage.Provider, doc models.ExportDocument, replace bool) (ImportReport, error) {
	var report ImportReport
	if doc.Version != constants.ExportVersion {
		return report, fmt.Errorf("%w: %q", ErrUnsupportedVersion, doc.Version)
	}
	if err := Validate(doc); err != nil {
		return report, err
	}

	if replace {
		n, err := clearAll(p)
		if err != nil {
			return report, err
		}
		report.Replaced = n
	}

	for _, e := range doc.IncomeEntries {
		if err := upsert(&report, e.ID, p.GetIncomeEntry, p.AddIncomeEntry, p.UpdateIncomeEntry, e); err != nil {
			return report, fmt.Errorf("failed to import income entry %s: %w", e.ID, err)
		}
	}
	for _, d := range doc.DailyData {
		if _, err := p.GetDailyData(d.Date); err == nil {
			report.Updated++
		} else {
			report.Added++
		}
		if err := p.SaveDailyData(d); err != nil {
			return report, fmt.Errorf("failed to import daily data %s: %w", d.Date, err)
		}
	}
	for _, f := range doc.FixedExpenses {
		if err := upsert(&report, f.ID, p.GetFixedExpense, p.AddFixedExpense, p.UpdateFixedExpense, f); err != nil {
			return report, fmt.Errorf("failed to import fixed expense %s: %w", f.ID, err)
		}
	}
	for _, plan := range doc.PaymentPlans {
		if err := upsert(&report, plan.ID, p.GetPaymentPlan, p.AddPaymentPlan, p.UpdatePaymentPlan, plan); err != nil {
			return report, fmt.Errorf("failed to import payment plan %s: %w", plan.ID, err)
		}
	}
	for _, g := range doc.Goals {
		if err := upsert(&report, g.ID, p.GetGoal, p.AddGoal, p.UpdateGoal, g); err != nil {
			return report, fmt.Errorf("failed to import goal %s: %w", g.ID, err)
		}
	}

	settings := doc.Settings
	// The owner password stays with the store it was set on.
	settings.PasswordHash = ""
	if current, err := p.GetSettings(); err == nil {
		settings.PasswordHash = current.PasswordHash
	}
	models.ApplyDefaultSettings(&settings)
	if err := p.SaveSettings(settings); err != nil {
		return report, fmt.Errorf("failed to import settings: %w", err)
	}

	logger.Info("Import completed", "added", report.Added, "updated", report.Updated, "replaced", report.Replaced)
	return report, nil
}

func upsert[T any](report *ImportReport, id string, get func(string) (T, error), add, update func(T) error, v T) error {
	_, err := get(id)
	switch {
	case err == nil:
		report.Updated++
		return update(v)
	case errors.Is(err, storage.ErrNotFound):
		report.Added++
		return add(v)
	default:
		return err
	}
}

func clearAll(p storage.Provider) (int, error) {
	n := 0
	entries, err := p.GetIncomeEntries()
	if err != nil {
		return n, err
	}
	for _, e := range entries {
		if err := p.DeleteIncomeEntry(e.ID); err != nil {
			return n, err
		}
		n++
	}
	daily, err := p.GetAllDailyData()
	if err != nil {
		return n, err
	}
	for _, d := range daily {
		if err := p.DeleteDailyData(d.Date); err != nil {
			return n, err
		}
		n++
	}
	fixed, err := p.GetFixedExpenses()
	if err != nil {
		return n, err
	}
	for _, f := range fixed {
		if err := p.DeleteFixedExpense(f.ID); err != nil {
			return n, err
		}
		n++
	}
	plans, err := p.GetPaymentPlans()
	if err != nil {
		return n, err
	}
	for _, plan := range plans {
		if err := p.DeletePaymentPlan(plan.ID); err != nil {
			return n, err
		}
		n++
	}
	goals, err := p.GetGoals()
	if err != nil {
		return n, err
	}
	for _, g := range goals {
		if err := p.DeleteGoal(g.ID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
