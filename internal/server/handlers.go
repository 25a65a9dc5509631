package server

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/shiftledger/internal/backup"
	"github.com/julianstephens/shiftledger/internal/hours"
	"github.com/julianstephens/shiftledger/internal/logger"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/reminders"
	"github.com/julianstephens/shiftledger/internal/simulator"
	"github.com/julianstephens/shiftledger/internal/storage"
	"github.com/julianstephens/shiftledger/internal/utils"
)

func notFound(kind, key string) error {
	return fmt.Errorf("%s %q: %w", kind, key, storage.ErrNotFound)
}

// Income entries

func (s *Server) listIncome(w http.ResponseWriter, r *http.Request) {
	entries := s.ledger.Snapshot().IncomeEntries
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from != "" || to != "" {
		if (from != "" && !utils.ValidateDateFormat(from)) || (to != "" && !utils.ValidateDateFormat(to)) {
			writeError(w, http.StatusBadRequest, errors.New("from and to must be YYYY-MM-DD"))
			return
		}
		entries = slices.DeleteFunc(entries, func(e models.IncomeEntry) bool {
			return (from != "" && e.Date < from) || (to != "" && e.Date > to)
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) getIncome(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entries := s.ledger.Snapshot().IncomeEntries
	i := slices.IndexFunc(entries, func(e models.IncomeEntry) bool { return e.ID == id })
	if i < 0 {
		writeError(w, http.StatusNotFound, notFound("income entry", id))
		return
	}
	writeJSON(w, http.StatusOK, entries[i])
}

func (s *Server) createIncome(w http.ResponseWriter, r *http.Request) {
	var e models.IncomeEntry
	if !decode(w, r, &e) {
		return
	}
	e.ID = ""
	saved, out := s.ledger.AddIncomeEntry(e)
	writeOutcome(w, out, http.StatusCreated, saved)
}

func (s *Server) updateIncome(w http.ResponseWriter, r *http.Request) {
	var e models.IncomeEntry
	if !decode(w, r, &e) {
		return
	}
	e.ID = chi.URLParam(r, "id")
	writeOutcome(w, s.ledger.UpdateIncomeEntry(e), http.StatusOK, e)
}

func (s *Server) deleteIncome(w http.ResponseWriter, r *http.Request) {
	writeOutcome(w, s.ledger.DeleteIncomeEntry(chi.URLParam(r, "id")), http.StatusNoContent, nil)
}

// Daily data

func (s *Server) listDaily(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Snapshot().DailyData)
}

func (s *Server) getDaily(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	daily := s.ledger.Snapshot().DailyData
	i := slices.IndexFunc(daily, func(d models.DailyData) bool { return d.Date == date })
	if i < 0 {
		writeError(w, http.StatusNotFound, notFound("daily data", date))
		return
	}
	writeJSON(w, http.StatusOK, daily[i])
}

func (s *Server) saveDaily(w http.ResponseWriter, r *http.Request) {
	var d models.DailyData
	if !decode(w, r, &d) {
		return
	}
	d.Date = chi.URLParam(r, "date")
	writeOutcome(w, s.ledger.SaveDailyData(d), http.StatusOK, d)
}

func (s *Server) deleteDaily(w http.ResponseWriter, r *http.Request) {
	writeOutcome(w, s.ledger.DeleteDailyData(chi.URLParam(r, "date")), http.StatusNoContent, nil)
}

// Fixed expenses

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Snapshot().FixedExpenses)
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var f models.FixedExpense
	if !decode(w, r, &f) {
		return
	}
	f.ID = ""
	saved, out := s.ledger.AddFixedExpense(f)
	writeOutcome(w, out, http.StatusCreated, saved)
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request) {
	var f models.FixedExpense
	if !decode(w, r, &f) {
		return
	}
	f.ID = chi.URLParam(r, "id")
	writeOutcome(w, s.ledger.UpdateFixedExpense(f), http.StatusOK, f)
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	writeOutcome(w, s.ledger.DeleteFixedExpense(chi.URLParam(r, "id")), http.StatusNoContent, nil)
}

// Payment plans

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Plans())
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var p models.PaymentPlan
	if !decode(w, r, &p) {
		return
	}
	p.ID = ""
	saved, out := s.ledger.AddPaymentPlan(p)
	writeOutcome(w, out, http.StatusCreated, saved)
}

func (s *Server) updatePlan(w http.ResponseWriter, r *http.Request) {
	var p models.PaymentPlan
	if !decode(w, r, &p) {
		return
	}
	p.ID = chi.URLParam(r, "id")
	writeOutcome(w, s.ledger.UpdatePaymentPlan(p), http.StatusOK, p)
}

func (s *Server) payPlan(w http.ResponseWriter, r *http.Request) {
	plan, out := s.ledger.RecordPayment(chi.URLParam(r, "id"))
	writeOutcome(w, out, http.StatusOK, plan)
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	writeOutcome(w, s.ledger.DeletePaymentPlan(chi.URLParam(r, "id")), http.StatusNoContent, nil)
}

// Goals

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Snapshot().Goals)
}

func (s *Server) getGoal(w http.ResponseWriter, r *http.Request) {
	progress, err := s.ledger.Goal(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	var g models.Goal
	if !decode(w, r, &g) {
		return
	}
	g.ID = ""
	saved, out := s.ledger.AddGoal(g)
	writeOutcome(w, out, http.StatusCreated, saved)
}

func (s *Server) updateGoal(w http.ResponseWriter, r *http.Request) {
	var g models.Goal
	if !decode(w, r, &g) {
		return
	}
	g.ID = chi.URLParam(r, "id")
	writeOutcome(w, s.ledger.UpdateGoal(g), http.StatusOK, g)
}

func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request) {
	writeOutcome(w, s.ledger.DeleteGoal(chi.URLParam(r, "id")), http.StatusNoContent, nil)
}

func (s *Server) goalProgress(w http.ResponseWriter, r *http.Request) {
	period := models.GoalPeriod(r.URL.Query().Get("period"))
	if period == "" {
		period = models.GoalPeriodMonthly
	}
	if !period.IsValid() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("period %q must be weekly or monthly", period))
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.GoalProgress(period))
}

// Settings

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Settings())
}

func (s *Server) saveSettings(w http.ResponseWriter, r *http.Request) {
	settings := s.ledger.Settings()
	if !decode(w, r, &settings) {
		return
	}
	writeOutcome(w, s.ledger.SaveSettings(settings), http.StatusOK, s.ledger.Settings())
}

// Engine views

func (s *Server) dailyProfit(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !utils.ValidateDateFormat(date) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("date %q must be YYYY-MM-DD", date))
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.DailyProfit(date))
}

func (s *Server) monthSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.ledger.MonthSummary(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type hoursResponse struct {
	Date   string       `json:"date"`
	Limits hours.Limits `json:"limits"`
	hours.Usage
}

func (s *Server) hoursUsed(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		_, date = s.today()
	}
	if !utils.ValidateDateFormat(date) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("date %q must be YYYY-MM-DD", date))
		return
	}
	writeJSON(w, http.StatusOK, hoursResponse{
		Date:   date,
		Limits: hours.LimitsFromSettings(s.ledger.Settings()),
		Usage:  s.ledger.HoursUsed(date),
	})
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	results, err := s.ledger.Simulate()
	var noSchedule *simulator.NoScheduleError
	if errors.As(err, &noSchedule) {
		// No viable schedule is an answer, not a failure.
		writeJSON(w, http.StatusOK, map[string]any{"results": nil, "reasoning": noSchedule.Reasoning})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results, "reasoning": results.Reasoning})
}

func (s *Server) upcoming(w http.ResponseWriter, r *http.Request) {
	state := s.ledger.Snapshot()
	days := state.Settings.ReminderDaysAhead
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("days must be a non-negative integer"))
			return
		}
		days = n
	}
	now, _ := s.today()
	writeJSON(w, http.StatusOK, reminders.Upcoming(now, state.FixedExpenses, state.PaymentPlans, days))
}

// Export, import and backups

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	doc, err := backup.Export(s.store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="shiftledger-export-%s.json"`, doc.ExportedAt.Format("20060102")))
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) importDoc(w http.ResponseWriter, r *http.Request) {
	var doc models.ExportDocument
	if !decode(w, r, &doc) {
		return
	}
	replace := r.URL.Query().Get("replace") == "true"
	if replace && s.backups == nil {
		writeError(w, http.StatusConflict, errors.New("replacing import requires backups"))
		return
	}

	var (
		report    backup.ImportReport
		importErr error
	)
	if replace {
		report, importErr = s.backups.Replace(s.store, doc)
	} else {
		report, importErr = backup.Import(s.store, doc, false)
	}
	// Partial imports change the store, so always resync.
	if err := s.ledger.Reload(); err != nil {
		logger.Error("Failed to reload ledger after import", "error", err)
	}
	if importErr != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(importErr, backup.ErrReplaceRolledBack) || errors.Is(importErr, backup.ErrRestoreFailed) ||
			(!errors.Is(importErr, backup.ErrUnsupportedVersion) && report.Added+report.Updated+report.Replaced > 0) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, importErr)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) listBackups(w http.ResponseWriter, r *http.Request) {
	if s.backups == nil {
		writeError(w, http.StatusNotFound, errors.New("backups are not enabled"))
		return
	}
	list, err := s.backups.ListBackups()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createBackup(w http.ResponseWriter, r *http.Request) {
	if s.backups == nil {
		writeError(w, http.StatusNotFound, errors.New("backups are not enabled"))
		return
	}
	path, err := s.backups.CreateBackup(s.store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}
