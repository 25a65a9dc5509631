// Package server exposes the ledger as a JSON HTTP API for a single owner.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"

	"github.com/julianstephens/shiftledger/internal/backup"
	"github.com/julianstephens/shiftledger/internal/ledger"
	"github.com/julianstephens/shiftledger/internal/logger"
	"github.com/julianstephens/shiftledger/internal/reminders"
	"github.com/julianstephens/shiftledger/internal/storage"
	"github.com/julianstephens/shiftledger/internal/utils"
)

const (
	DefaultAddr         = "127.0.0.1:8080"
	DefaultSessionTTL   = 7 * 24 * time.Hour
	DefaultSnapshotSpec = "0 3 * * *"
	DefaultReminderSpec = "0 8 * * *"
)

// Notifier delivers reminder digests.
type Notifier interface {
	Send(to, today string, rs []reminders.Reminder) error
}

type Config struct {
	Addr       string
	SessionTTL time.Duration
	StaticDir  string // served under /static/ when set
	// Cron specs; empty disables the job.
	SnapshotSpec string
	ReminderSpec string
}

type Server struct {
	cfg      Config
	ledger   *ledger.Ledger
	store    storage.Provider
	backups  *backup.Manager
	notifier Notifier
	secret   []byte
	now      func() time.Time
	router   chi.Router
	cron     *cron.Cron
}

// New wires the routes. secret signs session tokens; notifier and backups
// may be nil, which disables the matching job.
func New(cfg Config, l *ledger.Ledger, store storage.Provider, backups *backup.Manager, notifier Notifier, secret []byte) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	s := &Server{
		cfg:      cfg,
		ledger:   l,
		store:    store,
		backups:  backups,
		notifier: notifier,
		secret:   secret,
		now:      time.Now,
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := s.startJobs(); err != nil {
		return err
	}
	defer s.stopJobs()

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.requireSession)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.cfg.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fs))
	}

	r.Post("/setup", s.handleSetup)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Route("/income", func(r chi.Router) {
			r.Get("/", s.listIncome)
			r.Post("/", s.createIncome)
			r.Get("/{id}", s.getIncome)
			r.Put("/{id}", s.updateIncome)
			r.Delete("/{id}", s.deleteIncome)
		})
		r.Route("/daily", func(r chi.Router) {
			r.Get("/", s.listDaily)
			r.Get("/{date}", s.getDaily)
			r.Put("/{date}", s.saveDaily)
			r.Delete("/{date}", s.deleteDaily)
		})
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.listExpenses)
			r.Post("/", s.createExpense)
			r.Put("/{id}", s.updateExpense)
			r.Delete("/{id}", s.deleteExpense)
		})
		r.Route("/plans", func(r chi.Router) {
			r.Get("/", s.listPlans)
			r.Post("/", s.createPlan)
			r.Put("/{id}", s.updatePlan)
			r.Post("/{id}/pay", s.payPlan)
			r.Delete("/{id}", s.deletePlan)
		})
		r.Route("/goals", func(r chi.Router) {
			r.Get("/", s.listGoals)
			r.Post("/", s.createGoal)
			r.Get("/progress", s.goalProgress)
			r.Get("/{id}", s.getGoal)
			r.Put("/{id}", s.updateGoal)
			r.Delete("/{id}", s.deleteGoal)
		})
		r.Get("/settings", s.getSettings)
		r.Put("/settings", s.saveSettings)

		r.Get("/profit/daily/{date}", s.dailyProfit)
		r.Get("/profit/monthly/{month}", s.monthSummary)
		r.Get("/hours", s.hoursUsed)
		r.Get("/simulate", s.simulate)
		r.Get("/reminders", s.upcoming)

		r.Get("/export", s.export)
		r.Post("/import", s.importDoc)
		r.Get("/backups", s.listBackups)
		r.Post("/backups", s.createBackup)
	})
	return r
}

// today is the current date in the configured timezone.
func (s *Server) today() (time.Time, string) {
	loc, err := utils.LoadLocation(s.ledger.Settings().Timezone)
	if err != nil {
		loc = time.Local
	}
	now := s.now().In(loc)
	return now, utils.FormatDate(now)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
