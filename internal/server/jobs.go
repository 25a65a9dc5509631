package server

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/shiftledger/internal/logger"
	"github.com/julianstephens/shiftledger/internal/reminders"
	"github.com/julianstephens/shiftledger/internal/utils"
)

func (s *Server) startJobs() error {
	loc, err := utils.LoadLocation(s.ledger.Settings().Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone for scheduled jobs: %w", err)
	}
	s.cron = cron.New(cron.WithLocation(loc))

	if s.cfg.SnapshotSpec != "" && s.backups != nil {
		if _, err := s.cron.AddFunc(s.cfg.SnapshotSpec, s.snapshotJob); err != nil {
			return fmt.Errorf("invalid snapshot schedule %q: %w", s.cfg.SnapshotSpec, err)
		}
	}
	if s.cfg.ReminderSpec != "" && s.notifier != nil {
		if _, err := s.cron.AddFunc(s.cfg.ReminderSpec, s.reminderJob); err != nil {
			return fmt.Errorf("invalid reminder schedule %q: %w", s.cfg.ReminderSpec, err)
		}
	}

	s.cron.Start()
	logger.Info("Scheduled jobs started", "jobs", len(s.cron.Entries()))
	return nil
}

func (s *Server) stopJobs() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

func (s *Server) snapshotJob() {
	path, err := s.backups.CreateBackup(s.store)
	if err != nil {
		logger.Error("Scheduled backup failed", "error", err)
		return
	}
	logger.Info("Scheduled backup written", "path", path)
}

// reminderJob mails what is due within the configured look-ahead.
func (s *Server) reminderJob() {
	state := s.ledger.Snapshot()
	to := state.Settings.ReminderEmail
	if to == "" {
		logger.Debug("No reminder email set, skipping reminders")
		return
	}
	now, today := s.today()
	due := reminders.Upcoming(now, state.FixedExpenses, state.PaymentPlans, state.Settings.ReminderDaysAhead)
	if err := s.notifier.Send(to, today, due); err != nil {
		logger.Error("Reminder delivery failed", "error", err)
	}
}
