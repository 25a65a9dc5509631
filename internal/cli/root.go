package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/shiftledger/internal/backup"
	"github.com/julianstephens/shiftledger/internal/ledger"
	"github.com/julianstephens/shiftledger/internal/logger"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/storage"
	"github.com/julianstephens/shiftledger/internal/utils"
)

type Context struct {
	Store     storage.Provider
	ConfigDir string // holds backups and logs

	ledger *ledger.Ledger
}

// Ledger loads the in-memory books on first use.
func (c *Context) Ledger() (*ledger.Ledger, error) {
	if c.ledger != nil {
		return c.ledger, nil
	}
	l, err := ledger.Open(c.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	c.ledger = l
	return l, nil
}

func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.ConfigDir)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, err := c.Backups().CreateBackup(c.Store); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Today is the current date in the configured timezone.
func (c *Context) Today() (string, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	return utils.GetTodayInTimezone(settings.Timezone)
}

// DateOrToday returns date, or today when it is empty.
func (c *Context) DateOrToday(date string) (string, error) {
	if date == "" {
		return c.Today()
	}
	if !utils.ValidateDateFormat(date) {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return date, nil
}

// Confirm asks a yes/no question. assumeYes answers it without prompting.
func Confirm(title, description string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}

// OutcomeErr turns a ledger outcome into a command error. action reads as
// "add income entry".
func OutcomeErr(action string, o ledger.Outcome) error {
	switch o.Status {
	case ledger.StatusCommitted:
		return nil
	case ledger.StatusRolledBack:
		return fmt.Errorf("failed to %s: %w", action, o.Err)
	default:
		return fmt.Errorf("cannot %s: %w", action, o.Err)
	}
}

// ParsePlatforms parses a comma-separated platform list.
func ParsePlatforms(s string) ([]models.Platform, error) {
	var platforms []models.Platform
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		p := models.Platform(part)
		if !p.IsValid() {
			return nil, fmt.Errorf("invalid platform: %s", part)
		}
		platforms = append(platforms, p)
	}
	if len(platforms) == 0 {
		return nil, errors.New("at least one platform is required")
	}
	return platforms, nil
}
