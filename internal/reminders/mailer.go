package reminders

import (
	"errors"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/jordan-wright/email"

	"github.com/julianstephens/shiftledger/internal/logger"
)

// ErrNotConfigured is returned when no SMTP host is set.
var ErrNotConfigured = errors.New("smtp is not configured")

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPConfigFromEnv reads SHIFTLEDGER_SMTP_* variables. Port defaults to 587.
func SMTPConfigFromEnv() SMTPConfig {
	cfg := SMTPConfig{
		Host:     os.Getenv("SHIFTLEDGER_SMTP_HOST"),
		Port:     os.Getenv("SHIFTLEDGER_SMTP_PORT"),
		Username: os.Getenv("SHIFTLEDGER_SMTP_USERNAME"),
		Password: os.Getenv("SHIFTLEDGER_SMTP_PASSWORD"),
		From:     os.Getenv("SHIFTLEDGER_SMTP_FROM"),
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return cfg
}

func (c SMTPConfig) Configured() bool {
	return c.Host != ""
}

// Mailer sends reminder digests over SMTP.
type Mailer struct {
	cfg  SMTPConfig
	send func(e *email.Email) error
}

func NewMailer(cfg SMTPConfig) *Mailer {
	m := &Mailer{cfg: cfg}
	m.send = func(e *email.Email) error {
		addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
		var auth smtp.Auth
		if cfg.Username != "" {
			auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
		}
		return e.Send(addr, auth)
	}
	return m
}

// Compose builds the digest email for rs.
func Compose(from, to, today string, rs []Reminder) *email.Email {
	e := email.NewEmail()
	e.From = from
	e.To = []string{to}
	if len(rs) == 1 {
		e.Subject = fmt.Sprintf("1 payment due soon (%.2f)", Total(rs))
	} else {
		e.Subject = fmt.Sprintf("%d payments due soon (%.2f)", len(rs), Total(rs))
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Payments coming due as of %s:\n\n", today)
	for _, r := range rs {
		when := fmt.Sprintf("in %d days", r.DaysUntil)
		switch r.DaysUntil {
		case 0:
			when = "today"
		case 1:
			when = "tomorrow"
		}
		fmt.Fprintf(&body, "- %s %s: %.2f due %s (%s)\n", r.Kind, r.Name, r.Amount, r.DueDate, when)
	}
	fmt.Fprintf(&body, "\nTotal: %.2f\n", Total(rs))
	e.Text = []byte(body.String())
	return e
}

// Send mails the digest to to. An empty list sends nothing.
func (m *Mailer) Send(to, today string, rs []Reminder) error {
	if len(rs) == 0 {
		return nil
	}
	if !m.cfg.Configured() {
		return ErrNotConfigured
	}
	if to == "" {
		return errors.New("no reminder email address is set")
	}

	e := Compose(m.cfg.From, to, today, rs)
	if err := m.send(e); err != nil {
		logger.Error("Failed to send reminder email", "to", to, "error", err)
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	logger.Info("Reminder email sent", "to", to, "count", len(rs))
	return nil
}
