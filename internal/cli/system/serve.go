package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/shiftledger/internal/cli"
	"github.com/julianstephens/shiftledger/internal/keyring"
	"github.com/julianstephens/shiftledger/internal/logger"
	"github.com/julianstephens/shiftledger/internal/reminders"
	"github.com/julianstephens/shiftledger/internal/server"
)

// SessionSecretEnv overrides the keyring-held session signing secret.
const SessionSecretEnv = "SHIFTLEDGER_SESSION_SECRET"

const minSessionSecretLen = 32

type ServeCmd struct {
	Addr        string        `short:"a" help:"Listen address." default:"127.0.0.1:8080"`
	StaticDir   string        `help:"Directory served under /static/."`
	SessionTTL  time.Duration `help:"Web session lifetime." default:"168h"`
	Snapshots   string        `help:"Cron schedule for automatic backups. Empty disables them." default:"0 3 * * *"`
	Reminders   string        `help:"Cron schedule for reminder emails. Empty disables them." default:"0 8 * * *"`
	NoReminders bool          `help:"Do not send reminder emails even when SMTP is configured."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	secret, err := sessionSecret()
	if err != nil {
		return err
	}
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}

	// A nil *Mailer in the interface would not read as "no notifier".
	var notifier server.Notifier
	if smtp := reminders.SMTPConfigFromEnv(); smtp.Configured() && !c.NoReminders {
		notifier = reminders.NewMailer(smtp)
	} else {
		logger.Info("Reminder emails disabled")
	}

	srv := server.New(server.Config{
		Addr:         c.Addr,
		SessionTTL:   c.SessionTTL,
		StaticDir:    c.StaticDir,
		SnapshotSpec: c.Snapshots,
		ReminderSpec: c.Reminders,
	}, l, ctx.Store, ctx.Backups(), notifier, secret)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving shiftledger on http://%s (Ctrl+C to stop)\n", c.Addr)
	if l.Settings().PasswordHash == "" {
		fmt.Println("No owner password set yet: POST /setup to create one")
	}
	return srv.Run(runCtx)
}

func sessionSecret() ([]byte, error) {
	if v := os.Getenv(SessionSecretEnv); v != "" {
		if len(v) < minSessionSecretLen {
			return nil, fmt.Errorf("%s must be at least %d characters", SessionSecretEnv, minSessionSecretLen)
		}
		return []byte(v), nil
	}
	secret, err := keyring.SessionSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to load session secret (set %s when no keyring is available): %w", SessionSecretEnv, err)
	}
	return secret, nil
}
