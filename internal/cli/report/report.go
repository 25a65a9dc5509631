// Package report prints the computed views of the ledger: month summaries,
// hours usage, the weekly schedule simulation and upcoming payments.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/shiftledger/internal/cli"
	"github.com/julianstephens/shiftledger/internal/reminders"
	"github.com/julianstephens/shiftledger/internal/simulator"
	"github.com/julianstephens/shiftledger/internal/utils"
)

type SummaryCmd struct {
	Month string `arg:"" optional:"" help:"Month (YYYY-MM). Defaults to the current month."`
	Days  bool   `help:"List every day of the month with activity."`
}

func (c *SummaryCmd) Run(ctx *cli.Context) error {
	month := c.Month
	if month == "" {
		today, err := ctx.Today()
		if err != nil {
			return err
		}
		month = today[:7]
	}
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	s, err := l.MonthSummary(month)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render("Summary for " + s.Month))
	fmt.Println(cli.Row("Income", cli.Money(s.TotalIncome)))
	fmt.Println(cli.Row("Fixed bills", cli.Money(-s.TotalBills)))
	fmt.Println(cli.Row("Payment plans due", cli.Money(-s.PaymentPlansMinimumDue)))
	fmt.Println(cli.Row("Gas", cli.Money(-s.TotalGasExpenses)))
	fmt.Println(cli.Row("Net", cli.Money(s.Net)))
	if s.EarningsPerMile != nil {
		fmt.Println(cli.Row("Per mile", fmt.Sprintf("%s over %.1f miles", cli.FormatMoney(*s.EarningsPerMile), s.TotalMileage)))
	}

	if c.Days {
		fmt.Println()
		for _, d := range s.Days {
			if d.TotalIncome == 0 && d.GasExpense == 0 {
				continue
			}
			fmt.Printf("  %s  income %10s  gas %8s  profit %10s\n",
				d.Date, cli.FormatMoney(d.TotalIncome), cli.FormatMoney(d.GasExpense), cli.Money(d.Profit))
		}
	}
	return nil
}

type HoursCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *HoursCmd) Run(ctx *cli.Context) error {
	date, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	settings := l.Settings()
	usage := l.HoursUsed(date)

	platforms := make([]string, 0, len(settings.CappedPlatforms))
	for _, p := range settings.CappedPlatforms {
		platforms = append(platforms, string(p))
	}
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Hours on %s (%s)", date, strings.Join(platforms, ", "))))
	fmt.Println(cli.Row("Today", fmt.Sprintf("%s %.2f used, %.2f left of %.0f",
		cli.Gauge(usage.DailyHoursUsed, settings.DailyLimitHours, 24), usage.DailyHoursUsed, usage.DailyRemaining, settings.DailyLimitHours)))
	fmt.Println(cli.Row("Trailing 7 days", fmt.Sprintf("%s %.2f used, %.2f left of %.0f",
		cli.Gauge(usage.WeeklyHoursUsed, settings.WeeklyLimitHours, 24), usage.WeeklyHoursUsed, usage.WeeklyRemaining, settings.WeeklyLimitHours)))
	return nil
}

type SimulateCmd struct{}

func (c *SimulateCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	r, err := l.Simulate()
	if err != nil {
		var noSchedule *simulator.NoScheduleError
		if errors.As(err, &noSchedule) {
			fmt.Println(cli.WarnStyle.Render("No schedule possible."))
			fmt.Println(noSchedule.Reasoning)
			return nil
		}
		return err
	}

	fmt.Println(cli.TitleStyle.Render("Block rates:"))
	for _, rate := range r.Rates {
		usable := cli.PositiveStyle.Render("usable")
		if !rate.Usable() {
			usable = cli.MutedStyle.Render("below minimum")
		}
		fmt.Printf("  %s  avg %s (%s/h) min %s  %s, %d samples, %s\n",
			formatMinutes(rate.Minutes), cli.FormatMoney(rate.AveragePayout), cli.FormatMoney(rate.AveragePerHour),
			cli.FormatMoney(rate.MinimumPayout), rate.Source, rate.Count, usable)
	}

	fmt.Println()
	fmt.Println(cli.TitleStyle.Render("Simulated week:"))
	for _, d := range r.Days {
		blocks := make([]string, 0, len(d.Blocks))
		for _, b := range d.Blocks {
			blocks = append(blocks, formatMinutes(b))
		}
		fmt.Printf("  %-10s %-20s %5.2fh  %s\n", d.Name, strings.Join(blocks, " + "), d.Hours, cli.FormatMoney(d.Earnings))
	}
	fmt.Println()
	fmt.Println(cli.Row("Gross", cli.Money(r.GrossEarnings)))
	fmt.Println(cli.Row("Gas", fmt.Sprintf("%s (%d fill-ups)", cli.Money(-r.TotalGasCost), r.FillUpsNeeded)))
	fmt.Println(cli.Row("Net", cli.Money(r.NetEarnings)))
	fmt.Println(cli.Row("Hours", fmt.Sprintf("%.2f in %d blocks", r.TotalHours, r.TotalBlocks)))
	fmt.Println()
	fmt.Println(r.Reasoning)
	return nil
}

func formatMinutes(m int) string {
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%.1fh", float64(m)/60)
}

type RemindersCmd struct {
	Days int  `short:"d" help:"Days ahead to look. Defaults to the reminder_days_ahead setting."`
	Send bool `help:"Email the list to the configured reminder address."`
}

func (c *RemindersCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	state := l.Snapshot()
	days := c.Days
	if days <= 0 {
		days = state.Settings.ReminderDaysAhead
	}
	now, err := utils.NowInTimezone(state.Settings.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	due := reminders.Upcoming(now, state.FixedExpenses, state.PaymentPlans, days)
	if len(due) == 0 {
		fmt.Printf("Nothing due in the next %d days\n", days)
		return nil
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Due in the next %d days:", days)))
	for _, r := range due {
		when := fmt.Sprintf("in %d days", r.DaysUntil)
		switch r.DaysUntil {
		case 0:
			when = cli.WarnStyle.Render("today")
		case 1:
			when = "tomorrow"
		}
		fmt.Printf("  %s  %-24s %10s  %s (%s)\n", r.DueDate, r.Name, cli.FormatMoney(r.Amount), when, r.Kind)
	}
	fmt.Printf("\n  Total: %s\n", cli.FormatMoney(reminders.Total(due)))

	if !c.Send {
		return nil
	}
	if state.Settings.ReminderEmail == "" {
		return errors.New("no reminder email set, use 'settings --reminder-email'")
	}
	cfg := reminders.SMTPConfigFromEnv()
	if !cfg.Configured() {
		return reminders.ErrNotConfigured
	}
	if err := reminders.NewMailer(cfg).Send(state.Settings.ReminderEmail, utils.FormatDate(now), due); err != nil {
		return fmt.Errorf("failed to send reminders: %w", err)
	}
	fmt.Printf("Sent reminders to %s\n", state.Settings.ReminderEmail)
	return nil
}
