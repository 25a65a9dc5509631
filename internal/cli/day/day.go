package day

import (
	"errors"
	"fmt"

	"github.com/julianstephens/shiftledger/internal/cli"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/storage"
)

type DaySetCmd struct {
	Date    string   `arg:"" optional:"" help:"Date (YYYY-MM-DD). Defaults to today."`
	Mileage *float64 `short:"m" help:"Distance driven."`
	Gas     *float64 `short:"g" help:"Fuel cost."`
}

func (c *DaySetCmd) Validate() error {
	if c.Mileage == nil && c.Gas == nil {
		return errors.New("at least one of --mileage or --gas is required")
	}
	return nil
}

func (c *DaySetCmd) Run(ctx *cli.Context) error {
	date, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}

	// Keep whichever figure was not given.
	record := models.DailyData{Date: date}
	existing, err := ctx.Store.GetDailyData(date)
	switch {
	case err == nil:
		record = existing
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("failed to get daily data: %w", err)
	}
	if c.Mileage != nil {
		record.Mileage = c.Mileage
	}
	if c.Gas != nil {
		record.GasCost = c.Gas
	}

	if err := cli.OutcomeErr("save daily data", l.SaveDailyData(record)); err != nil {
		return err
	}
	fmt.Printf("Saved daily data for %s\n", date)
	return nil
}

type DayClearCmd struct {
	Date string `arg:"" help:"Date (YYYY-MM-DD)."`
}

func (c *DayClearCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	if err := cli.OutcomeErr("clear daily data", l.DeleteDailyData(c.Date)); err != nil {
		return err
	}
	fmt.Printf("Cleared daily data for %s\n", c.Date)
	return nil
}

type DayShowCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *DayShowCmd) Run(ctx *cli.Context) error {
	date, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}

	p := l.DailyProfit(date)
	fmt.Println(cli.TitleStyle.Render("Day " + date))
	fmt.Println(cli.Row("Income", cli.Money(p.TotalIncome)))
	fmt.Println(cli.Row("Gas", cli.Money(p.GasExpense)))
	fmt.Println(cli.Row("Profit", cli.Money(p.Profit)))
	if p.EarningsPerMile != nil {
		fmt.Println(cli.Row("Per mile", cli.FormatMoney(*p.EarningsPerMile)))
	} else {
		fmt.Println(cli.Row("Per mile", cli.MutedStyle.Render("n/a")))
	}

	usage := l.HoursUsed(date)
	settings := l.Settings()
	fmt.Println()
	fmt.Println(cli.Row("Hours today", fmt.Sprintf("%s %.2f / %.0f", cli.Gauge(usage.DailyHoursUsed, settings.DailyLimitHours, 20), usage.DailyHoursUsed, settings.DailyLimitHours)))
	fmt.Println(cli.Row("Hours last 7 days", fmt.Sprintf("%s %.2f / %.0f", cli.Gauge(usage.WeeklyHoursUsed, settings.WeeklyLimitHours, 20), usage.WeeklyHoursUsed, settings.WeeklyLimitHours)))
	return nil
}
