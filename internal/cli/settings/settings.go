package settings

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/julianstephens/shiftledger/internal/cli"
	"github.com/julianstephens/shiftledger/internal/models"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	DailyLimit      *float64           `help:"Daily hours cap."`
	WeeklyLimit     *float64           `help:"Trailing 7-day hours cap."`
	Timezone        *string            `help:"IANA timezone used for today, or Local."`
	CappedPlatforms *string            `help:"Comma-separated platforms the hours caps apply to."`
	ReminderEmail   *string            `help:"Address for due-date reminders. Empty disables them."`
	ReminderDays    *int               `help:"Days ahead to remind about payments."`
	BlocksBeforeGas *int               `help:"Blocks worked per tank of gas."`
	GasPrice        *float64           `help:"Fuel price per unit volume."`
	TankSize        *float64           `help:"Tank capacity."`
	MinRate         map[string]float64 `help:"Minimum acceptable payout per block length, as MINUTES=AMOUNT." mapsep:","`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	settings := l.Settings()

	if c.List {
		printSettings(settings)
		return nil
	}

	updated := false
	if c.DailyLimit != nil {
		settings.DailyLimitHours = *c.DailyLimit
		updated = true
	}
	if c.WeeklyLimit != nil {
		settings.WeeklyLimitHours = *c.WeeklyLimit
		updated = true
	}
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.CappedPlatforms != nil {
		platforms, err := cli.ParsePlatforms(*c.CappedPlatforms)
		if err != nil {
			return err
		}
		settings.CappedPlatforms = platforms
		updated = true
	}
	if c.ReminderEmail != nil {
		settings.ReminderEmail = *c.ReminderEmail
		updated = true
	}
	if c.ReminderDays != nil {
		settings.ReminderDaysAhead = *c.ReminderDays
		updated = true
	}
	if c.BlocksBeforeGas != nil {
		settings.Simulator.BlocksBeforeGas = *c.BlocksBeforeGas
		updated = true
	}
	if c.GasPrice != nil {
		settings.Simulator.GasPrice = *c.GasPrice
		updated = true
	}
	if c.TankSize != nil {
		settings.Simulator.TankSize = *c.TankSize
		updated = true
	}
	if len(c.MinRate) > 0 {
		rates := settings.Simulator.MinRates
		if rates == nil {
			rates = map[int]float64{}
		}
		for k, v := range c.MinRate {
			minutes, err := strconv.Atoi(strings.TrimSpace(k))
			if err != nil {
				return fmt.Errorf("invalid block length %q", k)
			}
			rates[minutes] = v
		}
		settings.Simulator.MinRates = rates
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}
	if err := cli.OutcomeErr("save settings", l.SaveSettings(settings)); err != nil {
		return err
	}
	fmt.Println("Settings updated successfully.")
	return nil
}

func printSettings(s models.Settings) {
	platforms := make([]string, 0, len(s.CappedPlatforms))
	for _, p := range s.CappedPlatforms {
		platforms = append(platforms, string(p))
	}
	reminderEmail := s.ReminderEmail
	if reminderEmail == "" {
		reminderEmail = "(none)"
	}

	fmt.Println("Current Settings:")
	fmt.Printf("  Daily Limit:           %.2f h\n", s.DailyLimitHours)
	fmt.Printf("  Weekly Limit:          %.2f h\n", s.WeeklyLimitHours)
	fmt.Printf("  Capped Platforms:      %s\n", strings.Join(platforms, ", "))
	fmt.Printf("  Timezone:              %s\n", s.Timezone)
	fmt.Printf("  Reminder Email:        %s\n", reminderEmail)
	fmt.Printf("  Reminder Days Ahead:   %d\n", s.ReminderDaysAhead)
	fmt.Println("\nSimulator Settings:")
	fmt.Printf("  Blocks Before Gas:     %d\n", s.Simulator.BlocksBeforeGas)
	fmt.Printf("  Gas Price:             %s\n", cli.FormatMoney(s.Simulator.GasPrice))
	fmt.Printf("  Tank Size:             %.1f\n", s.Simulator.TankSize)
	for _, minutes := range slices.Sorted(maps.Keys(s.Simulator.MinRates)) {
		fmt.Printf("  Min Rate %3d min:      %s\n", minutes, cli.FormatMoney(s.Simulator.MinRates[minutes]))
	}
	fmt.Printf("  Owner Password:        %v\n", s.PasswordHash != "")
}
