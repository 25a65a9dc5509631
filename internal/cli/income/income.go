package income

import (
	"fmt"

	"github.com/julianstephens/shiftledger/internal/cli"
	"github.com/julianstephens/shiftledger/internal/hours"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/profit"
	"github.com/julianstephens/shiftledger/internal/utils"
)

type IncomeAddCmd struct {
	Amount   float64 `arg:"" help:"Amount earned for the block."`
	Date     string  `short:"d" help:"Work date (YYYY-MM-DD). Defaults to today."`
	Platform string  `short:"p" help:"Platform (amazon_flex|doordash|uber_eats|grubhub|instacart|shipt|uber|lyft|other)." default:"amazon_flex"`
	Custom   string  `help:"Platform name when --platform=other."`
	Start    string  `short:"s" help:"Block start time (HH:MM)."`
	End      string  `short:"e" help:"Block end time (HH:MM)."`
	Length   int     `short:"l" help:"Block length in minutes."`
	Notes    string  `short:"n" help:"Free-text notes."`
}

func (c *IncomeAddCmd) Validate() error {
	if !models.Platform(c.Platform).IsValid() {
		return fmt.Errorf("invalid platform: %s", c.Platform)
	}
	if c.Length < 0 {
		return fmt.Errorf("block length cannot be negative")
	}
	if (c.Start == "") != (c.End == "") {
		return fmt.Errorf("--start and --end must be given together")
	}
	return nil
}

func (c *IncomeAddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}

	entry, outcome := l.AddIncomeEntry(models.IncomeEntry{
		Date:           date,
		Platform:       models.Platform(c.Platform),
		CustomPlatform: c.Custom,
		BlockStart:     c.Start,
		BlockEnd:       c.End,
		BlockLength:    c.Length,
		Amount:         c.Amount,
		Notes:          c.Notes,
	})
	if err := cli.OutcomeErr("add income entry", outcome); err != nil {
		return err
	}

	fmt.Printf("Added income entry: %s %s on %s (ID: %s)\n", cli.FormatMoney(entry.Amount), entry.PlatformLabel(), entry.Date, entry.ID)
	if minutes := hours.BlockMinutes(entry); minutes > 0 {
		usage := l.HoursUsed(entry.Date)
		fmt.Printf("  Hours today: %.2f, trailing 7 days: %.2f\n", usage.DailyHoursUsed, usage.WeeklyHoursUsed)
	}
	return nil
}

type IncomeEditCmd struct {
	ID       string   `arg:"" help:"Income entry ID."`
	Amount   *float64 `help:"New amount."`
	Date     *string  `short:"d" help:"New work date (YYYY-MM-DD)."`
	Platform *string  `short:"p" help:"New platform."`
	Custom   *string  `help:"New custom platform name."`
	Start    *string  `short:"s" help:"New block start time (HH:MM). Empty clears it."`
	End      *string  `short:"e" help:"New block end time (HH:MM). Empty clears it."`
	Length   *int     `short:"l" help:"New block length in minutes."`
	Notes    *string  `short:"n" help:"New notes."`
}

func (c *IncomeEditCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	entry, err := ctx.Store.GetIncomeEntry(c.ID)
	if err != nil {
		return fmt.Errorf("failed to get income entry: %w", err)
	}

	updated := false
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
			updated = true
		}
	}
	set(&entry.Date, c.Date)
	set(&entry.CustomPlatform, c.Custom)
	set(&entry.BlockStart, c.Start)
	set(&entry.BlockEnd, c.End)
	set(&entry.Notes, c.Notes)
	if c.Platform != nil {
		entry.Platform = models.Platform(*c.Platform)
		updated = true
	}
	if c.Amount != nil {
		entry.Amount = *c.Amount
		updated = true
	}
	if c.Length != nil {
		entry.BlockLength = *c.Length
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified.")
		return nil
	}

	if err := cli.OutcomeErr("update income entry", l.UpdateIncomeEntry(entry)); err != nil {
		return err
	}
	fmt.Printf("Updated income entry: %s\n", entry.ID)
	return nil
}

type IncomeDeleteCmd struct {
	ID  string `arg:"" help:"Income entry ID."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *IncomeDeleteCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	entry, err := ctx.Store.GetIncomeEntry(c.ID)
	if err != nil {
		return fmt.Errorf("failed to get income entry: %w", err)
	}

	ok, err := cli.Confirm(
		"Delete income entry?",
		fmt.Sprintf("%s %s on %s", cli.FormatMoney(entry.Amount), entry.PlatformLabel(), entry.Date),
		c.Yes,
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Delete cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := cli.OutcomeErr("delete income entry", l.DeleteIncomeEntry(c.ID)); err != nil {
		return err
	}
	fmt.Printf("Deleted income entry: %s\n", c.ID)
	return nil
}

type IncomeListCmd struct {
	From    string `help:"First date to include (YYYY-MM-DD)."`
	To      string `help:"Last date to include (YYYY-MM-DD)."`
	ShowIDs bool   `help:"Show entry IDs." name:"show-ids"`
}

func (c *IncomeListCmd) Validate() error {
	for _, d := range []string{c.From, c.To} {
		if d != "" && !utils.ValidateDateFormat(d) {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", d)
		}
	}
	return nil
}

func (c *IncomeListCmd) Run(ctx *cli.Context) error {
	var (
		entries []models.IncomeEntry
		err     error
	)
	if c.From != "" || c.To != "" {
		from, to := c.From, c.To
		if from == "" {
			from = "0001-01-01"
		}
		if to == "" {
			to = "9999-12-31"
		}
		entries, err = ctx.Store.GetIncomeEntriesInRange(from, to)
	} else {
		entries, err = ctx.Store.GetIncomeEntries()
	}
	if err != nil {
		return fmt.Errorf("failed to get income entries: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No income entries found")
		return nil
	}

	fmt.Println(cli.TitleStyle.Render("Income:"))
	for _, e := range entries {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", e.ID)
		}
		block := ""
		if minutes := hours.BlockMinutes(e); minutes > 0 {
			block = fmt.Sprintf(" %dm", minutes)
			if e.BlockStart != "" {
				block += fmt.Sprintf(" %s-%s", e.BlockStart, e.BlockEnd)
			}
		}
		fmt.Printf("  %s  %-12s %10s%s%s\n", e.Date, e.PlatformLabel(), cli.FormatMoney(e.Amount), block, idStr)
		if e.Notes != "" {
			fmt.Printf("      %s\n", cli.MutedStyle.Render(e.Notes))
		}
	}
	fmt.Printf("\n  Total: %s over %d entries\n", cli.Money(profit.TotalIncome(entries)), len(entries))
	return nil
}
