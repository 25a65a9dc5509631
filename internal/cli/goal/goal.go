package goal

import (
	"fmt"

	"github.com/julianstephens/shiftledger/internal/cli"
	"github.com/julianstephens/shiftledger/internal/goals"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/utils"
)

type GoalAddCmd struct {
	Name     string  `arg:"" help:"Goal name."`
	Target   float64 `short:"t" help:"Target amount." required:""`
	Period   string  `short:"p" help:"Goal period (weekly|monthly)." default:"monthly"`
	Start    string  `short:"s" help:"Start date (YYYY-MM-DD). Defaults to the start of the current period."`
	End      string  `short:"e" help:"End date (YYYY-MM-DD). Defaults to the end of the current period."`
	Priority int     `help:"Priority (1 is highest)." default:"1"`
	Inactive bool    `help:"Record the goal as inactive."`
}

func (c *GoalAddCmd) Validate() error {
	if !models.GoalPeriod(c.Period).IsValid() {
		return fmt.Errorf("invalid period: %s", c.Period)
	}
	if c.Priority < 1 {
		return fmt.Errorf("priority must be at least 1")
	}
	return nil
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	start, end, err := periodRange(models.GoalPeriod(c.Period), today)
	if err != nil {
		return err
	}
	if c.Start != "" {
		start = c.Start
	}
	if c.End != "" {
		end = c.End
	}

	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	g, outcome := l.AddGoal(models.Goal{
		Name:         c.Name,
		Period:       models.GoalPeriod(c.Period),
		TargetAmount: c.Target,
		StartDate:    start,
		EndDate:      end,
		IsActive:     !c.Inactive,
		Priority:     c.Priority,
	})
	if err := cli.OutcomeErr("add goal", outcome); err != nil {
		return err
	}
	fmt.Printf("Added goal: %s %s-%s (ID: %s)\n", g.Name, g.StartDate, g.EndDate, g.ID)
	return nil
}

// periodRange is the calendar week (Monday first) or month containing today.
func periodRange(period models.GoalPeriod, today string) (string, string, error) {
	t, err := utils.ParseDate(today)
	if err != nil {
		return "", "", err
	}
	if period == models.GoalPeriodWeekly {
		start := utils.WeekStart(t)
		return utils.FormatDate(start), utils.FormatDate(start.AddDate(0, 0, 6)), nil
	}
	first, last, err := utils.MonthRange(today[:7])
	if err != nil {
		return "", "", err
	}
	return utils.FormatDate(first), utils.FormatDate(last), nil
}

type GoalDeleteCmd struct {
	ID  string `arg:"" help:"Goal ID."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *GoalDeleteCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	g, err := ctx.Store.GetGoal(c.ID)
	if err != nil {
		return fmt.Errorf("failed to get goal: %w", err)
	}
	ok, err := cli.Confirm("Delete goal?", g.Name, c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Delete cancelled.")
		return nil
	}
	if err := cli.OutcomeErr("delete goal", l.DeleteGoal(c.ID)); err != nil {
		return err
	}
	fmt.Printf("Deleted goal: %s\n", g.Name)
	return nil
}

type GoalListCmd struct {
	ShowIDs bool `help:"Show goal IDs." name:"show-ids"`
}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	all, err := ctx.Store.GetGoals()
	if err != nil {
		return fmt.Errorf("failed to get goals: %w", err)
	}
	if len(all) == 0 {
		fmt.Println("No goals found")
		return nil
	}

	fmt.Println(cli.TitleStyle.Render("Goals:"))
	for _, g := range all {
		status := "active"
		if !g.IsActive {
			status = "inactive"
		}
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", g.ID)
		}
		fmt.Printf("  [%s] %d. %s%s - %s %s, %s to %s\n",
			status, g.Priority, g.Name, idStr, cli.FormatMoney(g.TargetAmount), g.Period, g.StartDate, g.EndDate)
	}
	return nil
}

type GoalProgressCmd struct {
	Period string `short:"p" help:"Waterfall period (weekly|monthly)." default:"monthly"`
	ID     string `help:"Measure one goal on its own date range instead."`
}

func (c *GoalProgressCmd) Validate() error {
	if !models.GoalPeriod(c.Period).IsValid() {
		return fmt.Errorf("invalid period: %s", c.Period)
	}
	return nil
}

func (c *GoalProgressCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}

	if c.ID != "" {
		p, err := l.Goal(c.ID)
		if err != nil {
			return err
		}
		printProgress(p)
		return nil
	}

	results := l.GoalProgress(models.GoalPeriod(c.Period))
	if len(results) == 0 {
		fmt.Printf("No active %s goals\n", c.Period)
		return nil
	}
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%s goals, funded in priority order:", c.Period)))
	for _, p := range results {
		printProgress(p)
	}
	return nil
}

func printProgress(p goals.Progress) {
	mark := cli.MutedStyle.Render("○")
	if p.IsComplete {
		mark = cli.PositiveStyle.Render("✓")
	}
	fmt.Printf("  %s %d. %s\n", mark, p.Goal.Priority, p.Goal.Name)
	fmt.Printf("      %s %5.1f%%  %s of %s, %s to go\n",
		cli.Gauge(p.PercentComplete, 100, 20), p.PercentComplete,
		cli.FormatMoney(p.CurrentAmount), cli.FormatMoney(p.Goal.TargetAmount), cli.FormatMoney(p.RemainingAmount))
}
