package expense

import (
	"fmt"

	"github.com/julianstephens/shiftledger/internal/cli"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/money"
)

type ExpenseAddCmd struct {
	Name     string  `arg:"" help:"Bill name."`
	Amount   float64 `short:"a" help:"Monthly amount." required:""`
	DueDay   int     `short:"d" help:"Day of the month the bill is due (1-31)." required:""`
	Inactive bool    `help:"Record the bill as inactive."`
}

func (c *ExpenseAddCmd) Validate() error {
	if c.DueDay < 1 || c.DueDay > 31 {
		return fmt.Errorf("due day must be between 1 and 31")
	}
	return nil
}

func (c *ExpenseAddCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	f, outcome := l.AddFixedExpense(models.FixedExpense{
		Name:     c.Name,
		Amount:   c.Amount,
		DueDay:   c.DueDay,
		IsActive: !c.Inactive,
	})
	if err := cli.OutcomeErr("add expense", outcome); err != nil {
		return err
	}
	fmt.Printf("Added expense: %s (ID: %s)\n", f.Name, f.ID)
	return nil
}

type ExpenseEditCmd struct {
	ID     string   `arg:"" help:"Expense ID."`
	Name   *string  `help:"New name."`
	Amount *float64 `short:"a" help:"New monthly amount."`
	DueDay *int     `short:"d" help:"New due day (1-31)."`
	Active *bool    `help:"Mark the bill active or inactive."`
}

func (c *ExpenseEditCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	f, err := ctx.Store.GetFixedExpense(c.ID)
	if err != nil {
		return fmt.Errorf("failed to get expense: %w", err)
	}
	if c.Name != nil {
		f.Name = *c.Name
	}
	if c.Amount != nil {
		f.Amount = *c.Amount
	}
	if c.DueDay != nil {
		f.DueDay = *c.DueDay
	}
	if c.Active != nil {
		f.IsActive = *c.Active
	}
	if err := cli.OutcomeErr("update expense", l.UpdateFixedExpense(f)); err != nil {
		return err
	}
	fmt.Printf("Updated expense: %s\n", f.Name)
	return nil
}

type ExpenseDeleteCmd struct {
	ID  string `arg:"" help:"Expense ID."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ExpenseDeleteCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	f, err := ctx.Store.GetFixedExpense(c.ID)
	if err != nil {
		return fmt.Errorf("failed to get expense: %w", err)
	}
	ok, err := cli.Confirm("Delete expense?", fmt.Sprintf("%s (%s, due day %d)", f.Name, cli.FormatMoney(f.Amount), f.DueDay), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Delete cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := cli.OutcomeErr("delete expense", l.DeleteFixedExpense(c.ID)); err != nil {
		return err
	}
	fmt.Printf("Deleted expense: %s\n", f.Name)
	return nil
}

type ExpenseListCmd struct {
	ActiveOnly bool `help:"Show only active bills."`
	ShowIDs    bool `help:"Show expense IDs." name:"show-ids"`
}

func (c *ExpenseListCmd) Run(ctx *cli.Context) error {
	expenses, err := ctx.Store.GetFixedExpenses()
	if err != nil {
		return fmt.Errorf("failed to get expenses: %w", err)
	}
	if len(expenses) == 0 {
		fmt.Println("No expenses found")
		return nil
	}

	fmt.Println(cli.TitleStyle.Render("Fixed expenses:"))
	var active []float64
	for _, f := range expenses {
		if c.ActiveOnly && !f.IsActive {
			continue
		}
		status := "active"
		if !f.IsActive {
			status = "inactive"
		} else {
			active = append(active, f.Amount)
		}
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", f.ID)
		}
		fmt.Printf("  [%s] %s%s - %s due day %d\n", status, f.Name, idStr, cli.FormatMoney(f.Amount), f.DueDay)
	}
	fmt.Printf("\n  Active monthly total: %s\n", cli.FormatMoney(money.Sum(active...)))
	return nil
}
