package plan

import (
	"fmt"
	"time"

	"github.com/julianstephens/shiftledger/internal/cli"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/payplan"
)

type PlanAddCmd struct {
	Name           string   `arg:"" help:"What was purchased."`
	Provider       string   `short:"P" help:"Lender (affirm|klarna|afterpay|paypal|zip|sezzle|other)." default:"affirm"`
	Custom         string   `help:"Lender name when --provider=other."`
	Cost           float64  `short:"c" help:"Initial total cost." required:""`
	Payments       int      `short:"n" help:"Total number of installments." required:""`
	Amount         float64  `short:"a" help:"Amount per installment." required:""`
	Current        int      `help:"Next unpaid installment (1-indexed)." default:"1"`
	MinMonthly     *float64 `help:"Minimum monthly payment override."`
	Start          string   `short:"s" help:"First installment date (YYYY-MM-DD). Defaults to today."`
	Frequency      string   `short:"f" help:"Installment cadence (weekly|biweekly|monthly)." default:"biweekly"`
	End            string   `short:"e" help:"Payoff deadline (YYYY-MM-DD), used with --provider=other."`
	MinimumPayment *float64 `help:"Lender minimum payment, used with --provider=other."`
}

func (c *PlanAddCmd) Validate() error {
	if !models.Provider(c.Provider).IsValid() {
		return fmt.Errorf("invalid provider: %s", c.Provider)
	}
	if !models.Frequency(c.Frequency).IsValid() {
		return fmt.Errorf("invalid frequency: %s", c.Frequency)
	}
	return nil
}

func (c *PlanAddCmd) Run(ctx *cli.Context) error {
	start, err := ctx.DateOrToday(c.Start)
	if err != nil {
		return err
	}
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}

	plan, outcome := l.AddPaymentPlan(models.PaymentPlan{
		Name:                  c.Name,
		Provider:              models.Provider(c.Provider),
		CustomProvider:        c.Custom,
		InitialCost:           c.Cost,
		TotalPayments:         c.Payments,
		CurrentPayment:        c.Current,
		PaymentAmount:         c.Amount,
		MinimumMonthlyPayment: c.MinMonthly,
		StartDate:             start,
		Frequency:             models.Frequency(c.Frequency),
		EndDate:               c.End,
		MinimumPayment:        c.MinimumPayment,
	})
	if err := cli.OutcomeErr("add payment plan", outcome); err != nil {
		return err
	}

	fmt.Printf("Added payment plan: %s (ID: %s)\n", plan.Name, plan.ID)
	if plan.Provider == models.ProviderOther && plan.EndDate != "" {
		remaining := payplan.Remaining(plan)
		months := payplan.MonthsUntilDeadline(time.Now(), plan.EndDate)
		fmt.Printf("  %s left over %d months: pay at least %s per month\n",
			cli.FormatMoney(remaining.RemainingAmount), months,
			cli.FormatMoney(payplan.RequiredMonthlyPayment(plan, time.Now())))
	}
	return nil
}

type PlanPayCmd struct {
	ID string `arg:"" help:"Payment plan ID."`
}

func (c *PlanPayCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	plan, outcome := l.RecordPayment(c.ID)
	if err := cli.OutcomeErr("record payment", outcome); err != nil {
		return err
	}

	progress := payplan.Remaining(plan)
	if plan.IsCompleted {
		fmt.Printf("Recorded final payment: %s is paid off\n", plan.Name)
		return nil
	}
	fmt.Printf("Recorded payment %d/%d for %s, %s remaining\n",
		progress.PaymentsMade, plan.TotalPayments, plan.Name, cli.FormatMoney(progress.RemainingAmount))
	return nil
}

type PlanDeleteCmd struct {
	ID  string `arg:"" help:"Payment plan ID."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *PlanDeleteCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	plan, err := ctx.Store.GetPaymentPlan(c.ID)
	if err != nil {
		return fmt.Errorf("failed to get payment plan: %w", err)
	}
	ok, err := cli.Confirm("Delete payment plan?", plan.Name, c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Delete cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := cli.OutcomeErr("delete payment plan", l.DeletePaymentPlan(c.ID)); err != nil {
		return err
	}
	fmt.Printf("Deleted payment plan: %s\n", plan.Name)
	return nil
}

type PlanListCmd struct {
	All     bool `help:"Include paid-off plans."`
	ShowIDs bool `help:"Show plan IDs." name:"show-ids"`
}

func (c *PlanListCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}
	plans := l.Plans()
	if len(plans) == 0 {
		fmt.Println("No payment plans found")
		return nil
	}

	fmt.Println(cli.TitleStyle.Render("Payment plans:"))
	all := make([]models.PaymentPlan, 0, len(plans))
	for _, pp := range plans {
		all = append(all, pp.Plan)
		if pp.Plan.IsCompleted && !c.All {
			continue
		}
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", pp.Plan.ID)
		}
		lender := string(pp.Plan.Provider)
		if pp.Plan.Provider == models.ProviderOther && pp.Plan.CustomProvider != "" {
			lender = pp.Plan.CustomProvider
		}
		fmt.Printf("  %s%s [%s, %s]\n", pp.Plan.Name, idStr, lender, pp.Plan.Frequency)
		if pp.Plan.IsCompleted {
			fmt.Printf("      %s\n", cli.PositiveStyle.Render("paid off"))
			continue
		}
		fmt.Printf("      %d/%d paid, %s remaining, %s per installment",
			pp.Progress.PaymentsMade, pp.Plan.TotalPayments,
			cli.FormatMoney(pp.Progress.RemainingAmount),
			cli.FormatMoney(payplan.EffectivePaymentAmount(pp.Plan)))
		if pp.NextDue != "" {
			fmt.Printf(", next due %s", pp.NextDue)
		}
		fmt.Println()
	}

	summary := payplan.Summarize(all)
	fmt.Println()
	fmt.Println(cli.Row("Active plans", fmt.Sprintf("%d", summary.ActivePlans)))
	fmt.Println(cli.Row("Total remaining", cli.FormatMoney(summary.TotalRemaining)))
	fmt.Println(cli.Row("Minimum due per month", cli.FormatMoney(summary.TotalMinimumDue)))
	return nil
}
