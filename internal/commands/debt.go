package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/budgetflow/budgetflow/internal/debts"
	"github.com/budgetflow/budgetflow/internal/model"
	"github.com/budgetflow/budgetflow/internal/payoff"
	"github.com/budgetflow/budgetflow/internal/validation"
)

func newDebtCommand(g *globalFlags) *cobra.Command {
	debtCmd := &cobra.Command{
		Use:   "debt",
		Short: "Manage debts and plan their payoff",
	}
	debtCmd.AddCommand(
		newDebtAddCommand(g),
		newDebtListCommand(g),
		newDebtPayCommand(g),
		newDebtDeleteCommand(g),
		newDebtPlanCommand(g),
	)
	return debtCmd
}

func newDebtAddCommand(g *globalFlags) *cobra.Command {
	var in validation.DebtInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a debt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			debt, err := validation.Get().Debt(in)
			if err != nil {
				return err
			}

			e, ctx, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			debt, err = debts.NewService(e.store, e.user()).Add(ctx, debt)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added debt %s %s (%s)\n", debt.Creditor, money(debt.Balance), debt.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Creditor, "creditor", "", "who the debt is owed to")
	f.StringVar(&in.Balance, "balance", "", "current balance")
	f.StringVar(&in.InterestRate, "rate", "", "annual interest rate in percent")
	f.StringVar(&in.MinimumPayment, "minimum", "", "minimum monthly payment")
	f.StringVar(&in.DueDate, "due", "", "next due date YYYY-MM-DD")
	f.StringVar(&in.Type, "type", string(model.DebtOther), "debt type")
	for _, name := range []string{"creditor", "balance", "rate", "minimum", "due"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newDebtListCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List debts with totals and due dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, ctx, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			list, err := debts.NewService(e.store, e.user()).Load(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No debts")
				return nil
			}

			t := now()
			tw := newTable(out)
			fmt.Fprintln(tw, "ID\tCREDITOR\tTYPE\tBALANCE\tRATE\tMINIMUM\tDUE")
			for _, d := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					d.ID, d.Creditor, d.Type, money(d.Balance), percent(d.InterestRate), money(d.MinimumPayment),
					dueLabel(d, debts.DueStatusOf(d, t)))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			s := payoff.Summarize(list)
			fmt.Fprintf(out, "\nTotal debt: %s  Minimum payments: %s  Average rate: %s\n",
				money(s.TotalBalance), money(s.TotalMinimumPayment), percent(s.AverageRate))
			return nil
		},
	}
}

func dueLabel(d model.Debt, s debts.DueStatus) string {
	date := d.DueDate.Format(model.DateFormat)
	switch {
	case s.Overdue:
		return date + " (overdue)"
	case s.DueSoon:
		return date + " (due soon)"
	default:
		return date
	}
}

func newDebtPayCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <id> <amount>",
		Short: "Record a payment against a debt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := validation.Get().Amount("amount", args[1])
			if err != nil {
				return err
			}

			e, ctx, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			debt, err := debts.NewService(e.store, e.user()).Pay(ctx, args[0], amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s balance: %s\n", debt.Creditor, money(debt.Balance))
			return nil
		},
	}
}

func newDebtDeleteCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, ctx, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := debts.NewService(e.store, e.user()).Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted debt %s\n", args[0])
			return nil
		},
	}
}

func newDebtPlanCommand(g *globalFlags) *cobra.Command {
	var strategyName string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Order debts by payoff strategy",
		Long: "Order debts by payoff strategy and project each payoff at its minimum payment.\n" +
			"avalanche pays the highest rate first, snowball the smallest balance first.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := payoff.ParseStrategy(strategyName)
			if err != nil {
				return err
			}

			e, ctx, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			items, err := debts.NewService(e.store, e.user()).Plan(ctx, strategy)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No debts")
				return nil
			}

			fmt.Fprintf(out, "Strategy: %s\n", strategy)
			tw := newTable(out)
			fmt.Fprintln(tw, "#\tCREDITOR\tBALANCE\tRATE\tMINIMUM\tPAYOFF")
			for i, it := range items {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					i+1, it.Debt.Creditor, money(it.Debt.Balance), percent(it.Debt.InterestRate),
					money(it.Debt.MinimumPayment), payoffLabel(it.Payoff))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&strategyName, "strategy", string(payoff.Avalanche), "avalanche or snowball")
	return cmd
}

func payoffLabel(r payoff.Result) string {
	switch v := r.(type) {
	case payoff.Finite:
		return fmt.Sprintf("%d months, %s interest", v.Months, moneyFloat(v.TotalInterest))
	case payoff.Unreachable:
		return "never (" + v.Reason + ")"
	default:
		return "?"
	}
}

func writePayoff(w io.Writer, r payoff.Result) {
	switch v := r.(type) {
	case payoff.Finite:
		fmt.Fprintf(w, "Months to pay off: %d\nTotal interest:    %s\nTotal paid:        %s\n",
			v.Months, moneyFloat(v.TotalInterest), moneyFloat(v.TotalPayment))
	case payoff.Unreachable:
		fmt.Fprintf(w, "This debt is never paid off: %s\n", v.Reason)
	}
}
