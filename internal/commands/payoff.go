package commands

import (
	"github.com/spf13/cobra"

	"github.com/budgetflow/budgetflow/internal/payoff"
	"github.com/budgetflow/budgetflow/internal/validation"
)

func newPayoffCommand() *cobra.Command {
	var in validation.PayoffInput

	cmd := &cobra.Command{
		Use:     "payoff",
		Short:   "Calculate how long a fixed monthly payment takes to clear a balance",
		Example: "  budgetflow payoff --balance 5000 --rate 18 --payment 200",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			debt, err := validation.Get().Payoff(in)
			if err != nil {
				return err
			}
			writePayoff(cmd.OutOrStdout(), payoff.ForDebt(debt))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Balance, "balance", "", "current balance")
	f.StringVar(&in.InterestRate, "rate", "0", "annual interest rate in percent, 0 to 100")
	f.StringVar(&in.MonthlyPayment, "payment", "", "monthly payment")
	_ = cmd.MarkFlagRequired("balance")
	_ = cmd.MarkFlagRequired("payment")

	return cmd
}
