package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/budgetflow/budgetflow/internal/debts"
	"github.com/budgetflow/budgetflow/internal/goals"
	"github.com/budgetflow/budgetflow/internal/ledger"
	"github.com/budgetflow/budgetflow/internal/logger"
	"github.com/budgetflow/budgetflow/internal/report"
)

func newReportCommand(g *globalFlags) *cobra.Command {
	var periodName, out string

	names := make([]string, 0, len(report.Periods()))
	for _, p := range report.Periods() {
		names = append(names, string(p))
	}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export a JSON summary of income, spending, goals and debts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := report.ParsePeriod(periodName)
			if err != nil {
				return err
			}

			e, ctx, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			txns, err := ledger.NewService(e.store, e.user()).Load(ctx)
			if err != nil {
				return err
			}
			gs, err := goals.NewService(e.store, e.user()).Load(ctx)
			if err != nil {
				return err
			}
			ds, err := debts.NewService(e.store, e.user()).Load(ctx)
			if err != nil {
				return err
			}

			t := now()
			r := report.Build(period, t, txns, gs, ds)

			if out == "-" {
				return report.WriteJSON(cmd.OutOrStdout(), r)
			}
			if out == "" {
				out = report.FileName(period, t)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			defer f.Close()
			if err := report.WriteJSON(f, r); err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", out, err)
			}

			log := logger.FromContext(ctx)
			log.Info().Str("path", out).Str("period", string(period)).Msg("report written")
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s report to %s\n", period, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&periodName, "period", string(report.PeriodYTD), "report period: "+strings.Join(names, ", "))
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout (default budget-report-<period>-<date>.json)")
	return cmd
}
