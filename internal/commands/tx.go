package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/budgetflow/budgetflow/internal/ledger"
	"github.com/budgetflow/budgetflow/internal/model"
	"github.com/budgetflow/budgetflow/internal/validation"
)

func newTxCommand(g *globalFlags) *cobra.Command {
	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
	}
	txCmd.AddCommand(
		newTxAddCommand(g),
		newTxListCommand(g),
		newTxUpdateCommand(g),
		newTxDeleteCommand(g),
		newTxExportCommand(g),
	)
	return txCmd
}

func newTxAddCommand(g *globalFlags) *cobra.Command {
	var in validation.TransactionInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Date == "" {
				in.Date = now().Format(model.DateFormat)
			}
			txn, err := validation.Get().Transaction(in)
			if err != nil {
				return err
			}

			e, ctx, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			txn, err = ledger.NewService(e.store, e.user()).Add(ctx, txn)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s (%s)\n", txn.Type, money(txn.Amount), txn.Description, txn.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Date, "date", "", "date YYYY-MM-DD (default today)")
	f.StringVar(&in.Description, "description", "", "description")
	f.StringVar(&in.Amount, "amount", "", "amount, always positive")
	f.StringVar(&in.Category, "category", string(model.CategoryOther), "category")
	f.StringVar(&in.Type, "type", string(model.TypeExpense), "income or expense")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newTxListCommand(g *globalFlags) *cobra.Command {
	var category, txnType, from, to string
	var showTotals bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildFilter(category, txnType, from, to)
			if err != nil {
				return err
			}

			e, ctx, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			txns, err := ledger.NewService(e.store, e.user()).List(ctx, filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(txns) == 0 {
				fmt.Fprintln(out, "No transactions")
				return nil
			}
			writeTransactions(out, txns)
			if showTotals {
				writeTotals(out, ledger.Compute(txns))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&category, "category", "", "only this category")
	f.StringVar(&txnType, "type", "", "only income or expense")
	f.StringVar(&from, "from", "", "first date YYYY-MM-DD")
	f.StringVar(&to, "to", "", "last date YYYY-MM-DD")
	f.BoolVar(&showTotals, "totals", false, "print income, expense and category totals")

	return cmd
}

func buildFilter(category, txnType, from, to string) (ledger.Filter, error) {
	var f ledger.Filter
	if category != "" {
		c, ok := model.LookupCategory(category)
		if !ok {
			return f, fmt.Errorf("--category: unknown category %q", category)
		}
		f.Category = c
	}
	if txnType != "" {
		f.Type = model.TransactionType(txnType)
		if !f.Type.Valid() {
			return f, fmt.Errorf("--type: must be income or expense")
		}
	}

	var err error
	if f.Start, err = parseDateFlag("from", from); err != nil {
		return f, err
	}
	if f.End, err = parseDateFlag("to", to); err != nil {
		return f, err
	}
	return f, nil
}

func writeTotals(w io.Writer, t ledger.Totals) {
	fmt.Fprintf(w, "\nIncome:   %s\nExpenses: %s\nNet:      %s\n", money(t.Income), money(t.Expenses), money(t.Net()))

	tw := newTable(w)
	fmt.Fprintln(tw, "\nCATEGORY\tSPENT")
	for _, c := range model.Categories() {
		if amount, ok := t.ByCategory[c]; ok {
			fmt.Fprintf(tw, "%s\t%s\n", c, money(amount))
		}
	}
	tw.Flush()
}

func newTxUpdateCommand(g *globalFlags) *cobra.Command {
	var date, description, amount, category, txnType string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p ledger.Patch
			flags := cmd.Flags()

			if flags.Changed("date") {
				d, err := parseDateFlag("date", date)
				if err != nil {
					return err
				}
				p.Date = &d
			}
			if flags.Changed("description") {
				p.Description = &description
			}
			if flags.Changed("amount") {
				a, err := validation.Get().Amount("amount", amount)
				if err != nil {
					return err
				}
				p.Amount = &a
			}
			if flags.Changed("category") {
				c, ok := model.LookupCategory(category)
				if !ok {
					return fmt.Errorf("--category: unknown category %q", category)
				}
				p.Category = &c
			}
			if flags.Changed("type") {
				tt := model.TransactionType(txnType)
				if !tt.Valid() {
					return fmt.Errorf("--type: must be income or expense")
				}
				p.Type = &tt
			}

			e, ctx, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			txn, err := ledger.NewService(e.store, e.user()).Update(ctx, args[0], p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", txn.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&date, "date", "", "new date YYYY-MM-DD")
	f.StringVar(&description, "description", "", "new description")
	f.StringVar(&amount, "amount", "", "new amount")
	f.StringVar(&category, "category", "", "new category")
	f.StringVar(&txnType, "type", "", "new type")

	return cmd
}

func newTxDeleteCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, ctx, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := ledger.NewService(e.store, e.user()).Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newTxExportCommand(g *globalFlags) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all transactions as CSV",
		Long:  "Write all transactions as CSV. The output can be imported again.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, ctx, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			txns, err := ledger.NewService(e.store, e.user()).Load(ctx)
			if err != nil {
				return err
			}

			if outPath == "" || outPath == "-" {
				return ledger.WriteTransactions(cmd.OutOrStdout(), txns)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			defer f.Close()

			if err := ledger.WriteTransactions(f, txns); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", len(txns), outPath)
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")
	return cmd
}
