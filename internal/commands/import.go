package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/budgetflow/budgetflow/internal/importer"
	"github.com/budgetflow/budgetflow/internal/importlog"
	"github.com/budgetflow/budgetflow/internal/ledger"
	"github.com/budgetflow/budgetflow/internal/metrics"
	"github.com/budgetflow/budgetflow/internal/model"
)

func newImportCommand(g *globalFlags) *cobra.Command {
	var parserName string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import bank CSV exports",
		Long: "Import bank CSV exports. With no files, every *.csv in the import directory\n" +
			"is imported and moved to its processed/ subdirectory.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, g, args, parserName, dryRun)
		},
	}

	cmd.Flags().StringVar(&parserName, "parser", "", "parser format (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and report without storing anything")

	cmd.AddCommand(newImportHistoryCommand(g))
	return cmd
}

// importResult summarizes one imported file.
type importResult struct {
	batch    importer.Batch
	imported int
	skipped  int // parser skips plus rows the ledger dropped
	err      error
}

func runImport(cmd *cobra.Command, g *globalFlags, args []string, parserName string, dryRun bool) error {
	e, ctx, err := g.open(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if parserName == "" {
		parserName = e.cfg.Import.Parser
	}
	reg := importer.DefaultRegistry()
	parser := reg.Get(parserName)
	if parser == nil {
		return fmt.Errorf("unknown parser %q (available: %v)", parserName, reg.Formats())
	}

	importDir := e.cfg.ImportDir(e.dataDir)
	fromDir := len(args) == 0
	paths := args
	if fromDir {
		files, err := importer.Scan(importDir)
		if err != nil {
			return err
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
	}

	out := cmd.OutOrStdout()
	if len(paths) == 0 {
		fmt.Fprintf(out, "No CSV files in %s\n", importDir)
		return nil
	}

	rec := metrics.NewPrometheus()
	led := ledger.NewService(e.store, e.user())

	var failed int
	for _, path := range paths {
		start := time.Now()
		res := importFile(ctx, parser, led, path, dryRun)
		rec.Batch(res.err == nil, time.Since(start))
		rec.RowsSkipped(res.skipped)

		name := filepath.Base(path)
		if res.err != nil {
			failed++
			e.log.Error().Err(res.err).Str("file", name).Msg("import failed")
			fmt.Fprintf(out, "%s: %v\n", name, res.err)
			continue
		}
		rec.RowsImported(res.imported)

		if dryRun {
			fmt.Fprintf(out, "%s: would import %d transactions (%d skipped)\n", name, res.imported, res.skipped)
			writeTransactions(out, res.batch.Transactions)
			continue
		}

		fmt.Fprintf(out, "%s: imported %d transactions (%d skipped)\n", name, res.imported, res.skipped)

		entry := importlog.Entry{
			Timestamp: now(),
			User:      e.user(),
			Source:    name,
			BatchID:   res.batch.ID,
			Imported:  res.imported,
			Skipped:   res.skipped,
		}
		if err := importlog.Append(e.dataDir, entry); err != nil {
			return err
		}

		if fromDir {
			if err := importer.MarkProcessed(importDir, name); err != nil {
				return err
			}
		}
	}

	if path := e.cfg.MetricsTextfile(e.dataDir); path != "" {
		if err := rec.WriteTextfile(path); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(paths))
	}
	return nil
}

func importFile(ctx context.Context, parser importer.Parser, led *ledger.Service, path string, dryRun bool) importResult {
	f, err := os.Open(path)
	if err != nil {
		return importResult{err: fmt.Errorf("opening %s: %w", path, err)}
	}
	defer f.Close()

	batch, err := parser.Parse(ctx, f)
	res := importResult{batch: batch, imported: len(batch.Transactions), skipped: len(batch.Skipped)}
	if err != nil {
		res.err = err
		return res
	}
	if dryRun {
		return res
	}

	stored, err := led.AddBatch(ctx, batch.Transactions)
	if err != nil {
		res.err = err
		return res
	}
	res.skipped += len(batch.Transactions) - stored
	res.imported = stored
	return res
}

func writeTransactions(w io.Writer, txns []model.Transaction) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, t := range txns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date.Format(model.DateFormat), t.Type, money(t.Amount), t.Category, t.Description)
	}
	tw.Flush()
}

func newImportHistoryCommand(g *globalFlags) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, cfg, err := g.resolve()
			if err != nil {
				return err
			}
			entries, err := importlog.Read(dataDir)
			if err != nil {
				return err
			}
			if !all {
				entries = importlog.ForUser(entries, userOf(cfg))
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No imports yet")
				return nil
			}

			tw := newTable(out)
			fmt.Fprintln(tw, "TIME\tUSER\tSOURCE\tBATCH\tIMPORTED\tSKIPPED")
			for _, en := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
					en.Timestamp.Format(time.RFC3339), en.User, en.Source, en.BatchID, en.Imported, en.Skipped)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "show imports of every user")
	return cmd
}
