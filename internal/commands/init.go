package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/budgetflow/budgetflow/internal/config"
	"github.com/budgetflow/budgetflow/internal/debts"
	"github.com/budgetflow/budgetflow/internal/goals"
	"github.com/budgetflow/budgetflow/internal/ledger"
	"github.com/budgetflow/budgetflow/internal/store"
)

func newInitCommand(g *globalFlags) *cobra.Command {
	var backend string
	var empty bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a budgetflow data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, g, backend, empty)
		},
	}

	cmd.Flags().StringVar(&backend, "storage", "", "storage backend: file or sqlite (default file)")
	cmd.Flags().BoolVar(&empty, "empty", false, "do not write sample transactions, goals and debts")

	return cmd
}

func runInit(cmd *cobra.Command, g *globalFlags, backend string, empty bool) error {
	dataDir, resolved, err := g.resolve()
	if err != nil {
		return err
	}

	cfgPath := filepath.Join(dataDir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	if backend == "" {
		backend = resolved.Storage.Backend
	}
	cfg := config.Default(resolved.User)
	cfg.Storage.Backend = backend
	if backend == store.BackendSQLite {
		cfg.Storage.Path = "budgetflow.db"
	}

	dirs := []string{
		dataDir,
		cfg.ImportDir(dataDir),
		filepath.Join(cfg.ImportDir(dataDir), "processed"),
		filepath.Join(dataDir, "logs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized budgetflow at %s\n", dataDir)

	if empty {
		return nil
	}

	e, ctx, err := g.open(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	seeders := []struct {
		name string
		seed func() (bool, error)
	}{
		{"transactions", func() (bool, error) { return ledger.NewService(e.store, e.user()).Seed(ctx) }},
		{"goals", func() (bool, error) { return goals.NewService(e.store, e.user()).Seed(ctx) }},
		{"debts", func() (bool, error) { return debts.NewService(e.store, e.user()).Seed(ctx) }},
	}
	for _, s := range seeders {
		seeded, err := s.seed()
		if err != nil {
			return fmt.Errorf("seeding %s: %w", s.name, err)
		}
		if seeded {
			fmt.Fprintf(out, "Added sample %s for %s\n", s.name, e.user())
		}
	}
	return nil
}
