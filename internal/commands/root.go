package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/budgetflow/budgetflow/internal/buildinfo"
	"github.com/budgetflow/budgetflow/internal/config"
	"github.com/budgetflow/budgetflow/internal/logger"
	"github.com/budgetflow/budgetflow/internal/store"
)

// now is replaced in tests.
var now = time.Now

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "budgetflow",
		Short:   "Personal budgeting: transactions, goals and debts",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.dataDir, "data-dir", "", "data directory (default $BUDGETFLOW_DATA_DIR or ~/.budgetflow)")
	pf.StringVar(&g.user, "user", "", "user whose data to use (default from config, else guest)")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newInitCommand(g),
		newImportCommand(g),
		newTxCommand(g),
		newGoalCommand(g),
		newDebtCommand(g),
		newPayoffCommand(),
		newReportCommand(g),
	)

	return rootCmd
}

type globalFlags struct {
	dataDir  string
	user     string
	logLevel string
}

// env is everything a command needs once config is resolved.
type env struct {
	dataDir string
	cfg     *config.Config
	store   store.Store
	log     zerolog.Logger
}

func (e *env) user() string { return userOf(e.cfg) }

// userOf returns the configured user, or the guest partition.
func userOf(cfg *config.Config) string {
	if cfg.User == "" {
		return store.GuestUser
	}
	return cfg.User
}

func (e *env) Close() error {
	if c, ok := e.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// resolve loads .env, the data directory config and the flag overrides.
func (g *globalFlags) resolve() (string, *config.Config, error) {
	if err := config.LoadEnvFile(".env"); err != nil {
		return "", nil, err
	}

	dataDir := config.DataDir(g.dataDir)
	cfg, err := config.LoadDir(dataDir)
	if err != nil {
		return "", nil, err
	}

	config.ApplyEnv(cfg)
	if g.user != "" {
		cfg.User = g.user
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	return dataDir, cfg, nil
}

// open resolves config and opens the store. Callers must Close the env.
func (g *globalFlags) open(cmd *cobra.Command) (*env, context.Context, error) {
	dataDir, cfg, err := g.resolve()
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)

	st, err := store.Open(cfg.Storage.Backend, cfg.StoragePath(dataDir))
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}

	log.Debug().Str("data_dir", dataDir).Str("backend", cfg.Storage.Backend).Str("user", cfg.User).Msg("storage opened")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithContext(ctx, log)

	return &env{dataDir: dataDir, cfg: cfg, store: st, log: log}, ctx, nil
}
