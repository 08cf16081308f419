package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/working-groups/cmd/cli/commands"
	"github.com/jakechorley/working-groups/internal/config"
	"github.com/jakechorley/working-groups/pkg/clients/sheetsclient"
	"github.com/jakechorley/working-groups/pkg/db"
	"github.com/jakechorley/working-groups/pkg/metrics"
	"github.com/jakechorley/working-groups/pkg/postgres"
	"github.com/jakechorley/working-groups/pkg/sheetssql"
	"github.com/jakechorley/working-groups/pkg/sqlite"
	"github.com/jakechorley/working-groups/pkg/utils"
	"github.com/jakechorley/working-groups/pkg/utils/logging"
)

func main() {
	app := &commands.AppContext{}
	var closeStore func()

	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Working groups CLI - Allocate members into working groups",
		Long: `A CLI tool that reads members from a spreadsheet, splits them into balanced working groups
that respect household, availability and weight constraints, and writes the groups back.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			closeStore, err = initApp(app)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if closeStore != nil {
				closeStore()
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&app.Env, "env", "e", "", "Environment (required: test, prod, etc.)")
	_ = rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.AllocateGroupsCmd(app))
	rootCmd.AddCommand(commands.ListMembersCmd(app))
	rootCmd.AddCommand(commands.HistoryCmd(app))
	rootCmd.AddCommand(commands.ShowRunCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, credentials, sheets client, history store and metrics.
// The returned func releases the store.
func initApp(app *commands.AppContext) (func(), error) {
	var err error
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(app.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", app.Env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(app.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.Int("group_count", app.Cfg.GroupCount),
		zap.String("store", app.Cfg.Store.Driver))

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	app.Logger.Info("Locating service account credentials")
	creds, err := utils.FindCredentials(app.Cfg.CredentialsFile, workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to find credentials: %w", err)
	}
	app.Logger.Debug("Credentials found",
		zap.String("source", creds.Source),
		zap.String("client_email", creds.Key.ClientEmail))

	app.Logger.Info("Initializing sheets client")
	app.SheetsClient, err = sheetsclient.NewClient(app.Ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.Metrics = metrics.NewPrometheus(app.Registry, app.Cfg.Metrics.Namespace)

	database, closeStore, err := openStore(app.Ctx, app.Cfg, app.SheetsClient, app.Logger)
	if err != nil {
		return nil, err
	}
	app.Database = database

	return closeStore, nil
}

// openStore connects the history store selected by store.driver.
// It returns a nil Database for the none driver.
func openStore(ctx context.Context, cfg *config.Config, sheets *sheetsclient.Client, logger *zap.Logger) (db.Database, func(), error) {
	noop := func() {}

	switch cfg.Store.Driver {
	case config.StoreSQLite:
		logger.Info("Opening SQLite history store")
		store, err := sqlite.New(cfg.Store.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil

	case config.StorePostgres:
		logger.Info("Connecting to PostgreSQL history store")
		store, err := postgres.NewDB(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres store: %w", err)
		}
		if err := store.RunMigrations(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("failed to migrate postgres store: %w", err)
		}
		return store, store.Close, nil

	case config.StoreSheets:
		logger.Info("Connecting to spreadsheet history store", zap.String("spreadsheet_id", cfg.Store.SheetID))
		schema, err := db.Schema()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create history schema: %w", err)
		}
		ssqlDB, err := sheetssql.NewDB(sheets, cfg.Store.SheetID, schema)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize spreadsheet store: %w", err)
		}
		return db.NewDB(ssqlDB), noop, nil

	default:
		logger.Debug("No history store configured")
		return nil, noop, nil
	}
}
