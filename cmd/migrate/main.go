// Command migrate manages the stockroom schema and seeds development data.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/infrastructure/migration"
	"github.com/stockroom/backend/internal/infrastructure/persistence"
	"github.com/stockroom/backend/internal/infrastructure/seed"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "internal/infrastructure/migration/sql"

// rootFlags holds the global flag values
type rootFlags struct {
	logLevel string
}

// app carries the state shared by subcommands
type app struct {
	flags rootFlags
	log   *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the migrate command tree
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "migrate",
		Short: "Stockroom database migration tool",
		Long: `Applies the schema embedded in the binary to the configured Postgres database.

Connection settings come from config.toml or STOCK_DATABASE_* environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(&logger.Config{
				Level:      a.flags.logLevel,
				Format:     "console",
				Output:     "stderr",
				TimeFormat: "2006-01-02 15:04:05",
			})
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = logger.Sync(a.log)
			}
		},
	}
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		a.newUpCmd(),
		a.newDownCmd(),
		a.newStepCmd(),
		a.newVersionCmd(),
		a.newForceCmd(),
		a.newCreateCmd(),
		a.newListCmd(),
		a.newSeedCmd(),
	)
	return root
}

func (a *app) newUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.withMigrator(func(m *migration.Migrator) error {
				return m.Up()
			})
		},
	}
}

func (a *app) newDownCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if !confirm {
				return fmt.Errorf("down drops every inventory table; rerun with --confirm")
			}
			return a.withMigrator(func(m *migration.Migrator) error {
				return m.Down()
			})
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm dropping all tables")
	return cmd
}

func (a *app) newStepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "step <n>",
		Short: "Apply n migrations (positive=up, negative=down)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n == 0 {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return a.withMigrator(func(m *migration.Migrator) error {
				return m.Steps(n)
			})
		},
	}
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withMigrator(func(m *migration.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			})
		},
	}
}

func (a *app) newForceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Force the recorded version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			a.log.Warn("Forcing migration version", zap.Int("version", version))
			return a.withMigrator(func(m *migration.Migrator) error {
				return m.Force(version)
			})
		},
	}
}

func (a *app) newCreateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create the next up/down migration pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mf, err := migration.CreateMigration(dir, args[0])
			if err != nil {
				return err
			}
			a.log.Info("Migration created",
				zap.Uint("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			fmt.Fprintln(cmd.OutOrStdout(), mf.UpPath)
			fmt.Fprintln(cmd.OutOrStdout(), mf.DownPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", defaultMigrationsDir, "migrations directory")
	return cmd
}

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the migrations embedded in this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			embedded, err := fs.Sub(migration.Migrations, migration.SourceDir)
			if err != nil {
				return err
			}
			infos, err := migration.ListMigrations(embedded)
			if err != nil {
				return err
			}
			for _, mi := range infos {
				down := ""
				if !mi.HasDown {
					down = " (no down)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%06d %s%s\n", mi.Version, mi.Name, down)
			}
			return nil
		},
	}
}

func (a *app) newSeedCmd() *cobra.Command {
	opts := seed.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty database with sample inventory data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gormLog := logger.NewGormLogger(a.log, logger.MapGormLogLevel(a.flags.logLevel))
			db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
			if err != nil {
				return err
			}
			defer db.Close()

			sum, err := seed.New(persistence.NewStores(db.DB), a.log).Seed(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d definitions, %d items, %d log entries\n",
				sum.Users, sum.Definitions, sum.Items, sum.Logs)
			return nil
		},
	}
	f := cmd.Flags()
	f.Uint64Var(&opts.Seed, "seed", 0, "random seed for a reproducible data set (0 picks one)")
	f.IntVar(&opts.Users, "users", opts.Users, "number of staff users")
	f.IntVar(&opts.Categories, "categories", opts.Categories, "number of categories")
	f.IntVar(&opts.Definitions, "definitions", opts.Definitions, "number of item definitions")
	f.IntVar(&opts.ItemsPerDefinition, "items", opts.ItemsPerDefinition, "inventory items per definition")
	f.IntVar(&opts.LogsPerItem, "logs", opts.LogsPerItem, "log entries per item")
	f.DurationVar(&opts.History, "history", opts.History, "how far back log timestamps reach")
	f.BoolVar(&opts.Force, "force", false, "seed even if users already exist")
	return cmd
}

// withMigrator opens the configured database and runs fn with a migrator over it
func (a *app) withMigrator(fn func(*migration.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, a.log)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}
