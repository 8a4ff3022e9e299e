package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathmentor/internal/config"
	"github.com/abhisek/mathmentor/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "mathmentor",
	Short:        "AI math practice for kids",
	Long:         "MathMentor generates grade-appropriate math problems with step-by-step hints and emails a summary to the guardian.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv()
	},
	RunE: runPractice,
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database DSN or SQLite file (overrides MATHMENTOR_DB env var)")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDSN returns the database DSN using the --db flag (highest
// priority), then MATHMENTOR_DB, then the default XDG path for SQLite.
func resolveDSN(cmd *cobra.Command, cfg *config.Config) (string, error) {
	dsn, _ := cmd.Flags().GetString("db")
	if dsn == "" {
		dsn = cfg.DBPath
	}

	if cfg.DBDriver != store.DriverSQLite {
		if dsn == "" {
			return "", fmt.Errorf("MATHMENTOR_DB is required for the %s driver", cfg.DBDriver)
		}
		return dsn, nil
	}
	if dsn == "" {
		return store.DefaultDBPath()
	}
	return dsn, store.EnsureDir(dsn)
}

// openStore loads configuration and opens the event and document database.
func openStore(cmd *cobra.Command) (*config.Config, *store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	dsn, err := resolveDSN(cmd, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(cmd.Context(), cfg.DBDriver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, st, nil
}
