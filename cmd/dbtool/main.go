package main

import (
	"fmt"
	"goal-route-service/internal/adapters/cache"
	"goal-route-service/internal/config"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type dbFlags struct {
	databaseURL string
	dbPath      string
}

// newRootCmd builds the maintenance CLI for the leg and geocode caches.
func newRootCmd(out io.Writer) *cobra.Command {
	flags := &dbFlags{}

	root := &cobra.Command{
		Use:           "dbtool",
		Short:         "Maintain the route service cache database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&flags.databaseURL, "database-url", config.Get("DATABASE_URL", ""),
		"Postgres connection URL; SQLite at --db-path is used when empty")
	root.PersistentFlags().StringVar(&flags.dbPath, "db-path", config.Get("DB_PATH", "data/legs.db"),
		"SQLite database file")

	root.AddCommand(newInitCmd(flags), newPurgeCmd(flags))
	return root
}

func newInitCmd(flags *dbFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the cache schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stores, err := cache.Open(flags.databaseURL, flags.dbPath)
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			defer stores.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", stores.Driver)
			return nil
		},
	}
}

func newPurgeCmd(flags *dbFlags) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached legs and geocodes fetched before now minus --older-than",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("purge: --older-than must be positive, got %s", olderThan)
			}

			stores, err := cache.Open(flags.databaseURL, flags.dbPath)
			if err != nil {
				return fmt.Errorf("purge: %w", err)
			}
			defer stores.Close()

			cutoff := time.Now().Add(-olderThan)
			legs, err := stores.Legs.Purge(cmd.Context(), cutoff)
			if err != nil {
				return fmt.Errorf("purge: %w", err)
			}
			geocodes, err := stores.Geocodes.Purge(cmd.Context(), cutoff)
			if err != nil {
				return fmt.Errorf("purge: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "purged %d cached legs and %d geocodes\n", legs, geocodes)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age of the oldest cache entry to keep")
	return cmd
}
