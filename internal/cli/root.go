// Package cli provides the command-line interface for queryflow.
package cli

import (
	"context"

	"github.com/leapstack-labs/queryflow/internal/cli/commands"
	"github.com/leapstack-labs/queryflow/internal/cli/config"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version = "0.1.0"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "queryflow",
		Short: "queryflow - pluggable query execution",
		Long: `queryflow executes queries through an ordered plugin pipeline.

Queries run through the configured transform plugins, compile to SQL for
the configured database, execute on a pooled connection, and the result
rows run back through the same plugin pipeline.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), commands.ConfigKey{}, cfg))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to config file (default queryflow.yaml)")
	flags.String("database.driver", config.DefaultDriver, "Database driver: sqlite, duckdb, postgres")
	flags.String("database.dsn", config.DefaultDSN, "Database connection string")
	flags.String("output", config.DefaultFormat, "Output format: table, json")
	flags.Bool("verbose", false, "Verbose logging")

	rootCmd.AddCommand(commands.NewExecCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))

	return rootCmd
}
