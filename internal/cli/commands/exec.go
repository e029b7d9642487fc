// Package commands implements the queryflow CLI subcommands.
package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/queryflow/internal/cli/config"
	"github.com/leapstack-labs/queryflow/pkg/compiler"
	"github.com/leapstack-labs/queryflow/pkg/conn"
	"github.com/leapstack-labs/queryflow/pkg/core"
	"github.com/leapstack-labs/queryflow/pkg/executor"
	"github.com/leapstack-labs/queryflow/pkg/plugins/normalize"
	"github.com/leapstack-labs/queryflow/pkg/plugins/rowlimit"
	"github.com/spf13/cobra"

	// Database drivers selectable via database.driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb"
	_ "modernc.org/sqlite"
)

// ConfigKey is the context key the root command stores the loaded
// configuration under.
type ConfigKey struct{}

// configFromContext returns the configuration loaded by the root command.
func configFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(ConfigKey{}).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

// driverNames maps config driver names to registered database/sql drivers.
var driverNames = map[string]string{
	"sqlite":   "sqlite",
	"duckdb":   "duckdb",
	"postgres": "pgx",
}

// dialectFor returns the dialect configuration for a config driver name.
func dialectFor(driver string) *core.DialectConfig {
	d := &core.DialectConfig{Name: driver}
	if driver == "postgres" {
		d.Placeholder = core.PlaceholderDollar
	}
	return d
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec [SQL]",
		Short: "Execute a SQL statement through the plugin pipeline",
		Long: `Execute a SQL statement against the configured database.

The statement runs as a raw query through the full execution pipeline:
configured plugins transform the query and its result rows. Reads the
statement from the argument, --input, or stdin.`,
		Example: `  # Execute SQL directly
  queryflow exec "SELECT * FROM users"

  # Output as JSON
  queryflow exec "SELECT * FROM users" --output json

  # Against a file-backed sqlite database
  queryflow exec --database.dsn app.db "SELECT count(*) FROM events"`,
		RunE: runExec,
	}

	cmd.Flags().StringP("input", "i", "", "Read SQL from file")

	return cmd
}

func runExec(cmd *cobra.Command, args []string) error {
	cfg, err := configFromContext(cmd.Context())
	if err != nil {
		return err
	}

	stmt, err := readStatement(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(stmt) == "" {
		return fmt.Errorf("no SQL statement provided")
	}

	logger := slog.New(slog.DiscardHandler)
	if cfg.Verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	db, err := sql.Open(driverNames[cfg.Database.Driver], cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx := cmd.Context()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", cfg.Database.Driver, err)
	}

	exec := newExecutor(cfg, db, logger)

	queryID := core.NewQueryID()
	compiled, err := exec.CompileQuery(ctx, &core.RawNode{SQL: stmt}, queryID)
	if err != nil {
		return fmt.Errorf("failed to compile query: %w", err)
	}
	result, err := exec.ExecuteQuery(ctx, compiled, queryID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	return renderResult(cmd.OutOrStdout(), result, cfg.OutputFormat)
}

// newExecutor assembles the execution pipeline from the configuration.
func newExecutor(cfg *config.Config, db *sql.DB, logger *slog.Logger) *executor.Executor {
	dialect := dialectFor(cfg.Database.Driver)
	provider := conn.NewDriverProvider(conn.NewSQLDriver(db, logger), logger)

	var plugins []core.Plugin
	switch cfg.Plugins.IdentifierCase {
	case "upper":
		plugins = append(plugins, normalize.New(normalize.Upper))
	case "lower":
		plugins = append(plugins, normalize.New(normalize.Lower))
	}
	if cfg.Plugins.RowLimit > 0 {
		plugins = append(plugins, rowlimit.New(cfg.Plugins.RowLimit))
	}

	return executor.New(compiler.New(dialect), dialect, provider, plugins...).WithLogger(logger)
}

// readStatement determines the SQL source: argument, --input file, or stdin.
func readStatement(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		content, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(content), nil
	}
	if f, ok := cmd.InOrStdin().(*os.File); !ok || !isTerminal(f) {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(content), nil
	}
	return "", fmt.Errorf("no SQL statement provided (pass as argument, --input, or stdin)")
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
