package conn

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leapstack-labs/queryflow/pkg/core"
)

// PgxDriver is a Driver backed by a native pgx connection pool. Use this
// instead of SQLDriver when talking to PostgreSQL directly; it avoids the
// database/sql indirection and keeps pgx-native type handling.
type PgxDriver struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
}

// NewPgxDriver creates a driver over an open pgx pool.
// A nil logger discards log output.
func NewPgxDriver(pool *pgxpool.Pool, logger *slog.Logger) *PgxDriver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PgxDriver{Pool: pool, Logger: logger}
}

// AcquireConnection implements Driver.
func (d *PgxDriver) AcquireConnection(ctx context.Context) (Connection, error) {
	if d.Pool == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	c, err := d.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &pgxConnection{conn: c, logger: d.Logger}, nil
}

// ReleaseConnection implements Driver.
func (d *PgxDriver) ReleaseConnection(_ context.Context, c Connection) error {
	pc, ok := c.(*pgxConnection)
	if !ok {
		return fmt.Errorf("connection was not acquired from this driver")
	}
	pc.conn.Release()
	return nil
}

// pgxConnection adapts one acquired pgxpool connection to the Connection
// contract.
type pgxConnection struct {
	conn   *pgxpool.Conn
	logger *slog.Logger
}

// ExecuteQuery implements Connection.
func (c *pgxConnection) ExecuteQuery(ctx context.Context, compiled core.CompiledQuery) (core.Result, error) {
	c.logger.Debug("executing query", "sql", compiled.SQL, "kind", string(compiled.Kind))

	switch compiled.Kind {
	case core.KindSelect, core.KindRaw:
		return c.queryRows(ctx, compiled)
	default:
		tag, err := c.conn.Exec(ctx, compiled.SQL, compiled.Args...)
		if err != nil {
			return core.Result{}, fmt.Errorf("failed to execute statement: %w", err)
		}
		affected := uint64(tag.RowsAffected())
		return core.Result{NumAffectedRows: &affected}, nil
	}
}

func (c *pgxConnection) queryRows(ctx context.Context, compiled core.CompiledQuery) (core.Result, error) {
	rows, err := c.conn.Query(ctx, compiled.SQL, compiled.Args...)
	if err != nil {
		return core.Result{}, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()

	var out []core.Row
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return core.Result{}, fmt.Errorf("failed to read row values: %w", err)
		}
		row := make(core.Row, len(fields))
		for i, f := range fields {
			row[f.Name] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return core.Result{}, fmt.Errorf("error iterating rows: %w", err)
	}

	return core.Result{Rows: out}, nil
}
