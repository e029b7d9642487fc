package conn

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/queryflow/pkg/core"
)

// SQLDriver is a Driver backed by a database/sql pool. Each acquisition
// checks a dedicated *sql.Conn out of the pool; release returns it.
// Works with any database/sql driver (sqlite, duckdb, pgx stdlib, mocks).
type SQLDriver struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// NewSQLDriver creates a driver over an open database/sql pool.
// A nil logger discards log output.
func NewSQLDriver(db *sql.DB, logger *slog.Logger) *SQLDriver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLDriver{DB: db, Logger: logger}
}

// AcquireConnection implements Driver.
func (d *SQLDriver) AcquireConnection(ctx context.Context) (Connection, error) {
	if d.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	c, err := d.DB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &sqlConnection{conn: c, logger: d.Logger}, nil
}

// ReleaseConnection implements Driver.
func (d *SQLDriver) ReleaseConnection(_ context.Context, c Connection) error {
	sc, ok := c.(*sqlConnection)
	if !ok {
		return fmt.Errorf("connection was not acquired from this driver")
	}
	return sc.conn.Close()
}

// sqlConnection adapts one checked-out *sql.Conn to the Connection contract.
type sqlConnection struct {
	conn   *sql.Conn
	logger *slog.Logger
}

// ExecuteQuery implements Connection. Statements compiled from select or
// raw nodes run through the row-returning path; all others run through
// Exec and report affected-row counts.
func (c *sqlConnection) ExecuteQuery(ctx context.Context, compiled core.CompiledQuery) (core.Result, error) {
	c.logger.Debug("executing query", "sql", compiled.SQL, "kind", string(compiled.Kind))

	switch compiled.Kind {
	case core.KindSelect, core.KindRaw:
		return c.queryRows(ctx, compiled)
	default:
		return c.exec(ctx, compiled)
	}
}

func (c *sqlConnection) queryRows(ctx context.Context, compiled core.CompiledQuery) (core.Result, error) {
	rows, err := c.conn.QueryContext(ctx, compiled.SQL, compiled.Args...)
	if err != nil {
		return core.Result{}, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return core.Result{}, fmt.Errorf("failed to read columns: %w", err)
	}

	var out []core.Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return core.Result{}, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(core.Row, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = vals[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return core.Result{}, fmt.Errorf("error iterating rows: %w", err)
	}

	return core.Result{Rows: out}, nil
}

func (c *sqlConnection) exec(ctx context.Context, compiled core.CompiledQuery) (core.Result, error) {
	res, err := c.conn.ExecContext(ctx, compiled.SQL, compiled.Args...)
	if err != nil {
		return core.Result{}, fmt.Errorf("failed to execute statement: %w", err)
	}

	var result core.Result
	if n, err := res.RowsAffected(); err == nil && n >= 0 {
		affected := uint64(n)
		result.NumAffectedRows = &affected
	}
	if compiled.Kind == core.KindInsert {
		if id, err := res.LastInsertId(); err == nil && id > 0 {
			insertID := uint64(id)
			result.InsertID = &insertID
		}
	}
	return result, nil
}
