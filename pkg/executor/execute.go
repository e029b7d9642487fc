package executor

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/queryflow/pkg/conn"
	"github.com/leapstack-labs/queryflow/pkg/core"
)

// CompileQuery runs the query transform chain over node and compiles the
// transformed tree into an executable statement.
func (e *Executor) CompileQuery(ctx context.Context, node core.Node, queryID core.QueryID) (core.CompiledQuery, error) {
	if e.compiler == nil {
		return core.CompiledQuery{}, fmt.Errorf("executor has no compiler configured")
	}
	transformed, err := e.TransformQuery(ctx, node, queryID)
	if err != nil {
		return core.CompiledQuery{}, err
	}
	return e.compiler.Compile(transformed)
}

// ExecuteQuery runs the compiled statement on a provisioned connection
// and pushes the raw result through the result transform chain.
//
// The connection is held for exactly the duration of the call: the
// provider releases it on every exit path. Any failure in acquisition,
// execution, or a result transform is intercepted exactly once here and
// re-raised with its diagnostic trace extended; nothing is retried,
// suppressed, or reclassified, and no partially transformed result is
// ever returned.
func (e *Executor) ExecuteQuery(ctx context.Context, compiled core.CompiledQuery, queryID core.QueryID) (core.Result, error) {
	if e.provider == nil {
		return core.Result{}, fmt.Errorf("executor has no connection provider configured")
	}

	e.logger.Debug("executing query", "query_id", queryID.String(), "sql", compiled.SQL)

	var result core.Result
	err := e.provider.WithConnection(ctx, func(ctx context.Context, c conn.Connection) error {
		raw, err := c.ExecuteQuery(ctx, compiled)
		if err != nil {
			return err
		}
		transformed, err := e.TransformResult(ctx, raw, queryID)
		if err != nil {
			return err
		}
		result = transformed
		return nil
	})
	if err != nil {
		return core.Result{}, extendStackTrace(err)
	}
	return result, nil
}

// Query compiles and executes node end to end under a fresh QueryID and
// decodes the resulting rows into T. This is the convenience path for
// callers that do not need to correlate the compile and execute phases
// themselves.
func Query[T any](ctx context.Context, e *Executor, node core.Node) ([]T, error) {
	queryID := core.NewQueryID()
	compiled, err := e.CompileQuery(ctx, node, queryID)
	if err != nil {
		return nil, err
	}
	result, err := e.ExecuteQuery(ctx, compiled, queryID)
	if err != nil {
		return nil, err
	}
	return core.DecodeRows[T](result)
}
