package executor

import (
	"context"

	"github.com/leapstack-labs/queryflow/pkg/core"
)

// TransformQuery threads the operation tree through every plugin's query
// transform, in registration order. Each plugin receives the previous
// plugin's output.
//
// After every step the returned node's kind is checked against the kind
// it went in with. On a mismatch the chain stops immediately and returns
// a StructuralViolationError naming the offending plugin; no later
// plugin runs and the caller never sees the partial tree.
func (e *Executor) TransformQuery(ctx context.Context, node core.Node, queryID core.QueryID) (core.Node, error) {
	for _, p := range e.plugins {
		before := node.Kind()

		transformed, err := p.TransformQuery(ctx, node, queryID)
		if err != nil {
			return nil, err
		}

		var actual core.Kind
		if transformed != nil {
			actual = transformed.Kind()
		}
		if transformed == nil || actual != before {
			return nil, &core.StructuralViolationError{
				Plugin:   pluginName(p),
				Expected: before,
				Actual:   actual,
			}
		}
		node = transformed
	}
	return node, nil
}

// TransformResult threads a query result through every plugin's result
// transform, in the same registration order as TransformQuery (not
// reversed). No structural check applies: result shape is intentionally
// plugin-mutable, e.g. to parse or rename column values.
func (e *Executor) TransformResult(ctx context.Context, result core.Result, queryID core.QueryID) (core.Result, error) {
	for _, p := range e.plugins {
		transformed, err := p.TransformResult(ctx, result, queryID)
		if err != nil {
			return core.Result{}, err
		}
		result = transformed
	}
	return result, nil
}
