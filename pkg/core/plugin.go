package core

import "context"

// Plugin is a paired transform capability over query trees and result
// sets. Plugins are held by an executor in an ordered, immutable
// sequence; identity and registration order are significant.
//
// TransformQuery must return a node of the same Kind it received.
// Transforms may rewrite subtrees freely, but the node's fundamental
// category is fixed; the executor enforces this and fails the execution
// with a StructuralViolationError on a mismatch.
//
// TransformResult has no structural constraint: result shape is
// intentionally plugin-mutable (e.g., to parse or rename column values).
//
// Both methods receive the QueryID that scopes the logical execution, so
// a plugin can correlate the two phases of one query.
type Plugin interface {
	TransformQuery(ctx context.Context, node Node, queryID QueryID) (Node, error)
	TransformResult(ctx context.Context, result Result, queryID QueryID) (Result, error)
}
