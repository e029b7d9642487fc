package core

import "github.com/google/uuid"

// QueryID is an opaque correlation token scoping one logical query
// execution. The same token is threaded through every plugin invocation
// so a plugin can correlate its query-transform call with the matching
// result-transform call (e.g., for caching or tracing).
//
// A QueryID is created once per execution, is immutable, and is never
// reused across executions.
type QueryID struct {
	id string
}

// NewQueryID returns a fresh, unique correlation token.
func NewQueryID() QueryID {
	return QueryID{id: uuid.NewString()}
}

// String returns the token's textual form.
func (q QueryID) String() string { return q.id }

// CompiledQuery is an opaque, already-compiled statement plus its
// parameters, produced by a Compiler from a (possibly plugin-transformed)
// operation tree. It is a value: nothing downstream mutates it.
type CompiledQuery struct {
	// SQL is the rendered statement text.
	SQL string
	// Args holds positional parameters matching the statement's placeholders.
	Args []any
	// Kind records the category of the node the statement was compiled from.
	Kind Kind
}
