package core

// Kind identifies the fundamental category of an operation tree node.
// The set of kinds is closed: every node in the tree reports exactly one
// of the constants below, and a query transform must hand back a node of
// the same kind it received.
type Kind string

// Kind constants for the closed node set.
const (
	KindSelect Kind = "select"
	KindInsert Kind = "insert"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
	KindRaw    Kind = "raw"
)

// Node is the base interface for all operation tree nodes.
//
// Nodes are treated as immutable values: a transform that wants to change
// a node derives a modified copy and returns it, leaving the input intact.
type Node interface {
	// Kind returns the node's category discriminant.
	Kind() Kind
}

// Condition is a single predicate in a WHERE clause. Multiple conditions
// on a node are combined with AND.
type Condition struct {
	Column string
	Op     string // =, <>, <, >, <=, >=, LIKE, IN
	Value  any
}

// OrderBy is a single ORDER BY item.
type OrderBy struct {
	Column string
	Desc   bool
}

// Assignment is a single SET item in an UPDATE.
type Assignment struct {
	Column string
	Value  any
}

// SelectNode represents a SELECT statement.
type SelectNode struct {
	From    string
	Columns []string // empty means SELECT *
	Where   []Condition
	OrderBy []OrderBy
	Limit   *int64
	Offset  *int64
}

// Kind implements Node.
func (*SelectNode) Kind() Kind { return KindSelect }

// InsertNode represents an INSERT statement.
type InsertNode struct {
	Table   string
	Columns []string
	Values  [][]any // one inner slice per row
}

// Kind implements Node.
func (*InsertNode) Kind() Kind { return KindInsert }

// UpdateNode represents an UPDATE statement.
type UpdateNode struct {
	Table string
	Set   []Assignment
	Where []Condition
}

// Kind implements Node.
func (*UpdateNode) Kind() Kind { return KindUpdate }

// DeleteNode represents a DELETE statement.
type DeleteNode struct {
	Table string
	Where []Condition
}

// Kind implements Node.
func (*DeleteNode) Kind() Kind { return KindDelete }

// RawNode represents a pre-written SQL fragment with positional arguments.
// Raw nodes pass through the compiler untouched apart from placeholder
// numbering.
type RawNode struct {
	SQL  string
	Args []any
}

// Kind implements Node.
func (*RawNode) Kind() Kind { return KindRaw }

// Int64 returns a pointer to v. Convenience for literal Limit/Offset values.
func Int64(v int64) *int64 { return &v }
