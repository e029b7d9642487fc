package core

import "fmt"

// StructuralViolationError is returned when a plugin's query transform
// hands back a node of a different kind than it received. The execution
// stops at the offending plugin; no later plugin runs and the caller
// never sees a partially transformed tree.
type StructuralViolationError struct {
	// Plugin identifies the offending plugin (its concrete type name).
	Plugin string
	// Expected is the node kind before the plugin ran.
	Expected Kind
	// Actual is the kind of the node the plugin returned.
	Actual Kind
}

func (e *StructuralViolationError) Error() string {
	return fmt.Sprintf("plugin %s changed the node kind: expected %q, got %q", e.Plugin, e.Expected, e.Actual)
}
