// Package core defines the shared language of the queryflow system.
//
// This package contains:
//   - The operation tree (Node, Kind, concrete statement nodes)
//   - The Plugin contract
//   - Execution values (QueryID, CompiledQuery, Result)
//   - Dialect configuration (DialectConfig)
//   - Shared error types (StructuralViolationError)
//
// The Golden Rule: pkg/core imports ONLY stdlib plus the uuid and
// mapstructure value helpers. All other packages depend on core, not
// the reverse.
package core
