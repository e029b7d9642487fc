package core

import (
	"fmt"
	"strings"
)

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data — no handler functions. The executor treats it as an
// opaque capability: it forwards the config to derived instances and to
// the compiler without inspecting it.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "sqlite", "postgres")
	Name string

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle

	// Quote is the identifier quote character (" by default)
	Quote string
}

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// FormatPlaceholder returns the placeholder text for the 1-based
// parameter position.
func (d *DialectConfig) FormatPlaceholder(position int) string {
	if d.Placeholder == PlaceholderDollar {
		return fmt.Sprintf("$%d", position)
	}
	return "?"
}

// QuoteIdentifier quotes an identifier using the dialect's quote
// character, doubling any embedded quotes.
func (d *DialectConfig) QuoteIdentifier(name string) string {
	q := d.Quote
	if q == "" {
		q = `"`
	}
	return q + strings.ReplaceAll(name, q, q+q) + q
}
