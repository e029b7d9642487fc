package core

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Row is a single result row keyed by column name.
type Row = map[string]any

// Result is the outcome of executing one compiled query. Internally the
// row container is untyped: plugins jointly determine the final row
// shape, so rows stay generic until the caller converts them at the
// boundary with DecodeRows.
type Result struct {
	// Rows holds the returned rows, if the statement produced any.
	Rows []Row
	// NumAffectedRows is set for statements that report an affected-row
	// count (INSERT, UPDATE, DELETE). Nil when the driver does not report one.
	NumAffectedRows *uint64
	// InsertID is the last inserted row id, when the driver reports one.
	InsertID *uint64
}

// DecodeRows converts a result's rows into the caller's expected shape.
//
// This is the single, deliberate unchecked conversion at the result
// boundary: the transform chain cannot be statically verified against T,
// so the conversion trusts that the plugins jointly produced conforming
// rows and reports a decode error otherwise.
func DecodeRows[T any](result Result) ([]T, error) {
	out := make([]T, 0, len(result.Rows))
	for i, row := range result.Rows {
		var v T
		if err := mapstructure.Decode(row, &v); err != nil {
			return nil, fmt.Errorf("failed to decode row %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
