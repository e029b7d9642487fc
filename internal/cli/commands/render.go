package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/queryflow/pkg/core"
)

// renderResult writes a query result as a table or JSON.
func renderResult(w io.Writer, result core.Result, format string) error {
	if len(result.Rows) == 0 {
		if result.NumAffectedRows != nil {
			_, err := fmt.Fprintf(w, "%d row(s) affected\n", *result.NumAffectedRows)
			return err
		}
		if format == "json" {
			_, err := fmt.Fprintln(w, "[]")
			return err
		}
		_, err := fmt.Fprintln(w, "no rows")
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Rows)
	}

	cols := columnNames(result.Rows)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, row := range result.Rows {
		out := make(table.Row, len(cols))
		for i, c := range cols {
			out[i] = row[c]
		}
		t.AppendRow(out)
	}

	t.Render()
	_, err := fmt.Fprintf(w, "(%d rows)\n", len(result.Rows))
	return err
}

// columnNames returns the sorted union of column names across all rows.
// Plugins can add or drop columns per row, so the union keeps the
// rendering stable.
func columnNames(rows []core.Row) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, row := range rows {
		for c := range row {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	sort.Strings(cols)
	return cols
}
