// Package normalize provides a plugin that rewrites identifier case in
// the query tree and renames result row keys to match, so callers see a
// consistent casing regardless of how the query was written.
package normalize

import (
	"context"
	"strings"

	"github.com/leapstack-labs/queryflow/pkg/core"
)

// Case selects the normalization direction.
type Case int

const (
	// Upper rewrites identifiers to uppercase.
	Upper Case = iota
	// Lower rewrites identifiers to lowercase.
	Lower
)

// Plugin normalizes identifier case. The query phase rewrites column and
// table identifiers in the tree; the result phase renames row keys with
// the same rule, so the two phases stay consistent for one execution.
type Plugin struct {
	c Case
}

// New creates a case normalization plugin.
func New(c Case) *Plugin {
	return &Plugin{c: c}
}

func (p *Plugin) apply(s string) string {
	if p.c == Upper {
		return strings.ToUpper(s)
	}
	return strings.ToLower(s)
}

func (p *Plugin) applyAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = p.apply(s)
	}
	return out
}

func (p *Plugin) applyConditions(in []core.Condition) []core.Condition {
	if in == nil {
		return nil
	}
	out := make([]core.Condition, len(in))
	for i, c := range in {
		c.Column = p.apply(c.Column)
		out[i] = c
	}
	return out
}

// TransformQuery implements core.Plugin.
func (p *Plugin) TransformQuery(_ context.Context, node core.Node, _ core.QueryID) (core.Node, error) {
	switch n := node.(type) {
	case *core.SelectNode:
		sel := *n
		sel.From = p.apply(n.From)
		sel.Columns = p.applyAll(n.Columns)
		sel.Where = p.applyConditions(n.Where)
		if n.OrderBy != nil {
			sel.OrderBy = make([]core.OrderBy, len(n.OrderBy))
			for i, o := range n.OrderBy {
				o.Column = p.apply(o.Column)
				sel.OrderBy[i] = o
			}
		}
		return &sel, nil
	case *core.InsertNode:
		ins := *n
		ins.Table = p.apply(n.Table)
		ins.Columns = p.applyAll(n.Columns)
		return &ins, nil
	case *core.UpdateNode:
		upd := *n
		upd.Table = p.apply(n.Table)
		upd.Where = p.applyConditions(n.Where)
		if n.Set != nil {
			upd.Set = make([]core.Assignment, len(n.Set))
			for i, a := range n.Set {
				a.Column = p.apply(a.Column)
				upd.Set[i] = a
			}
		}
		return &upd, nil
	case *core.DeleteNode:
		del := *n
		del.Table = p.apply(n.Table)
		del.Where = p.applyConditions(n.Where)
		return &del, nil
	default:
		return node, nil
	}
}

// TransformResult implements core.Plugin.
func (p *Plugin) TransformResult(_ context.Context, result core.Result, _ core.QueryID) (core.Result, error) {
	if len(result.Rows) == 0 {
		return result, nil
	}
	rows := make([]core.Row, len(result.Rows))
	for i, row := range result.Rows {
		renamed := make(core.Row, len(row))
		for k, v := range row {
			renamed[p.apply(k)] = v
		}
		rows[i] = renamed
	}
	out := result
	out.Rows = rows
	return out, nil
}
