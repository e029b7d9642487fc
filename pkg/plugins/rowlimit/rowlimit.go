// Package rowlimit provides a plugin that caps the number of rows a
// SELECT may return by injecting or tightening the LIMIT clause.
package rowlimit

import (
	"context"

	"github.com/leapstack-labs/queryflow/pkg/core"
)

// Plugin caps SELECT row counts. Nodes of other kinds pass through
// untouched, as do selects whose existing limit is already within the cap.
type Plugin struct {
	max int64
}

// New creates a row limit plugin with the given cap.
func New(max int64) *Plugin {
	return &Plugin{max: max}
}

// TransformQuery implements core.Plugin.
func (p *Plugin) TransformQuery(_ context.Context, node core.Node, _ core.QueryID) (core.Node, error) {
	sel, ok := node.(*core.SelectNode)
	if !ok {
		return node, nil
	}
	if sel.Limit != nil && *sel.Limit <= p.max {
		return node, nil
	}
	capped := *sel
	capped.Limit = core.Int64(p.max)
	return &capped, nil
}

// TransformResult implements core.Plugin. Results pass through unchanged.
func (p *Plugin) TransformResult(_ context.Context, result core.Result, _ core.QueryID) (core.Result, error) {
	return result, nil
}
