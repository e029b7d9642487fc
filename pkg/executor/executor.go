// Package executor orchestrates query execution: it runs the plugin
// transform chain over an operation tree, compiles the tree, executes
// the compiled statement on a provisioned connection, and runs the same
// plugin chain over the returned rows.
//
// An Executor is immutable after construction. The With* methods derive
// new executors with a changed plugin sequence or connection source; the
// receiver is never modified, so one executor can serve concurrent
// executions safely.
package executor

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/queryflow/pkg/compiler"
	"github.com/leapstack-labs/queryflow/pkg/conn"
	"github.com/leapstack-labs/queryflow/pkg/core"
)

// Executor composes a compiler, a dialect adapter, a connection
// provider, and an ordered plugin sequence into one execution pipeline.
type Executor struct {
	compiler compiler.Compiler
	adapter  *core.DialectConfig
	provider conn.ConnectionProvider
	plugins  []core.Plugin
	logger   *slog.Logger
}

// New creates an executor. The compiler and adapter are shared by every
// executor derived from this one; plugins run in the order given.
func New(c compiler.Compiler, adapter *core.DialectConfig, provider conn.ConnectionProvider, plugins ...core.Plugin) *Executor {
	return &Executor{
		compiler: c,
		adapter:  adapter,
		provider: provider,
		plugins:  clonePlugins(plugins),
		logger:   slog.New(slog.DiscardHandler),
	}
}

// Adapter returns the dialect adapter. The executor never inspects it;
// it only forwards it to the compiler and to derived instances.
func (e *Executor) Adapter() *core.DialectConfig { return e.adapter }

// Plugins returns a copy of the plugin sequence in registration order.
func (e *Executor) Plugins() []core.Plugin { return clonePlugins(e.plugins) }

// WithPlugin derives an executor with p appended to the end of the
// plugin sequence.
func (e *Executor) WithPlugin(p core.Plugin) *Executor {
	d := e.clone()
	d.plugins = append(clonePlugins(e.plugins), p)
	return d
}

// WithPluginAtFront derives an executor with p at the front of the
// plugin sequence, so it runs before every existing plugin.
func (e *Executor) WithPluginAtFront(p core.Plugin) *Executor {
	d := e.clone()
	d.plugins = append([]core.Plugin{p}, e.plugins...)
	return d
}

// WithPlugins derives an executor whose plugin sequence is replaced
// wholesale by the given plugins.
func (e *Executor) WithPlugins(plugins ...core.Plugin) *Executor {
	d := e.clone()
	d.plugins = clonePlugins(plugins)
	return d
}

// WithoutPlugins derives an executor with an empty plugin sequence.
func (e *Executor) WithoutPlugins() *Executor {
	d := e.clone()
	d.plugins = nil
	return d
}

// WithConnectionProvider derives an executor bound to a different
// connection source. Used when entering a transactional scope: the
// transaction's single connection replaces the pooled provider for the
// duration of the scope.
func (e *Executor) WithConnectionProvider(p conn.ConnectionProvider) *Executor {
	d := e.clone()
	d.provider = p
	return d
}

// WithLogger derives an executor that logs through l.
func (e *Executor) WithLogger(l *slog.Logger) *Executor {
	d := e.clone()
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	d.logger = l
	return d
}

func (e *Executor) clone() *Executor {
	d := *e
	return &d
}

func clonePlugins(plugins []core.Plugin) []core.Plugin {
	if len(plugins) == 0 {
		return nil
	}
	out := make([]core.Plugin, len(plugins))
	copy(out, plugins)
	return out
}

// pluginName identifies a plugin in error messages by its concrete type.
func pluginName(p core.Plugin) string {
	return fmt.Sprintf("%T", p)
}
