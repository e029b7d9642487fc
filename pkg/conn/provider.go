// Package conn provides the connection provisioning contracts and
// implementations for queryflow's query executor.
//
// This package contains the public contract every connection source must
// implement (ConnectionProvider), plus drivers backed by database/sql
// and pgx. The executor acquires a connection for exactly the duration
// of one unit of work and never holds one across calls.
package conn

import (
	"context"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/queryflow/pkg/core"
)

// Connection is a live database connection capable of executing one
// compiled query at a time.
type Connection interface {
	// ExecuteQuery runs the compiled statement and returns its result.
	ExecuteQuery(ctx context.Context, compiled core.CompiledQuery) (core.Result, error)
}

// Consumer is a unit of work that receives a live connection. Whatever
// the consumer produces is carried out through the closure it was built
// from; its error return propagates back through WithConnection.
type Consumer func(ctx context.Context, c Connection) error

// ConnectionProvider hands a live connection to a consumer for exactly
// the duration of that consumer.
//
// Implementations are responsible for acquisition and guaranteed release
// around exactly one consumer invocation: the connection is released on
// every exit path, including consumer failure and context cancellation.
// A connection must never leak across calls.
type ConnectionProvider interface {
	WithConnection(ctx context.Context, consumer Consumer) error
}

// ProviderFunc adapts a plain function to the ConnectionProvider interface.
type ProviderFunc func(ctx context.Context, consumer Consumer) error

// WithConnection implements ConnectionProvider.
func (f ProviderFunc) WithConnection(ctx context.Context, consumer Consumer) error {
	return f(ctx, consumer)
}

// Driver is a connection source a DriverProvider acquires from and
// releases to (a pool, a single socket, a test double).
type Driver interface {
	AcquireConnection(ctx context.Context) (Connection, error)
	ReleaseConnection(ctx context.Context, c Connection) error
}

// DriverProvider is the standard ConnectionProvider: it checks a
// connection out of a Driver, runs the consumer, and checks the
// connection back in no matter how the consumer exits.
type DriverProvider struct {
	driver Driver
	logger *slog.Logger
}

// NewDriverProvider creates a provider backed by the given driver.
// A nil logger discards log output.
func NewDriverProvider(driver Driver, logger *slog.Logger) *DriverProvider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DriverProvider{driver: driver, logger: logger}
}

// WithConnection implements ConnectionProvider.
func (p *DriverProvider) WithConnection(ctx context.Context, consumer Consumer) (err error) {
	c, err := p.driver.AcquireConnection(ctx)
	if err != nil {
		return err
	}
	p.logger.Debug("acquired connection")

	defer func() {
		releaseErr := p.driver.ReleaseConnection(ctx, c)
		p.logger.Debug("released connection")
		if err == nil {
			err = releaseErr
		}
	}()

	return consumer(ctx, c)
}

// SingleConnectionProvider pins one fixed connection and hands it to
// every consumer, serializing consumers so the connection is never
// shared. This is the provider an executor switches to when entering a
// transactional scope: the transaction's connection replaces the pooled
// source for the duration of the scope.
type SingleConnectionProvider struct {
	mu   sync.Mutex
	conn Connection
}

// NewSingleConnectionProvider creates a provider bound to one connection.
func NewSingleConnectionProvider(c Connection) *SingleConnectionProvider {
	return &SingleConnectionProvider{conn: c}
}

// WithConnection implements ConnectionProvider.
func (p *SingleConnectionProvider) WithConnection(ctx context.Context, consumer Consumer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return consumer(ctx, p.conn)
}
