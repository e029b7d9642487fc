package executor

import (
	"context"
	"sync/atomic"

	"github.com/leapstack-labs/queryflow/pkg/conn"
	"github.com/leapstack-labs/queryflow/pkg/core"
)

// syncDriver is a goroutine-safe counting driver handing out a fresh
// connection per acquisition.
type syncDriver struct {
	acquired atomic.Int64
	released atomic.Int64
}

func (d *syncDriver) AcquireConnection(context.Context) (conn.Connection, error) {
	d.acquired.Add(1)
	return &fakeConnection{result: core.Result{Rows: []core.Row{{"n": 1}}}}, nil
}

func (d *syncDriver) ReleaseConnection(context.Context, conn.Connection) error {
	d.released.Add(1)
	return nil
}
