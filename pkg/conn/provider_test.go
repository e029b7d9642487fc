package conn

import (
	"context"
	"fmt"
	"testing"

	"github.com/leapstack-labs/queryflow/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConnection struct {
	result core.Result
	err    error
}

func (c *stubConnection) ExecuteQuery(context.Context, core.CompiledQuery) (core.Result, error) {
	return c.result, c.err
}

type stubDriver struct {
	conn       Connection
	acquireErr error
	releaseErr error
	acquired   int
	released   int
}

func (d *stubDriver) AcquireConnection(context.Context) (Connection, error) {
	if d.acquireErr != nil {
		return nil, d.acquireErr
	}
	d.acquired++
	return d.conn, nil
}

func (d *stubDriver) ReleaseConnection(context.Context, Connection) error {
	d.released++
	return d.releaseErr
}

func TestDriverProvider_WithConnection(t *testing.T) {
	tests := []struct {
		name        string
		driver      *stubDriver
		consumerErr error
		wantErr     error
		wantAcquire int
		wantRelease int
	}{
		{
			name:        "success",
			driver:      &stubDriver{conn: &stubConnection{}},
			wantAcquire: 1,
			wantRelease: 1,
		},
		{
			name:        "consumer failure still releases",
			driver:      &stubDriver{conn: &stubConnection{}},
			consumerErr: assert.AnError,
			wantErr:     assert.AnError,
			wantAcquire: 1,
			wantRelease: 1,
		},
		{
			name:    "acquire failure",
			driver:  &stubDriver{acquireErr: assert.AnError},
			wantErr: assert.AnError,
		},
		{
			name:        "release failure surfaces when consumer succeeded",
			driver:      &stubDriver{conn: &stubConnection{}, releaseErr: assert.AnError},
			wantErr:     assert.AnError,
			wantAcquire: 1,
			wantRelease: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewDriverProvider(tt.driver, nil)

			err := p.WithConnection(context.Background(), func(_ context.Context, c Connection) error {
				require.Same(t, tt.driver.conn, c)
				return tt.consumerErr
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantAcquire, tt.driver.acquired)
			assert.Equal(t, tt.wantRelease, tt.driver.released)
		})
	}
}

func TestDriverProvider_ConsumerErrorWinsOverReleaseError(t *testing.T) {
	consumerErr := fmt.Errorf("consumer boom")
	driver := &stubDriver{conn: &stubConnection{}, releaseErr: fmt.Errorf("release boom")}
	p := NewDriverProvider(driver, nil)

	err := p.WithConnection(context.Background(), func(context.Context, Connection) error {
		return consumerErr
	})
	require.ErrorIs(t, err, consumerErr)
	assert.Equal(t, 1, driver.released)
}

func TestSingleConnectionProvider_ReusesOneConnection(t *testing.T) {
	fixed := &stubConnection{}
	p := NewSingleConnectionProvider(fixed)

	for i := 0; i < 3; i++ {
		err := p.WithConnection(context.Background(), func(_ context.Context, c Connection) error {
			assert.Same(t, Connection(fixed), c)
			return nil
		})
		require.NoError(t, err)
	}
}

func TestSingleConnectionProvider_PropagatesConsumerError(t *testing.T) {
	p := NewSingleConnectionProvider(&stubConnection{})
	err := p.WithConnection(context.Background(), func(context.Context, Connection) error {
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
}

func TestProviderFunc_Adapts(t *testing.T) {
	called := false
	p := ProviderFunc(func(ctx context.Context, consumer Consumer) error {
		called = true
		return consumer(ctx, &stubConnection{})
	})

	err := p.WithConnection(context.Background(), func(context.Context, Connection) error { return nil })
	require.NoError(t, err)
	assert.True(t, called)
}
