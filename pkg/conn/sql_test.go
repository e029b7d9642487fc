package conn

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/queryflow/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDriver(t *testing.T) (*SQLDriver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLDriver(db, nil), mock
}

func TestSQLDriver_AcquireAndRelease(t *testing.T) {
	driver, mock := newMockDriver(t)

	c, err := driver.AcquireConnection(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)

	require.NoError(t, driver.ReleaseConnection(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDriver_AcquireWithoutDB(t *testing.T) {
	driver := &SQLDriver{}
	_, err := driver.AcquireConnection(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not established")
}

func TestSQLDriver_ReleaseForeignConnection(t *testing.T) {
	driver, _ := newMockDriver(t)
	err := driver.ReleaseConnection(context.Background(), &stubConnection{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not acquired from this driver")
}

func TestSQLConnection_SelectRows(t *testing.T) {
	driver, mock := newMockDriver(t)
	mock.ExpectQuery("SELECT id, name FROM users").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "ada").
			AddRow(int64(2), []byte("grace")))

	c, err := driver.AcquireConnection(context.Background())
	require.NoError(t, err)
	defer func() { _ = driver.ReleaseConnection(context.Background(), c) }()

	result, err := c.ExecuteQuery(context.Background(), core.CompiledQuery{
		SQL:  "SELECT id, name FROM users WHERE id < ?",
		Args: []any{int64(10)},
		Kind: core.KindSelect,
	})
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, core.Row{"id": int64(1), "name": "ada"}, result.Rows[0])
	// []byte column values are surfaced as strings.
	assert.Equal(t, core.Row{"id": int64(2), "name": "grace"}, result.Rows[1])
	assert.Nil(t, result.NumAffectedRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLConnection_ExecReportsCounts(t *testing.T) {
	tests := []struct {
		name         string
		kind         core.Kind
		sql          string
		lastInsertID int64
		affected     int64
		wantInsertID *uint64
	}{
		{
			name:     "update reports affected rows",
			kind:     core.KindUpdate,
			sql:      "UPDATE users SET name = ?",
			affected: 3,
		},
		{
			name:         "insert reports insert id",
			kind:         core.KindInsert,
			sql:          "INSERT INTO users",
			lastInsertID: 7,
			affected:     1,
			wantInsertID: ptrUint64(7),
		},
		{
			name:     "delete reports affected rows",
			kind:     core.KindDelete,
			sql:      "DELETE FROM users",
			affected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, mock := newMockDriver(t)
			mock.ExpectExec(tt.sql).
				WillReturnResult(sqlmock.NewResult(tt.lastInsertID, tt.affected))

			c, err := driver.AcquireConnection(context.Background())
			require.NoError(t, err)
			defer func() { _ = driver.ReleaseConnection(context.Background(), c) }()

			result, err := c.ExecuteQuery(context.Background(), core.CompiledQuery{SQL: tt.sql, Kind: tt.kind})
			require.NoError(t, err)

			require.NotNil(t, result.NumAffectedRows)
			assert.Equal(t, uint64(tt.affected), *result.NumAffectedRows)
			assert.Equal(t, tt.wantInsertID, result.InsertID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLConnection_QueryError(t *testing.T) {
	driver, mock := newMockDriver(t)
	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	c, err := driver.AcquireConnection(context.Background())
	require.NoError(t, err)
	defer func() { _ = driver.ReleaseConnection(context.Background(), c) }()

	_, err = c.ExecuteQuery(context.Background(), core.CompiledQuery{SQL: "SELECT 1", Kind: core.KindSelect})
	require.ErrorIs(t, err, assert.AnError)
}

func TestDriverProvider_WithSQLDriver_ReleasesOnFailure(t *testing.T) {
	driver, mock := newMockDriver(t)
	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	p := NewDriverProvider(driver, nil)
	err := p.WithConnection(context.Background(), func(ctx context.Context, c Connection) error {
		_, execErr := c.ExecuteQuery(ctx, core.CompiledQuery{SQL: "SELECT 1", Kind: core.KindSelect})
		return execErr
	})
	require.ErrorIs(t, err, assert.AnError)

	// The pooled connection went back: a second unit of work still runs.
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	err = p.WithConnection(context.Background(), func(ctx context.Context, c Connection) error {
		_, execErr := c.ExecuteQuery(ctx, core.CompiledQuery{SQL: "SELECT 1", Kind: core.KindSelect})
		return execErr
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func ptrUint64(v uint64) *uint64 { return &v }
