package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/pokeshop-api/pkg/config"
	pkgerrors "github.com/angelmondragon/pokeshop-api/pkg/errors"
)

type testRow struct {
	ID   int64  `gorm:"column:id"`
	Name string `gorm:"column:name"`
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, conn.Exec(`CREATE TABLE things (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL)`).Error)
	return Wrap(conn)
}

func TestQueryBindsPositionalPlaceholders(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	var created testRow
	n, err := client.Query(ctx, &created, `INSERT INTO things (name) VALUES ($1) RETURNING id, name`, "alpha")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "alpha", created.Name)

	var found testRow
	n, err = client.Query(ctx, &found, `SELECT id, name FROM things WHERE id = $1`, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, created, found)

	var missing testRow
	n, err = client.Query(ctx, &missing, `SELECT id, name FROM things WHERE id = $1`, created.ID+100)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestQueryIntoSliceCountsRows(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := client.Exec(ctx, `INSERT INTO things (name) VALUES ($1)`, name)
		require.NoError(t, err)
	}

	rows := []testRow{}
	n, err := client.Query(ctx, &rows, `SELECT id, name FROM things ORDER BY id`)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.Len(t, rows, 3)
	assert.Equal(t, "c", rows[2].Name)
}

func TestExecReportsAffectedRows(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.Exec(ctx, `INSERT INTO things (name) VALUES ($1), ($2)`, "x", "y")
	require.NoError(t, err)

	n, err := client.Exec(ctx, `UPDATE things SET name = $1 WHERE name = $2`, "z", "x")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = client.Exec(ctx, `DELETE FROM things WHERE id = $1`, 999)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExecSurfacesDriverErrors(t *testing.T) {
	client := newTestClient(t)
	_, err := client.Exec(context.Background(), `INSERT INTO missing_table (name) VALUES ($1)`, "x")
	require.Error(t, err)
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	err := client.WithTx(ctx, func(tx Gateway) error {
		_, err := tx.Exec(ctx, `INSERT INTO things (name) VALUES ($1)`, "committed")
		return err
	})
	require.NoError(t, err)

	err = client.WithTx(ctx, func(tx Gateway) error {
		if _, err := tx.Exec(ctx, `INSERT INTO things (name) VALUES ($1)`, "rolled"); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	var count int64
	_, err = client.Query(ctx, &count, `SELECT COUNT(*) FROM things`)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPing(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.Ping(context.Background()))
}

func TestNewWithSQLiteFeatureFlag(t *testing.T) {
	cfg := &config.Config{
		DB:           config.DBConfig{SQLitePath: "file::memory:", MaxOpenConns: 1},
		FeatureFlags: config.FeatureFlagsConfig{UseSQLite: true},
	}
	client, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()))
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), &config.Config{}, nil)
	require.Error(t, err)
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.True(t, IsForeignKeyViolation(errors.New(`ERROR: insert or update on table "orders" violates foreign key constraint "orders_user_id_fkey" (SQLSTATE 23503)`)))
	assert.False(t, IsForeignKeyViolation(errors.New("syntax error")))
	assert.False(t, IsForeignKeyViolation(nil))

	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: things.name"), ""))
	assert.True(t, IsUniqueViolation(errors.New("duplicate key value violates unique constraint \"pokemon_pkey\""), "pokemon_pkey"))
	assert.False(t, IsUniqueViolation(nil, ""))

	assert.True(t, IsTimeout(context.DeadlineExceeded))
	assert.False(t, IsTimeout(errors.New("other")))
}

func TestWrapStoreError(t *testing.T) {
	err := WrapStoreError(fmt.Errorf("query: %w", context.DeadlineExceeded), "load user")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeTimeout))

	err = WrapStoreError(errors.New("connection refused"), "load user")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
	assert.Contains(t, err.Error(), "connection refused")
}
