package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/pokeshop-api/pkg/db"
	"github.com/angelmondragon/pokeshop-api/pkg/db/dbtest"
	"github.com/angelmondragon/pokeshop-api/pkg/sqlbuild"
)

func seedOrder(t *testing.T, client *db.Client, userID int64) {
	t.Helper()
	_, err := client.Exec(context.Background(),
		`INSERT INTO orders (price, date, user_id) VALUES ($1, $2, $3)`, "12.50", "2024-01-02", userID)
	require.NoError(t, err)
}

func TestRepositoryCreateAndFind(t *testing.T) {
	client := dbtest.OpenSQLite(t)
	repo := NewRepository(client)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{FirstName: "Ash", LastName: "Ketchum", Age: 18})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.Active)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = repo.FindByID(ctx, created.ID+1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	ok, err := repo.Exists(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, created.ID+1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepositoryListEmptyIsNotNil(t *testing.T) {
	repo := NewRepository(dbtest.OpenSQLite(t))
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestRepositoryUpdateTouchesOnlySuppliedColumns(t *testing.T) {
	repo := NewRepository(dbtest.OpenSQLite(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{FirstName: "Gary", LastName: "Oak", Age: 19})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, map[string]any{"age": int64(25)})
	require.NoError(t, err)
	assert.Equal(t, int64(25), updated.Age)
	assert.Equal(t, "Gary", updated.FirstName)
	assert.Equal(t, "Oak", updated.LastName)

	_, err = repo.Update(ctx, created.ID+10, map[string]any{"age": int64(30)})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.Update(ctx, created.ID, map[string]any{})
	assert.ErrorIs(t, err, sqlbuild.ErrNoFields)
}

func TestRepositoryDeactivate(t *testing.T) {
	client := dbtest.OpenSQLite(t)
	repo := NewRepository(client)
	ctx := context.Background()

	idle, err := repo.Create(ctx, CreateUserDTO{FirstName: "Idle", LastName: "User", Age: 40})
	require.NoError(t, err)
	busy, err := repo.Create(ctx, CreateUserDTO{FirstName: "Busy", LastName: "User", Age: 41})
	require.NoError(t, err)
	seedOrder(t, client, busy.ID)

	require.NoError(t, repo.Deactivate(ctx, idle.ID))
	reloaded, err := repo.FindByID(ctx, idle.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Active)

	assert.ErrorIs(t, repo.Deactivate(ctx, busy.ID), gorm.ErrRecordNotFound)
	reloaded, err = repo.FindByID(ctx, busy.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Active)

	assert.ErrorIs(t, repo.Deactivate(ctx, 9999), gorm.ErrRecordNotFound)
}

func TestRepositoryDelete(t *testing.T) {
	client := dbtest.OpenSQLite(t)
	repo := NewRepository(client)
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{FirstName: "Del", LastName: "Eted", Age: 30})
	require.NoError(t, err)
	owner, err := repo.Create(ctx, CreateUserDTO{FirstName: "Has", LastName: "Orders", Age: 30})
	require.NoError(t, err)
	seedOrder(t, client, owner.ID)

	require.NoError(t, repo.Delete(ctx, user.ID))
	assert.ErrorIs(t, repo.Delete(ctx, user.ID), gorm.ErrRecordNotFound)

	err = repo.Delete(ctx, owner.ID)
	require.Error(t, err)
	assert.True(t, db.IsForeignKeyViolation(err), err.Error())
}

func TestRepositoryAgainstPostgres(t *testing.T) {
	client := dbtest.OpenPostgres(t)
	repo := NewRepository(client)
	ctx := context.Background()

	err := client.WithTx(ctx, func(tx db.Gateway) error {
		txRepo := NewRepository(tx)
		created, err := txRepo.Create(ctx, CreateUserDTO{FirstName: "Pg", LastName: "Test", Age: 21})
		if err != nil {
			return err
		}
		updated, err := txRepo.Update(ctx, created.ID, map[string]any{"first_name": "Pg2"})
		if err != nil {
			return err
		}
		assert.Equal(t, "Pg2", updated.FirstName)
		return errRollback
	})
	assert.ErrorIs(t, err, errRollback)

	_, err = repo.List(ctx)
	require.NoError(t, err)
}
