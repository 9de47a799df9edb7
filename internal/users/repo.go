package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/pokeshop-api/pkg/db"
	"github.com/angelmondragon/pokeshop-api/pkg/db/models"
	"github.com/angelmondragon/pokeshop-api/pkg/sqlbuild"
)

// Updatable lists the columns PUT /users/{id} may touch, in SET order.
var Updatable = []string{"first_name", "last_name", "age"}

var updater = sqlbuild.NewUpdater("users", Updatable...)

// Repository exposes user persistence. Lookups that match nothing return gorm.ErrRecordNotFound.
type Repository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	Update(ctx context.Context, id int64, values map[string]any) (*models.User, error)
	Deactivate(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db db.Gateway
}

// NewRepository constructs a users repo bound to the provided gateway.
func NewRepository(gateway db.Gateway) Repository {
	return &repository{db: gateway}
}

func (r *repository) List(ctx context.Context) ([]models.User, error) {
	list := []models.User{}
	if _, err := r.db.Query(ctx, &list, `SELECT `+models.UserColumns+` FROM users ORDER BY id`); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	n, err := r.db.Query(ctx, &user, `SELECT `+models.UserColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if _, err := r.db.Query(ctx, &count, `SELECT COUNT(*) FROM users WHERE id = $1`, id); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	var user models.User
	_, err := r.db.Query(ctx, &user,
		`INSERT INTO users (first_name, last_name, age) VALUES ($1, $2, $3) RETURNING `+models.UserColumns,
		dto.FirstName, dto.LastName, dto.Age,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update writes only the supplied columns. sqlbuild errors are returned unchanged.
func (r *repository) Update(ctx context.Context, id int64, values map[string]any) (*models.User, error) {
	stmt, err := updater.Build(id, values, models.UserColumns)
	if err != nil {
		return nil, err
	}

	var user models.User
	n, err := r.db.Query(ctx, &user, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

// Deactivate clears the active flag only while no order references the user.
func (r *repository) Deactivate(ctx context.Context, id int64) error {
	n, err := r.db.Exec(ctx,
		`UPDATE users SET active = false WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM orders WHERE user_id = $1)`,
		id,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	n, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
