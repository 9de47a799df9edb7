package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/pokeshop-api/pkg/db"
	"github.com/angelmondragon/pokeshop-api/pkg/db/models"
	"github.com/angelmondragon/pokeshop-api/pkg/sqlbuild"
)

// Updatable lists the columns PUT /orders/{id} may touch, in SET order.
var Updatable = []string{"price", "date", "user_id"}

var updater = sqlbuild.NewUpdater("orders", Updatable...)

// Repository defines persistence operations for the orders table.
type Repository interface {
	List(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	Create(ctx context.Context, dto CreateOrderDTO) (*models.Order, error)
	Update(ctx context.Context, id int64, values map[string]any) (*models.Order, error)
	Delete(ctx context.Context, id int64) (*models.Order, error)
}

type repository struct {
	db db.Gateway
}

// NewRepository builds an orders repository bound to the provided gateway.
func NewRepository(gateway db.Gateway) Repository {
	return &repository{db: gateway}
}

func (r *repository) List(ctx context.Context) ([]models.Order, error) {
	list := []models.Order{}
	if _, err := r.db.Query(ctx, &list, `SELECT `+models.OrderColumns+` FROM orders ORDER BY id`); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	list := []models.Order{}
	if _, err := r.db.Query(ctx, &list,
		`SELECT `+models.OrderColumns+` FROM orders WHERE user_id = $1 ORDER BY id`, userID,
	); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	return r.one(ctx, `SELECT `+models.OrderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *repository) Create(ctx context.Context, dto CreateOrderDTO) (*models.Order, error) {
	var order models.Order
	_, err := r.db.Query(ctx, &order,
		`INSERT INTO orders (price, date, user_id) VALUES ($1, $2, $3) RETURNING `+models.OrderColumns,
		dto.Price, dto.Date, dto.UserID,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Update(ctx context.Context, id int64, values map[string]any) (*models.Order, error) {
	stmt, err := updater.Build(id, values, models.OrderColumns)
	if err != nil {
		return nil, err
	}
	return r.one(ctx, stmt.SQL, stmt.Args...)
}

// Delete removes the order and returns the row as it was.
func (r *repository) Delete(ctx context.Context, id int64) (*models.Order, error) {
	return r.one(ctx, `DELETE FROM orders WHERE id = $1 RETURNING `+models.OrderColumns, id)
}

func (r *repository) one(ctx context.Context, query string, args ...any) (*models.Order, error) {
	var order models.Order
	n, err := r.db.Query(ctx, &order, query, args...)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &order, nil
}
