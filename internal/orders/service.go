package orders

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/pokeshop-api/pkg/db"
	pkgerrors "github.com/angelmondragon/pokeshop-api/pkg/errors"
	"github.com/angelmondragon/pokeshop-api/pkg/sqlbuild"
)

// UserLookup reports whether a user id resolves. The users repository satisfies it.
type UserLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service defines the order operations exposed over HTTP.
type Service interface {
	List(ctx context.Context) ([]OrderDTO, error)
	ListByUser(ctx context.Context, userID int64) ([]OrderDTO, error)
	Get(ctx context.Context, id int64) (*OrderDTO, error)
	Create(ctx context.Context, input CreateOrderDTO) (*OrderDTO, error)
	Update(ctx context.Context, id int64, values map[string]any) (*OrderDTO, error)
	Delete(ctx context.Context, id int64) (*DeletedOrderDTO, error)
}

type service struct {
	repo  Repository
	users UserLookup
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, users UserLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user lookup required")
	}
	return &service{repo: repo, users: users}, nil
}

func (s *service) List(ctx context.Context) ([]OrderDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, db.WrapStoreError(err, "list orders")
	}
	return FromModels(list), nil
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]OrderDTO, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, db.WrapStoreError(err, "list user orders")
	}
	return FromModels(list), nil
}

func (s *service) Get(ctx context.Context, id int64) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("order")
		}
		return nil, db.WrapStoreError(err, "load order")
	}
	return FromModel(order), nil
}

func (s *service) Create(ctx context.Context, input CreateOrderDTO) (*OrderDTO, error) {
	if err := s.ensureUser(ctx, input.UserID); err != nil {
		return nil, err
	}
	order, err := s.repo.Create(ctx, input)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, unknownUser(input.UserID)
		}
		return nil, db.WrapStoreError(err, "create order")
	}
	return FromModel(order), nil
}

func (s *service) Update(ctx context.Context, id int64, values map[string]any) (*OrderDTO, error) {
	if raw, ok := values["user_id"]; ok {
		userID, _ := raw.(int64)
		if err := s.ensureUser(ctx, userID); err != nil {
			return nil, err
		}
	}

	order, err := s.repo.Update(ctx, id, values)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.NotFound("order")
		case errors.Is(err, sqlbuild.ErrNoFields):
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, sqlbuild.ErrNoFields.Error())
		case errors.Is(err, sqlbuild.ErrInvalidID), errors.Is(err, sqlbuild.ErrUnknownColumn):
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		case db.IsForeignKeyViolation(err):
			userID, _ := values["user_id"].(int64)
			return nil, unknownUser(userID)
		}
		return nil, db.WrapStoreError(err, "update order")
	}
	return FromModel(order), nil
}

func (s *service) Delete(ctx context.Context, id int64) (*DeletedOrderDTO, error) {
	order, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("order")
		}
		return nil, db.WrapStoreError(err, "delete order")
	}
	return &DeletedOrderDTO{Message: "order deleted", Order: *FromModel(order)}, nil
}

func (s *service) ensureUser(ctx context.Context, userID int64) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return db.WrapStoreError(err, "load order user")
	}
	if !ok {
		return unknownUser(userID)
	}
	return nil
}

func unknownUser(userID int64) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails([]map[string]any{{
			"field":   "user_id",
			"rule":    "exists",
			"message": fmt.Sprintf("user %d does not exist", userID),
		}})
}
