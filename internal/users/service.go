package users

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/pokeshop-api/pkg/db"
	pkgerrors "github.com/angelmondragon/pokeshop-api/pkg/errors"
	"github.com/angelmondragon/pokeshop-api/pkg/sqlbuild"
)

// Service defines the user operations exposed over HTTP.
type Service interface {
	List(ctx context.Context) ([]UserDTO, error)
	Get(ctx context.Context, id int64) (*UserDTO, error)
	Create(ctx context.Context, input CreateUserDTO) (*UserDTO, error)
	Update(ctx context.Context, id int64, values map[string]any) (*UserDTO, error)
	CheckInactive(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

// NewService builds a users service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, db.WrapStoreError(err, "list users")
	}
	return FromModels(list), nil
}

func (s *service) Get(ctx context.Context, id int64) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("user")
		}
		return nil, db.WrapStoreError(err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) Create(ctx context.Context, input CreateUserDTO) (*UserDTO, error) {
	user, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, db.WrapStoreError(err, "create user")
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, id int64, values map[string]any) (*UserDTO, error) {
	user, err := s.repo.Update(ctx, id, values)
	if err != nil {
		return nil, mapUpdateError(err, "user")
	}
	return FromModel(user), nil
}

func (s *service) CheckInactive(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found or already has orders")
		}
		return db.WrapStoreError(err, "deactivate user")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return pkgerrors.NotFound("user")
		case db.IsForeignKeyViolation(err):
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "user still has orders")
		}
		return db.WrapStoreError(err, "delete user")
	}
	return nil
}

func mapUpdateError(err error, resource string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.NotFound(resource)
	case errors.Is(err, sqlbuild.ErrNoFields):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, sqlbuild.ErrNoFields.Error())
	case errors.Is(err, sqlbuild.ErrInvalidID), errors.Is(err, sqlbuild.ErrUnknownColumn):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	return db.WrapStoreError(err, "update "+resource)
}
