package pokemon

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/pokeshop-api/pkg/db"
	pkgerrors "github.com/angelmondragon/pokeshop-api/pkg/errors"
)

// Service exposes read access to the reference data.
type Service interface {
	List(ctx context.Context) ([]PokemonDTO, error)
	Get(ctx context.Context, id int64) (*PokemonDTO, error)
	// Info returns {key: value}. Unknown keys fail before the store is read; zero and
	// null values are valid answers.
	Info(ctx context.Context, id int64, key string) (map[string]any, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pokemon repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]PokemonDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, db.WrapStoreError(err, "list pokemon")
	}
	return FromModels(list), nil
}

func (s *service) Get(ctx context.Context, id int64) (*PokemonDTO, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("pokemon")
		}
		return nil, db.WrapStoreError(err, "load pokemon")
	}
	return FromModel(p), nil
}

func (s *service) Info(ctx context.Context, id int64, key string) (map[string]any, error) {
	project, ok := infoFields[key]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid info type").
			WithDetails(map[string]any{"field": "info", "allowed": InfoKeys()})
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]any{key: project(p)}, nil
}
