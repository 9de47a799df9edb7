package pokemon

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/pokeshop-api/pkg/db"
	"github.com/angelmondragon/pokeshop-api/pkg/db/models"
)

// Repository reads the pokemon reference table. Upsert exists for the importer only.
type Repository interface {
	List(ctx context.Context) ([]models.Pokemon, error)
	FindByID(ctx context.Context, id int64) (*models.Pokemon, error)
	Upsert(ctx context.Context, p models.Pokemon) error
}

type repository struct {
	db db.Gateway
}

func NewRepository(gateway db.Gateway) Repository {
	return &repository{db: gateway}
}

func (r *repository) List(ctx context.Context) ([]models.Pokemon, error) {
	list := []models.Pokemon{}
	if _, err := r.db.Query(ctx, &list, `SELECT `+models.PokemonColumns+` FROM pokemon ORDER BY id`); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Pokemon, error) {
	var p models.Pokemon
	n, err := r.db.Query(ctx, &p, `SELECT `+models.PokemonColumns+` FROM pokemon WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

const upsertSQL = `INSERT INTO pokemon (` + models.PokemonColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
	name = excluded.name,
	type = excluded.type,
	secondary_type = excluded.secondary_type,
	hp = excluded.hp,
	attack = excluded.attack,
	defense = excluded.defense,
	sp_attack = excluded.sp_attack,
	sp_defense = excluded.sp_defense,
	speed = excluded.speed`

func (r *repository) Upsert(ctx context.Context, p models.Pokemon) error {
	_, err := r.db.Exec(ctx, upsertSQL,
		p.ID, p.Name, p.Type, p.SecondaryType,
		p.HP, p.Attack, p.Defense, p.SpAttack, p.SpDefense, p.Speed,
	)
	return err
}
