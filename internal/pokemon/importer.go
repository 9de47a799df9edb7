package pokemon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/angelmondragon/pokeshop-api/pkg/db"
	"github.com/angelmondragon/pokeshop-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pokeshop-api/pkg/errors"
)

// PokedexEntry is one element of a pokedex.json file.
type PokedexEntry struct {
	ID   int64 `json:"id"`
	Name struct {
		English string `json:"english"`
	} `json:"name"`
	Type []string `json:"type"`
	Base struct {
		HP        int64 `json:"HP"`
		Attack    int64 `json:"Attack"`
		Defense   int64 `json:"Defense"`
		SpAttack  int64 `json:"Sp. Attack"`
		SpDefense int64 `json:"Sp. Defense"`
		Speed     int64 `json:"Speed"`
	} `json:"base"`
}

// TxRunner runs fn inside one transaction. *db.Client satisfies it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx db.Gateway) error) error
}

// ParsePokedex decodes a pokedex array and converts it to rows. Entries without an id,
// an English name or a type are rejected.
func ParsePokedex(r io.Reader) ([]models.Pokemon, error) {
	var entries []PokedexEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode pokedex: %w", err)
	}

	rows := make([]models.Pokemon, 0, len(entries))
	for i, e := range entries {
		name := strings.TrimSpace(e.Name.English)
		if e.ID <= 0 || name == "" || len(e.Type) == 0 {
			return nil, fmt.Errorf("pokedex entry %d is incomplete (id=%d)", i, e.ID)
		}
		row := models.Pokemon{
			ID:        e.ID,
			Name:      name,
			Type:      e.Type[0],
			HP:        e.Base.HP,
			Attack:    e.Base.Attack,
			Defense:   e.Base.Defense,
			SpAttack:  e.Base.SpAttack,
			SpDefense: e.Base.SpDefense,
			Speed:     e.Base.Speed,
		}
		if len(e.Type) > 1 {
			secondary := e.Type[1]
			row.SecondaryType = &secondary
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Import upserts rows in a single transaction and returns how many were written.
func Import(ctx context.Context, runner TxRunner, rows []models.Pokemon) (int, error) {
	written := 0
	err := runner.WithTx(ctx, func(tx db.Gateway) error {
		repo := NewRepository(tx)
		for _, row := range rows {
			if err := repo.Upsert(ctx, row); err != nil {
				if db.IsUniqueViolation(err, "") {
					return pkgerrors.Wrap(pkgerrors.CodeConflict, err,
						fmt.Sprintf("pokemon %d: name %q belongs to another id", row.ID, row.Name))
				}
				return fmt.Errorf("upsert pokemon %d: %w", row.ID, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}
