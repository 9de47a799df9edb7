package pokemon

import "github.com/angelmondragon/pokeshop-api/pkg/db/models"

// PokemonDTO is the transport shape of a pokemon record.
type PokemonDTO struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	SecondaryType *string `json:"secondary_type"`
	HP            int64   `json:"hp"`
	Attack        int64   `json:"attack"`
	Defense       int64   `json:"defense"`
	SpAttack      int64   `json:"sp_attack"`
	SpDefense     int64   `json:"sp_defense"`
	Speed         int64   `json:"speed"`
}

// BaseStats groups the six stat columns for the "base" info key.
type BaseStats struct {
	HP        int64 `json:"hp"`
	Attack    int64 `json:"attack"`
	Defense   int64 `json:"defense"`
	SpAttack  int64 `json:"sp_attack"`
	SpDefense int64 `json:"sp_defense"`
	Speed     int64 `json:"speed"`
}

func FromModel(p *models.Pokemon) *PokemonDTO {
	if p == nil {
		return nil
	}
	return &PokemonDTO{
		ID:            p.ID,
		Name:          p.Name,
		Type:          p.Type,
		SecondaryType: p.SecondaryType,
		HP:            p.HP,
		Attack:        p.Attack,
		Defense:       p.Defense,
		SpAttack:      p.SpAttack,
		SpDefense:     p.SpDefense,
		Speed:         p.Speed,
	}
}

func FromModels(list []models.Pokemon) []PokemonDTO {
	out := make([]PokemonDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
