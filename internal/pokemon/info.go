package pokemon

import "sort"

// infoFields is the closed set of keys GET /pokemon/{id}/{info} answers. The key never
// reaches SQL; it only selects a projection of an already-loaded record.
var infoFields = map[string]func(p *PokemonDTO) any{
	"id":             func(p *PokemonDTO) any { return p.ID },
	"name":           func(p *PokemonDTO) any { return p.Name },
	"type":           func(p *PokemonDTO) any { return p.Type },
	"secondary_type": func(p *PokemonDTO) any { return p.SecondaryType },
	"types":          func(p *PokemonDTO) any { return typesOf(p) },
	"hp":             func(p *PokemonDTO) any { return p.HP },
	"attack":         func(p *PokemonDTO) any { return p.Attack },
	"defense":        func(p *PokemonDTO) any { return p.Defense },
	"sp_attack":      func(p *PokemonDTO) any { return p.SpAttack },
	"sp_defense":     func(p *PokemonDTO) any { return p.SpDefense },
	"speed":          func(p *PokemonDTO) any { return p.Speed },
	"base": func(p *PokemonDTO) any {
		return BaseStats{
			HP:        p.HP,
			Attack:    p.Attack,
			Defense:   p.Defense,
			SpAttack:  p.SpAttack,
			SpDefense: p.SpDefense,
			Speed:     p.Speed,
		}
	},
}

// IsInfoKey reports whether key is answerable.
func IsInfoKey(key string) bool {
	_, ok := infoFields[key]
	return ok
}

// InfoKeys lists the accepted keys, sorted.
func InfoKeys() []string {
	keys := make([]string, 0, len(infoFields))
	for k := range infoFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func typesOf(p *PokemonDTO) []string {
	out := []string{p.Type}
	if p.SecondaryType != nil && *p.SecondaryType != "" {
		out = append(out, *p.SecondaryType)
	}
	return out
}
