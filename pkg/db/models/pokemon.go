package models

// Pokemon is read-only reference data loaded by the pokedex importer.
type Pokemon struct {
	ID            int64   `gorm:"column:id;primaryKey"`
	Name          string  `gorm:"column:name;not null"`
	Type          string  `gorm:"column:type;not null"`
	SecondaryType *string `gorm:"column:secondary_type"`
	HP            int64   `gorm:"column:hp;not null"`
	Attack        int64   `gorm:"column:attack;not null"`
	Defense       int64   `gorm:"column:defense;not null"`
	SpAttack      int64   `gorm:"column:sp_attack;not null"`
	SpDefense     int64   `gorm:"column:sp_defense;not null"`
	Speed         int64   `gorm:"column:speed;not null"`
}

// PokemonColumns is the select list matching Pokemon.
const PokemonColumns = "id, name, type, secondary_type, hp, attack, defense, sp_attack, sp_defense, speed"
