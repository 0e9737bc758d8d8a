package entities

import (
	"slices"
	"strings"
)

// PokemonType is one of the fixed elemental categories a pokemon can belong to
type PokemonType string

const (
	PokemonTypeGrass    PokemonType = "grass"
	PokemonTypeFire     PokemonType = "fire"
	PokemonTypeWater    PokemonType = "water"
	PokemonTypeElectric PokemonType = "electric"
	PokemonTypeRock     PokemonType = "rock"
	PokemonTypeGround   PokemonType = "ground"
	PokemonTypeIce      PokemonType = "ice"
	PokemonTypeBug      PokemonType = "bug"
	PokemonTypeNormal   PokemonType = "normal"
	PokemonTypePoison   PokemonType = "poison"
	PokemonTypePsychic  PokemonType = "psychic"
	PokemonTypeGhost    PokemonType = "ghost"
	PokemonTypeFighting PokemonType = "fighting"
	PokemonTypeFlying   PokemonType = "flying"
	PokemonTypeDragon   PokemonType = "dragon"
	PokemonTypeSteel    PokemonType = "steel"
	PokemonTypeFairy    PokemonType = "fairy"
)

// MaxTypes is the largest number of types a single pokemon may carry
const MaxTypes = 2

// ValidTypes lists every accepted pokemon type
var ValidTypes = []PokemonType{
	PokemonTypeGrass, PokemonTypeFire, PokemonTypeWater, PokemonTypeElectric,
	PokemonTypeRock, PokemonTypeGround, PokemonTypeIce, PokemonTypeBug,
	PokemonTypeNormal, PokemonTypePoison, PokemonTypePsychic, PokemonTypeGhost,
	PokemonTypeFighting, PokemonTypeFlying, PokemonTypeDragon, PokemonTypeSteel,
	PokemonTypeFairy,
}

// IsValidType reports whether t names a known pokemon type. The comparison is
// case-insensitive.
func IsValidType(t string) bool {
	return slices.Contains(ValidTypes, PokemonType(strings.ToLower(t)))
}

// Pokemon represents a single creature entry of the collection
type Pokemon struct {
	ID        int         `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Types     []string    `json:"types" db:"-"`
	URL       string      `json:"url" db:"url"`
	Category  string      `json:"category" db:"category"`
	Abilities []string    `json:"abilities" db:"-"`
	Height    Measurement `json:"height" db:"-"`
	Weight    Measurement `json:"weight" db:"-"`
}

// HasType reports whether the pokemon carries type t, ignoring case
func (p *Pokemon) HasType(t string) bool {
	for _, pt := range p.Types {
		if strings.EqualFold(pt, t) {
			return true
		}
	}
	return false
}

// Document is the whole persisted collection
type Document struct {
	Data []Pokemon `json:"data"`

	// TotalPokemons mirrors len(Data). It is recomputed by Normalize before
	// every write and after every read, never adjusted by hand.
	TotalPokemons int `json:"totalPokemons"`
}

// NewDocument builds a normalized document holding pokemons
func NewDocument(pokemons []Pokemon) *Document {
	doc := &Document{Data: pokemons}
	doc.Normalize()
	return doc
}

// Normalize restores the document invariants: Data is never nil and
// TotalPokemons equals len(Data).
func (d *Document) Normalize() {
	if d.Data == nil {
		d.Data = []Pokemon{}
	}
	for i := range d.Data {
		if d.Data[i].Types == nil {
			d.Data[i].Types = []string{}
		}
		if d.Data[i].Abilities == nil {
			d.Data[i].Abilities = []string{}
		}
	}
	d.TotalPokemons = len(d.Data)
}

// Total returns the number of pokemons held by the document
func (d *Document) Total() int {
	return len(d.Data)
}

// IndexOf returns the position of the pokemon with the given id or -1
func (d *Document) IndexOf(id int) int {
	return slices.IndexFunc(d.Data, func(p Pokemon) bool { return p.ID == id })
}

// Append adds a pokemon at the end of the collection
func (d *Document) Append(p Pokemon) {
	d.Data = append(d.Data, p)
	d.TotalPokemons = len(d.Data)
}

// RemoveAt deletes the pokemon at position i and returns it
func (d *Document) RemoveAt(i int) Pokemon {
	removed := d.Data[i]
	d.Data = slices.Delete(d.Data, i, i+1)
	d.TotalPokemons = len(d.Data)
	return removed
}

// LowerAll returns a lowercased copy of values
func LowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
