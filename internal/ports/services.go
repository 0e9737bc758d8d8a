package ports

import (
	"context"

	"github.com/pokedex/core/internal/domain/entities"
)

// PokemonService defines the operations exposed over the collection
type PokemonService interface {
	List(ctx context.Context, filter PokemonFilter) ([]entities.Pokemon, error)
	Get(ctx context.Context, id int) (*PokemonDetail, error)
	Create(ctx context.Context, req CreatePokemonRequest) (*entities.Pokemon, error)
	Update(ctx context.Context, id int, req UpdatePokemonRequest) (*entities.Pokemon, error)
	Delete(ctx context.Context, id int) (*entities.Pokemon, error)
	Count(ctx context.Context) (int, error)
}

// Filter keys accepted by the list operation
const (
	FilterSearch = "search"
	FilterType   = "type"
	FilterPage   = "page"
	FilterLimit  = "limit"
)

// Pagination defaults
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PokemonFilter narrows and paginates a list query
type PokemonFilter struct {
	Search string
	Type   string
	Page   int
	Limit  int
}

// PokemonDetail is a single pokemon together with its neighbours
type PokemonDetail struct {
	Pokemon  entities.Pokemon `json:"pokemon"`
	Previous entities.Pokemon `json:"previousPokemon"`
	Next     entities.Pokemon `json:"nextPokemon"`
}

// Pokemon related types
type CreatePokemonRequest struct {
	ID    int      `json:"id" validate:"required,gt=0"`
	Name  string   `json:"name" validate:"required"`
	Types []string `json:"types" validate:"required,max=2,dive,pokemontype"`
	URL   string   `json:"url" validate:"required"`
}

type UpdatePokemonRequest struct {
	Name  string   `json:"name" validate:"required"`
	Types []string `json:"types" validate:"required,max=2,dive,pokemontype"`
	URL   string   `json:"url" validate:"required"`
}
