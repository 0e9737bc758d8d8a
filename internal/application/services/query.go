package services

import (
	"slices"
	"strconv"
	"strings"

	"github.com/pokedex/core/internal/domain/entities"
	"github.com/pokedex/core/internal/ports"
)

var allowedFilters = []string{ports.FilterSearch, ports.FilterType, ports.FilterPage, ports.FilterLimit}

// ParseFilter builds a list filter from raw query values. Keys whose value is
// empty are ignored before the allowed keys are checked.
func ParseFilter(values map[string][]string) (ports.PokemonFilter, error) {
	filter := ports.PokemonFilter{
		Page:  ports.DefaultPage,
		Limit: ports.DefaultLimit,
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		value := firstValue(values[key])
		if value == "" {
			continue
		}

		if !slices.Contains(allowedFilters, key) {
			return filter, entities.NewError(entities.KindUnsupportedFilter, "Query %s is not allowed", key)
		}

		var err error
		switch key {
		case ports.FilterSearch:
			filter.Search = value
		case ports.FilterType:
			filter.Type = value
		case ports.FilterPage:
			filter.Page, err = positiveInt(key, value)
		case ports.FilterLimit:
			filter.Limit, err = positiveInt(key, value)
		}
		if err != nil {
			return filter, err
		}
	}

	return filter, nil
}

func firstValue(values []string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func positiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return 0, entities.NewError(entities.KindValidation, "Query %s must be a positive integer", key)
	}
	return n, nil
}

// ApplyFilter narrows pokemons by search then type and returns the requested
// page. The result keeps the input order and is never nil.
func ApplyFilter(pokemons []entities.Pokemon, filter ports.PokemonFilter) []entities.Pokemon {
	result := pokemons

	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		result = keep(result, func(p *entities.Pokemon) bool {
			return strings.Contains(strings.ToLower(p.Name), search)
		})
	}

	if filter.Type != "" {
		result = keep(result, func(p *entities.Pokemon) bool {
			return p.HasType(filter.Type)
		})
	}

	return paginate(result, filter.Page, filter.Limit)
}

func keep(pokemons []entities.Pokemon, match func(p *entities.Pokemon) bool) []entities.Pokemon {
	out := []entities.Pokemon{}
	for i := range pokemons {
		if match(&pokemons[i]) {
			out = append(out, pokemons[i])
		}
	}
	return out
}

func paginate(pokemons []entities.Pokemon, page, limit int) []entities.Pokemon {
	if page <= 0 {
		page = ports.DefaultPage
	}
	if limit <= 0 {
		limit = ports.DefaultLimit
	}

	// compare before multiplying so huge page values cannot overflow
	if page-1 > len(pokemons)/limit {
		return []entities.Pokemon{}
	}
	start := (page - 1) * limit
	if start >= len(pokemons) {
		return []entities.Pokemon{}
	}
	end := min(start+limit, len(pokemons))

	return slices.Clone(pokemons[start:end])
}
