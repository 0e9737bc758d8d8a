package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pokedex/core/internal/domain/entities"
	"github.com/pokedex/core/internal/infrastructure/logger"
	"github.com/pokedex/core/internal/ports"
)

// PokemonService handles pokemon-related operations
type PokemonService struct {
	store    ports.PokemonStore
	validate *validator.Validate
	logger   *logger.Logger
}

var _ ports.PokemonService = (*PokemonService)(nil)

// NewPokemonService creates a new pokemon service
func NewPokemonService(store ports.PokemonStore, logger *logger.Logger) *PokemonService {
	return &PokemonService{
		store:    store,
		validate: NewValidator(),
		logger:   logger.WithComponent("pokemon_service"),
	}
}

// List returns one page of the pokemons matching filter
func (s *PokemonService) List(ctx context.Context, filter ports.PokemonFilter) ([]entities.Pokemon, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pokemons: %w", err)
	}

	return ApplyFilter(doc.Data, filter), nil
}

// Get returns the pokemon with the given id along with its neighbours in id order
func (s *PokemonService) Get(ctx context.Context, id int) (*ports.PokemonDetail, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pokemon: %w", err)
	}

	index := newIDIndex(doc)
	position, ok := index.lookup(id)
	if !ok {
		return nil, entities.ErrNotFound(id)
	}

	return &ports.PokemonDetail{
		Pokemon:  doc.Data[position],
		Previous: doc.Data[index.previous(id)],
		Next:     doc.Data[index.next(id)],
	}, nil
}

// Create adds a new pokemon with a fabricated height and weight
func (s *PokemonService) Create(ctx context.Context, req ports.CreatePokemonRequest) (*entities.Pokemon, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	pokemon := entities.Pokemon{
		ID:        req.ID,
		Name:      strings.ToLower(req.Name),
		Types:     entities.LowerAll(req.Types),
		URL:       req.URL,
		Category:  "",
		Abilities: []string{},
		Height:    entities.RandomHeight(),
		Weight:    entities.RandomWeight(),
	}

	err := s.store.Update(ctx, func(doc *entities.Document) error {
		if newIDIndex(doc).has(pokemon.ID) || nameTaken(doc, pokemon.Name) {
			return entities.NewError(entities.KindDuplicate, entities.MsgAlreadyExist)
		}
		doc.Append(pokemon)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Pokemon created", "pokemon_id", pokemon.ID, "name", pokemon.Name)

	return &pokemon, nil
}

// Update replaces the name, types and url of an existing pokemon
func (s *PokemonService) Update(ctx context.Context, id int, req ports.UpdatePokemonRequest) (*entities.Pokemon, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	var updated entities.Pokemon
	err := s.store.Update(ctx, func(doc *entities.Document) error {
		i := doc.IndexOf(id)
		if i < 0 {
			return entities.NewError(entities.KindNotFound, entities.MsgNotExist)
		}

		doc.Data[i].Name = strings.ToLower(req.Name)
		doc.Data[i].Types = entities.LowerAll(req.Types)
		doc.Data[i].URL = req.URL
		updated = doc.Data[i]
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Pokemon updated", "pokemon_id", id, "name", updated.Name)

	return &updated, nil
}

// Delete removes a pokemon and returns it
func (s *PokemonService) Delete(ctx context.Context, id int) (*entities.Pokemon, error) {
	var removed entities.Pokemon
	err := s.store.Update(ctx, func(doc *entities.Document) error {
		i := doc.IndexOf(id)
		if i < 0 {
			return entities.NewError(entities.KindNotFound, entities.MsgNotExist)
		}
		removed = doc.RemoveAt(i)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Pokemon deleted", "pokemon_id", id, "name", removed.Name)

	return &removed, nil
}

// Count returns the size of the collection
func (s *PokemonService) Count(ctx context.Context) (int, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pokemons: %w", err)
	}

	return doc.Total(), nil
}

func nameTaken(doc *entities.Document, name string) bool {
	for i := range doc.Data {
		if strings.EqualFold(doc.Data[i].Name, name) {
			return true
		}
	}
	return false
}
