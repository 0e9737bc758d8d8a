package ports

import (
	"context"

	"github.com/pokedex/core/internal/domain/entities"
)

// PokemonStore defines the durable storage of the pokemon document.
// Implementations never cache across calls: every Load re-reads storage.
type PokemonStore interface {
	// Load returns the whole document, seeding it from the Loader when the
	// underlying storage is absent or empty.
	Load(ctx context.Context) (*entities.Document, error)

	// Update runs fn against a freshly loaded document and persists the
	// result. Calls are serialized so concurrent writers cannot lose updates.
	// Nothing is written when fn returns an error.
	Update(ctx context.Context, fn func(doc *entities.Document) error) error

	// Persist overwrites the stored document with doc
	Persist(ctx context.Context, doc *entities.Document) error

	Close() error
}

// Loader produces the initial collection used to seed an empty store
type Loader interface {
	Load(ctx context.Context) ([]entities.Pokemon, error)
}
