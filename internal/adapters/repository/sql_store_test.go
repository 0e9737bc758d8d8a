package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokedex/core/internal/domain/entities"
	"github.com/pokedex/core/internal/infrastructure/config"
	"github.com/pokedex/core/internal/infrastructure/database"
	"github.com/pokedex/core/internal/infrastructure/logger"
)

func newTestSQLStore(t *testing.T, loader *stubLoader) *SQLStore {
	t.Helper()

	db, err := database.New(config.StorageConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "pokedex.db"),
	})
	require.NoError(t, err)

	_, err = db.Migrate(database.MigrateUp, 0)
	require.NoError(t, err)

	store := NewSQLStore(db, loader, logger.NewNop())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLStore_SeedAndLoad(t *testing.T) {
	loader := &stubLoader{pokemons: samplePokemons()}
	store := newTestSQLStore(t, loader)
	ctx := context.Background()

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.TotalPokemons)
	assert.Equal(t, samplePokemons(), doc.Data)

	doc, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, samplePokemons(), doc.Data)
	assert.Equal(t, 1, loader.calls)
}

func TestSQLStore_KeepsDocumentOrder(t *testing.T) {
	store := newTestSQLStore(t, &stubLoader{})
	ctx := context.Background()

	doc := entities.NewDocument([]entities.Pokemon{{ID: 9, Name: "nine"}, {ID: 2, Name: "two"}, {ID: 5, Name: "five"}})
	require.NoError(t, store.Persist(ctx, doc))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	ids := []int{}
	for _, p := range loaded.Data {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{9, 2, 5}, ids)
}

func TestSQLStore_EmptiedTableIsNotReseeded(t *testing.T) {
	loader := &stubLoader{pokemons: samplePokemons()}
	store := newTestSQLStore(t, loader)
	ctx := context.Background()

	err := store.Update(ctx, func(doc *entities.Document) error {
		doc.Data = doc.Data[:0]
		return nil
	})
	require.NoError(t, err)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Total())
	assert.Equal(t, 1, loader.calls)
}

func TestSQLStore_UpdateRollsBack(t *testing.T) {
	store := newTestSQLStore(t, &stubLoader{pokemons: samplePokemons()})
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.Update(ctx, func(doc *entities.Document) error {
		doc.RemoveAt(0)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = store.Update(ctx, func(doc *entities.Document) error {
		return entities.ErrNotFound(42)
	})
	assert.True(t, entities.IsKind(err, entities.KindNotFound))

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Total())
}

func TestSQLStore_Update(t *testing.T) {
	store := newTestSQLStore(t, &stubLoader{pokemons: samplePokemons()})
	ctx := context.Background()

	err := store.Update(ctx, func(doc *entities.Document) error {
		doc.Data[1].Name = "venusaur"
		doc.Append(entities.Pokemon{ID: 4, Name: "pikachu", Types: []string{"electric"}, Height: entities.Measurement{Value: 2.5}})
		return nil
	})
	require.NoError(t, err)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, doc.TotalPokemons)
	assert.Equal(t, "venusaur", doc.Data[1].Name)
	assert.Equal(t, 4, doc.Data[3].ID)
	assert.Equal(t, entities.Measurement{Value: 2.5}, doc.Data[3].Height)
	assert.Equal(t, []string{}, doc.Data[3].Abilities)
}

func TestSQLStore_LoaderFailure(t *testing.T) {
	cause := entities.WrapError(entities.KindLoadFailure, errors.New("no csv"), entities.MsgLoadCSV)
	store := newTestSQLStore(t, &stubLoader{err: cause})

	_, err := store.Load(context.Background())
	assert.True(t, entities.IsKind(err, entities.KindLoadFailure))
	assert.Contains(t, err.Error(), entities.MsgLoadCSV)
}
