package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/jmoiron/sqlx"

	"github.com/pokedex/core/internal/domain/entities"
	"github.com/pokedex/core/internal/infrastructure/database"
	"github.com/pokedex/core/internal/infrastructure/logger"
	"github.com/pokedex/core/internal/ports"
)

// Messages for SQL storage failures
const (
	MsgReadDatabase  = "Failed to read pokemon database"
	MsgWriteDatabase = "Failed to write pokemon database"
)

// pokemonRow is the table layout of a pokemon. List fields are stored as JSON
// text and measurements in their "<value> <unit>" form.
type pokemonRow struct {
	ID        int    `db:"id"`
	Position  int    `db:"position"`
	Name      string `db:"name"`
	Types     string `db:"types"`
	URL       string `db:"url"`
	Category  string `db:"category"`
	Abilities string `db:"abilities"`
	Height    string `db:"height"`
	Weight    string `db:"weight"`
}

// SQLStore keeps the document in the pokemons table, one row per record
type SQLStore struct {
	db     *database.DB
	loader ports.Loader
	logger *logger.Logger

	mu sync.Mutex
}

var _ ports.PokemonStore = (*SQLStore)(nil)

// NewSQLStore creates a store on an already migrated database
func NewSQLStore(db *database.DB, loader ports.Loader, logger *logger.Logger) *SQLStore {
	return &SQLStore{
		db:     db,
		loader: loader,
		logger: logger.WithComponent("sql_store"),
	}
}

// Load reads every record in document order, seeding the table on first use
func (s *SQLStore) Load(ctx context.Context) (*entities.Document, error) {
	seeded, err := s.isSeeded(ctx, s.db.DB)
	if err != nil {
		return nil, entities.WrapError(entities.KindLoadFailure, err, MsgReadDatabase)
	}
	if seeded {
		return s.readAll(ctx, s.db.DB)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var doc *entities.Document
	err = s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var err error
		doc, err = s.ensureLoaded(ctx, tx)
		return err
	})
	if err != nil {
		return nil, asKind(err, entities.KindLoadFailure, MsgReadDatabase)
	}

	return doc, nil
}

// Update runs fn and rewrites the table inside one transaction
func (s *SQLStore) Update(ctx context.Context, fn func(doc *entities.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		doc, err := s.ensureLoaded(ctx, tx)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		return s.writeAll(ctx, tx, doc)
	})
	if err != nil {
		return asKind(err, entities.KindPersistFailure, MsgWriteDatabase)
	}

	return nil
}

// Persist replaces every row with the content of doc
func (s *SQLStore) Persist(ctx context.Context, doc *entities.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		return s.writeAll(ctx, tx, doc)
	})
	if err != nil {
		return asKind(err, entities.KindPersistFailure, MsgWriteDatabase)
	}

	return nil
}

// Close closes the database
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) ensureLoaded(ctx context.Context, tx *sqlx.Tx) (*entities.Document, error) {
	seeded, err := s.isSeeded(ctx, tx)
	if err != nil {
		return nil, entities.WrapError(entities.KindLoadFailure, err, MsgReadDatabase)
	}
	if seeded {
		return s.readAll(ctx, tx)
	}

	pokemons, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	doc := entities.NewDocument(pokemons)
	if err := s.writeAll(ctx, tx, doc); err != nil {
		return nil, err
	}

	s.logger.Infow("Store seeded", "driver", s.db.Driver(), "total", doc.Total())

	return doc, nil
}

func (s *SQLStore) isSeeded(ctx context.Context, q sqlx.QueryerContext) (bool, error) {
	var count int
	if err := sqlx.GetContext(ctx, q, &count, "SELECT COUNT(*) FROM store_state"); err != nil {
		return false, fmt.Errorf("read store state: %w", err)
	}
	return count > 0, nil
}

func (s *SQLStore) readAll(ctx context.Context, q sqlx.QueryerContext) (*entities.Document, error) {
	start := time.Now()

	query := `
		SELECT id, position, name, types, url, category, abilities, height, weight
		FROM pokemons
		ORDER BY position`

	var rows []pokemonRow
	if err := sqlx.SelectContext(ctx, q, &rows, query); err != nil {
		s.logger.LogStoreOperation("select", 0, since(start), err)
		return nil, entities.WrapError(entities.KindLoadFailure, err, MsgReadDatabase)
	}

	pokemons := make([]entities.Pokemon, 0, len(rows))
	for _, row := range rows {
		p, err := row.toPokemon()
		if err != nil {
			return nil, entities.WrapError(entities.KindLoadFailure, err, MsgReadDatabase)
		}
		pokemons = append(pokemons, p)
	}

	s.logger.LogStoreOperation("select", len(pokemons), since(start), nil)

	return entities.NewDocument(pokemons), nil
}

func (s *SQLStore) writeAll(ctx context.Context, tx *sqlx.Tx, doc *entities.Document) error {
	start := time.Now()
	doc.Normalize()

	err := s.replaceRows(ctx, tx, doc)
	s.logger.LogStoreOperation("rewrite", doc.Total(), since(start), err)
	if err != nil {
		return entities.WrapError(entities.KindPersistFailure, err, MsgWriteDatabase)
	}

	return nil
}

func (s *SQLStore) replaceRows(ctx context.Context, tx *sqlx.Tx, doc *entities.Document) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM pokemons"); err != nil {
		return fmt.Errorf("clear pokemons: %w", err)
	}

	insert := `
		INSERT INTO pokemons (id, position, name, types, url, category, abilities, height, weight)
		VALUES (:id, :position, :name, :types, :url, :category, :abilities, :height, :weight)`

	for i, p := range doc.Data {
		row, err := newPokemonRow(i, p)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return fmt.Errorf("insert pokemon %d: %w", p.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM store_state"); err != nil {
		return fmt.Errorf("clear store state: %w", err)
	}
	_, err := tx.ExecContext(ctx, tx.Rebind("INSERT INTO store_state (id, seeded_at) VALUES (?, ?)"),
		1, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("mark store seeded: %w", err)
	}

	return nil
}

func newPokemonRow(position int, p entities.Pokemon) (pokemonRow, error) {
	types, err := json.Marshal(p.Types)
	if err != nil {
		return pokemonRow{}, fmt.Errorf("encode types of %d: %w", p.ID, err)
	}
	abilities, err := json.Marshal(p.Abilities)
	if err != nil {
		return pokemonRow{}, fmt.Errorf("encode abilities of %d: %w", p.ID, err)
	}

	return pokemonRow{
		ID:        p.ID,
		Position:  position,
		Name:      p.Name,
		Types:     string(types),
		URL:       p.URL,
		Category:  p.Category,
		Abilities: string(abilities),
		Height:    p.Height.String(),
		Weight:    p.Weight.String(),
	}, nil
}

func (r pokemonRow) toPokemon() (entities.Pokemon, error) {
	p := entities.Pokemon{
		ID:       r.ID,
		Name:     r.Name,
		URL:      r.URL,
		Category: r.Category,
	}

	if err := json.Unmarshal([]byte(r.Types), &p.Types); err != nil {
		return p, fmt.Errorf("decode types of %d: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.Abilities), &p.Abilities); err != nil {
		return p, fmt.Errorf("decode abilities of %d: %w", r.ID, err)
	}

	var err error
	if p.Height, err = parseColumnMeasurement(r.Height); err != nil {
		return p, err
	}
	if p.Weight, err = parseColumnMeasurement(r.Weight); err != nil {
		return p, err
	}

	return p, nil
}

func parseColumnMeasurement(s string) (entities.Measurement, error) {
	if s == "" {
		return entities.Measurement{}, nil
	}
	return entities.ParseMeasurement(s)
}

// asKind keeps domain errors as they are and classifies anything else
func asKind(err error, kind entities.ErrorKind, message string) error {
	if entities.KindOf(err) != "" {
		return err
	}
	return entities.WrapError(kind, err, message)
}
