package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/pokedex/core/internal/domain/entities"
	"github.com/pokedex/core/internal/infrastructure/logger"
	"github.com/pokedex/core/internal/ports"
)

// JSONStore keeps the whole document in a single JSON file
type JSONStore struct {
	path   string
	loader ports.Loader
	logger *logger.Logger

	// mu serializes writers across load-mutate-persist. Readers never take it.
	mu sync.Mutex
}

var _ ports.PokemonStore = (*JSONStore)(nil)

// NewJSONStore creates a store backed by the file at path. The loader seeds the
// file when it is missing or blank.
func NewJSONStore(path string, loader ports.Loader, logger *logger.Logger) *JSONStore {
	return &JSONStore{
		path:   path,
		loader: loader,
		logger: logger.WithComponent("json_store"),
	}
}

// Load reads the document, seeding it first when the file holds nothing
func (s *JSONStore) Load(ctx context.Context) (*entities.Document, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	if doc != nil {
		return doc, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ensureLoaded(ctx)
}

// Update runs fn against a freshly read document and persists the result.
// Nothing is written when fn fails.
func (s *JSONStore) Update(ctx context.Context, fn func(doc *entities.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.ensureLoaded(ctx)
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	return s.write(doc)
}

// Persist overwrites the file with doc
func (s *JSONStore) Persist(ctx context.Context, doc *entities.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(doc)
}

// Close implements ports.PokemonStore
func (s *JSONStore) Close() error {
	return nil
}

// ensureLoaded must be called with mu held
func (s *JSONStore) ensureLoaded(ctx context.Context) (*entities.Document, error) {
	doc, err := s.read()
	if err != nil || doc != nil {
		return doc, err
	}

	pokemons, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	doc = entities.NewDocument(pokemons)
	if err := s.write(doc); err != nil {
		return nil, err
	}

	s.logger.Infow("Store seeded", "path", s.path, "total", doc.Total())

	return doc, nil
}

// read returns nil without error when the file is missing or blank
func (s *JSONStore) read() (*entities.Document, error) {
	start := time.Now()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		s.logger.LogStoreOperation("read", 0, since(start), err)
		return nil, entities.WrapError(entities.KindLoadFailure, err, entities.MsgReadStore)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	doc := &entities.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		s.logger.LogStoreOperation("read", 0, since(start), err)
		return nil, entities.WrapError(entities.KindLoadFailure, err, entities.MsgReadStore)
	}
	doc.Normalize()

	s.logger.LogStoreOperation("read", doc.Total(), since(start), nil)

	return doc, nil
}

// write replaces the file through a temp file and a rename
func (s *JSONStore) write(doc *entities.Document) error {
	start := time.Now()
	doc.Normalize()

	err := s.writeFile(doc)
	s.logger.LogStoreOperation("write", doc.Total(), since(start), err)
	if err != nil {
		return entities.WrapError(entities.KindPersistFailure, err, entities.MsgWriteStore)
	}

	return nil
}

func (s *JSONStore) writeFile(doc *entities.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

func since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
