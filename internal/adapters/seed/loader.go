// Package seed builds the initial pokemon collection from the CSV dataset.
package seed

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pokedex/core/internal/domain/entities"
	"github.com/pokedex/core/internal/infrastructure/logger"
	"github.com/pokedex/core/internal/ports"
)

// CSV column headers read by the loader. "classfication" is spelled the way
// the dataset spells it.
const (
	ColumnName      = "name"
	ColumnType1     = "Type1"
	ColumnType2     = "Type2"
	ColumnCategory  = "classfication"
	ColumnAbilities = "abilities"
)

var requiredColumns = []string{ColumnName, ColumnType1, ColumnType2, ColumnCategory, ColumnAbilities}

// CSVLoader reads pokemons from a CSV file
type CSVLoader struct {
	path         string
	imageBaseURL string
	logger       *logger.Logger
}

var _ ports.Loader = (*CSVLoader)(nil)

// NewCSVLoader creates a loader for the CSV file at path. Image URLs are
// built as imageBaseURL + id + ".png".
func NewCSVLoader(path, imageBaseURL string, logger *logger.Logger) *CSVLoader {
	return &CSVLoader{
		path:         path,
		imageBaseURL: imageBaseURL,
		logger:       logger.WithComponent("seed"),
	}
}

// Load parses the whole CSV file
func (l *CSVLoader) Load(ctx context.Context) ([]entities.Pokemon, error) {
	f, err := os.Open(l.path)
	if err != nil {
		l.logger.Errorw("Failed to open CSV file", "path", l.path, "error", err)
		return nil, entities.WrapError(entities.KindLoadFailure, err, entities.MsgLoadCSV)
	}
	defer f.Close()

	pokemons, err := l.Parse(ctx, f)
	if err != nil {
		l.logger.Errorw("Failed to parse CSV file", "path", l.path, "error", err)
		return nil, entities.WrapError(entities.KindLoadFailure, err, entities.MsgLoadCSV)
	}

	l.logger.Infow("Pokemons loaded from CSV", "path", l.path, "count", len(pokemons))

	return pokemons, nil
}

// Parse reads CSV rows from r, the first row being the header
func (l *CSVLoader) Parse(ctx context.Context, r io.Reader) ([]entities.Pokemon, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	pokemons := []entities.Pokemon{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(pokemons)+1, err)
		}

		pokemon, err := l.buildPokemon(len(pokemons), record, columns)
		if err != nil {
			return nil, err
		}
		pokemons = append(pokemons, pokemon)
	}

	return pokemons, nil
}

func (l *CSVLoader) buildPokemon(index int, record []string, columns map[string]int) (entities.Pokemon, error) {
	field := func(name string) string {
		return strings.TrimSpace(record[columns[name]])
	}

	id := index + 1

	abilities, err := ParseAbilities(field(ColumnAbilities))
	if err != nil {
		return entities.Pokemon{}, fmt.Errorf("row %d: %w", id, err)
	}

	types := []string{}
	for _, t := range []string{field(ColumnType1), field(ColumnType2)} {
		if t != "" {
			types = append(types, strings.ToLower(t))
		}
	}

	return entities.Pokemon{
		ID:        id,
		Name:      strings.ToLower(field(ColumnName)),
		Types:     types,
		URL:       l.imageBaseURL + strconv.Itoa(id) + ".png",
		Category:  strings.ToLower(field(ColumnCategory)),
		Abilities: abilities,
		Height:    entities.RandomHeight(),
		Weight:    entities.RandomWeight(),
	}, nil
}

// ParseAbilities converts a single-quoted list such as "['overgrow', 'chlorophyll']"
// into its entries. An empty value yields an empty list.
func ParseAbilities(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}

	abilities := []string{}
	if err := json.Unmarshal([]byte(strings.ReplaceAll(raw, "'", `"`)), &abilities); err != nil {
		return nil, fmt.Errorf("parse abilities %q: %w", raw, err)
	}
	return abilities, nil
}
