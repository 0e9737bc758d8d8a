package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pokedex/core/internal/application/services"
	"github.com/pokedex/core/internal/infrastructure/logger"
	"github.com/pokedex/core/internal/ports"
)

// PokemonHandler handles pokemon-related requests
type PokemonHandler struct {
	pokemonService ports.PokemonService
	logger         *logger.Logger
}

// NewPokemonHandler creates a new pokemon handler
func NewPokemonHandler(pokemonService ports.PokemonService, logger *logger.Logger) *PokemonHandler {
	return &PokemonHandler{
		pokemonService: pokemonService,
		logger:         logger,
	}
}

// Index answers the root path
func (h *PokemonHandler) Index(c echo.Context) error {
	return c.String(http.StatusOK, "get Pokemons")
}

// ListPokemons godoc
// @Summary List pokemons
// @Description Filter by name substring and type, then paginate
// @Tags pokemons
// @Produce json
// @Param search query string false "Case-insensitive name substring"
// @Param type query string false "Pokemon type"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {array} entities.Pokemon
// @Failure 400 {string} string
// @Router /pokemons [get]
func (h *PokemonHandler) ListPokemons(c echo.Context) error {
	filter, err := services.ParseFilter(c.QueryParams())
	if err != nil {
		return err
	}

	pokemons, err := h.pokemonService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pokemons)
}

// GetPokemon godoc
// @Summary Get pokemon by ID
// @Description Get a pokemon together with the previous and next pokemon by id
// @Tags pokemons
// @Produce json
// @Param id path int true "Pokemon ID"
// @Success 200 {object} ports.PokemonDetail
// @Failure 404 {string} string
// @Router /pokemons/{id} [get]
func (h *PokemonHandler) GetPokemon(c echo.Context) error {
	id, err := pokemonID(c)
	if err != nil {
		return err
	}

	detail, err := h.pokemonService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, detail)
}

// CreatePokemon godoc
// @Summary Create a new pokemon
// @Tags pokemons
// @Accept json
// @Produce json
// @Param request body ports.CreatePokemonRequest true "Pokemon data"
// @Success 201 {object} entities.Pokemon
// @Failure 400 {string} string
// @Router /pokemons [post]
func (h *PokemonHandler) CreatePokemon(c echo.Context) error {
	var req ports.CreatePokemonRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Debugw("Invalid request body", "error", err, "path", c.Path())
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format").SetInternal(err)
	}

	pokemon, err := h.pokemonService.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, pokemon)
}

// UpdatePokemon godoc
// @Summary Update a pokemon
// @Description Replace name, types and url of an existing pokemon
// @Tags pokemons
// @Accept json
// @Produce json
// @Param id path int true "Pokemon ID"
// @Param request body ports.UpdatePokemonRequest true "Pokemon data"
// @Success 200 {object} entities.Pokemon
// @Failure 400 {string} string
// @Failure 404 {string} string
// @Router /pokemons/{id} [put]
func (h *PokemonHandler) UpdatePokemon(c echo.Context) error {
	id, err := pokemonID(c)
	if err != nil {
		return err
	}

	var req ports.UpdatePokemonRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Debugw("Invalid request body", "error", err, "path", c.Path())
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format").SetInternal(err)
	}

	pokemon, err := h.pokemonService.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pokemon)
}

// DeletePokemon godoc
// @Summary Delete a pokemon
// @Tags pokemons
// @Produce json
// @Param id path int true "Pokemon ID"
// @Success 200 {object} entities.Pokemon
// @Failure 404 {string} string
// @Router /pokemons/{id} [delete]
func (h *PokemonHandler) DeletePokemon(c echo.Context) error {
	id, err := pokemonID(c)
	if err != nil {
		return err
	}

	pokemon, err := h.pokemonService.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pokemon)
}

func pokemonID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid pokemon ID")
	}
	return id, nil
}
