package server

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/pokedex/core/docs"
	httpHandlers "github.com/pokedex/core/internal/adapters/http"
	"github.com/pokedex/core/internal/application/services"
	"github.com/pokedex/core/internal/infrastructure/config"
	"github.com/pokedex/core/internal/infrastructure/database"
	"github.com/pokedex/core/internal/infrastructure/logger"
	"github.com/pokedex/core/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo           *echo.Echo
	config         *config.Config
	logger         *logger.Logger
	db             *database.DB
	pokemonService ports.PokemonService
}

// New creates a new server instance. db is nil unless the store runs on a
// SQL database.
func New(cfg *config.Config, store ports.PokemonStore, db *database.DB, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = &jsonSerializer{}
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Initialize services
	pokemonService := services.NewPokemonService(store, appLogger)

	// Initialize handlers
	pokemonHandler := httpHandlers.NewPokemonHandler(pokemonService, appLogger)

	server := &Server{
		echo:           e,
		config:         cfg,
		logger:         appLogger,
		db:             db,
		pokemonService: pokemonService,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup metrics
	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	// Setup routes
	server.setupRoutes(pokemonHandler)

	return server, nil
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(pokemonHandler *httpHandlers.PokemonHandler) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)

	// Swagger documentation
	s.echo.GET("/docs/*", echoSwagger.WrapHandler)

	s.echo.GET("/", pokemonHandler.Index)

	pokemons := s.echo.Group("/pokemons")
	pokemons.GET("", pokemonHandler.ListPokemons)
	pokemons.POST("", pokemonHandler.CreatePokemon)
	pokemons.GET("/:id", pokemonHandler.GetPokemon)
	pokemons.PUT("/:id", pokemonHandler.UpdatePokemon)
	pokemons.DELETE("/:id", pokemonHandler.DeletePokemon)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	status := "ok"
	checks := make(map[string]interface{})

	if total, err := s.pokemonService.Count(ctx); err != nil {
		status = "error"
		checks["store"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["store"] = map[string]interface{}{
			"status":        "ok",
			"driver":        s.config.Storage.Driver,
			"totalPokemons": total,
		}
	}

	if s.db != nil {
		if err := s.db.HealthCheck(ctx); err != nil {
			status = "error"
			checks["database"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		} else {
			checks["database"] = map[string]interface{}{
				"status": "ok",
				"stats":  s.db.GetConnectionInfo(),
			}
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  runtime.Version(),
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}
