package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pokedex/core/internal/adapters/repository"
	"github.com/pokedex/core/internal/adapters/seed"
	"github.com/pokedex/core/internal/domain/entities"
	"github.com/pokedex/core/internal/infrastructure/config"
	"github.com/pokedex/core/internal/infrastructure/database"
	"github.com/pokedex/core/internal/infrastructure/logger"
	"github.com/pokedex/core/internal/infrastructure/server"
	"github.com/pokedex/core/internal/ports"
)

// Version information, overridden at build time with -ldflags
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
	GitCommit = "development"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Pokedex API server",
		Long:  "Start the Pokedex API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewSeedCommand creates the seed command
func NewSeedCommand() *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the pokemon collection from the CSV file",
		Long:  "Seed the store from the CSV file. Without --force an existing collection is left untouched.",
		Run: func(cmd *cobra.Command, args []string) {
			force, _ := cmd.Flags().GetBool("force")
			runSeed(force)
		},
	}

	seedCmd.Flags().Bool("force", false, "Overwrite the existing collection")
	return seedCmd
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version). Only used by the sqlite and postgres drivers.",
	}
	migrateCmd.PersistentFlags().Int("steps", 0, "Number of migrations to apply, 0 for all")

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			steps, _ := cmd.Flags().GetInt("steps")
			runMigration(database.MigrateUp, steps)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			steps, _ := cmd.Flags().GetInt("steps")
			runMigration(database.MigrateDown, steps)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Pokedex version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Pokedex v%s\n", Version)
			fmt.Printf("Build Date: %s\n", BuildDate)
			fmt.Printf("Git Commit: %s\n", GitCommit)
		},
	}
}

// OpenStore builds the pokemon store selected by cfg.Storage.Driver. The
// returned DB is nil for the json driver. SQL schemas are migrated up first.
func OpenStore(cfg *config.Config, appLogger *logger.Logger) (ports.PokemonStore, *database.DB, error) {
	loader := seed.NewCSVLoader(cfg.Seed.CSVPath, cfg.Seed.ImageBaseURL, appLogger)

	if !cfg.Storage.IsSQL() {
		return repository.NewJSONStore(cfg.Storage.Path, loader, appLogger), nil, nil
	}

	db, err := database.New(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	if _, err := db.Migrate(database.MigrateUp, 0); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	return repository.NewSQLStore(db, loader, appLogger), db, nil
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	store, db, err := OpenStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to open pokemon store", "driver", cfg.Storage.Driver, "error", err)
	}
	defer store.Close()

	srv, err := server.New(cfg, store, db, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize server", "error", err)
	}

	appLogger.Infow("Starting Pokedex API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"driver", cfg.Storage.Driver,
	)

	go func() {
		if err := srv.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalw("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("Server forced to shutdown", "error", err)
	}
}

func runSeed(force bool) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	store, _, err := OpenStore(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to open pokemon store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	var doc *entities.Document
	if force {
		pokemons, err := seed.NewCSVLoader(cfg.Seed.CSVPath, cfg.Seed.ImageBaseURL, appLogger).Load(ctx)
		if err != nil {
			log.Fatalf("Failed to load CSV: %v", err)
		}
		doc = entities.NewDocument(pokemons)
		if err := store.Persist(ctx, doc); err != nil {
			log.Fatalf("Failed to persist pokemons: %v", err)
		}
	} else {
		doc, err = store.Load(ctx)
		if err != nil {
			log.Fatalf("Failed to load pokemons: %v", err)
		}
	}

	fmt.Printf("Store holds %d pokemons\n", doc.Total())
}

func openDatabase() *database.DB {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.Storage.IsSQL() {
		log.Fatalf("Migrations need a sql storage driver, got %q", cfg.Storage.Driver)
	}

	db, err := database.New(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func runMigration(direction string, steps int) {
	db := openDatabase()
	defer db.Close()

	changed, err := db.Migrate(direction, steps)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if !changed {
		fmt.Println("No migrations to run")
	} else {
		fmt.Printf("Migration %s completed successfully\n", direction)
	}
}

func showMigrationVersion() {
	db := openDatabase()
	defer db.Close()

	version, dirty, err := db.MigrationVersion()
	if err != nil {
		log.Fatalf("Failed to get migration version: %v", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	fmt.Printf("Dirty: %t\n", dirty)
}
