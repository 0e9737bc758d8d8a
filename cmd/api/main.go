package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/pokedex/core/cmd/api/commands"
)

// @title Pokedex API
// @version 1.0
// @description CRUD API over the pokemon collection

// @host localhost:3001
// @BasePath /

func main() {
	rootCmd := &cobra.Command{
		Use:   "pokedex",
		Short: "Pokedex API Server",
		Long:  `Pokedex serves a pokemon collection over HTTP. The collection is seeded from a CSV file on first use.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
