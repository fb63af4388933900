package main

import (
	"os"

	"github.com/spf13/cobra"

	"sokogate/internal/interfaces/cli/migrate"
	"sokogate/internal/interfaces/cli/seed"
	"sokogate/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sokogate",
		Short: "Sokogate - B2B subscription and pre-order quota engine",
		Long:  `Sokogate runs the subscription billing engine, the pre-order admission API, migration tools and catalog seeding.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
