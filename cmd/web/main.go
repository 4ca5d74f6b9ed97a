package main

import (
	"fmt"
	"os"

	"github.com/retail-tools/retail-atlas/pkg/server"
	"github.com/retail-tools/retail-atlas/pkg/services/analysis"
	"github.com/retail-tools/retail-atlas/pkg/services/registry"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Retail Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "config.yaml",
		"Path to the server configuration file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := server.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}

	reg, err := registry.New(cfg.Profiles)
	if err != nil {
		return fmt.Errorf("failed to load source profiles: %w", err)
	}

	logger.Info().Msgf("Source profiles found at `%s` successfully loaded.", cfg.Profiles)
	for _, profile := range reg.Profiles() {
		logger.Info().Msgf("Name: `%s`, Type: `%s`", profile.Name, profile.Type)
	}

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Addr,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Analysis: analysis.NewService(reg),
			Logger:   logger,
		},
	})

	return api.Start()
}
