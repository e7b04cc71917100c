package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/brngle/rootfiles"
)

func main() {
	configPath := os.Getenv("CONFIG")
	if configPath == "" && len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	config, err := loadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := rootfiles.ConfigureLogging(config.Log); err != nil {
		log.Fatal().Err(err).Msg("failed to configure logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := rootfiles.NewServer(config)
	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// loadConfig falls back to defaults only when no path was given and
// config.hcl does not exist.
func loadConfig(path string) (*rootfiles.Config, error) {
	if path != "" {
		return rootfiles.LoadConfig(path)
	}

	path = "config.hcl"
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return rootfiles.DefaultConfig(), nil
	}
	return rootfiles.LoadConfig(path)
}
