package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/esimov/ciya"
	"github.com/esimov/ciya/internal/logger"
	"github.com/esimov/ciya/internal/server"
)

func main() {
	if err := run(); err != nil {
		logger.Error("server stopped", logger.LoggerOptions{Key: "error", Data: err})
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run() error {
	cfg, err := server.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load the configuration: %w", err)
	}

	detector, err := ciya.NewPigoDetector(cfg.FaceCascade, cfg.PuplocCascade, cfg.LandmarkDir)
	if err != nil {
		return fmt.Errorf("could not initialize the mouth detector: %w", err)
	}

	var projector *ciya.Projector
	if cfg.Sprite != "" {
		sprite, err := ciya.LoadSprite(cfg.Sprite)
		if err != nil {
			return err
		}
		projector = ciya.NewProjector(sprite)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, detector, projector).Run(ctx)
}
