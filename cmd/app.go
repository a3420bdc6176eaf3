package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/ponytojas/go-mqtt-firebase/config"
	"github.com/ponytojas/go-mqtt-firebase/internal/firebase"
	"github.com/ponytojas/go-mqtt-firebase/internal/logging"
	"github.com/ponytojas/go-mqtt-firebase/internal/publisher"
)

// app bundles what every command needs
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	publisher *publisher.Publisher
}

// loadApp loads the configuration and builds the logger, without touching firebase
func loadApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Error loading config: %v. Using default configuration.", err)
		cfg = config.GetDefaultConfig()
	}
	if debug {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger}, nil
}

// newApp is loadApp plus the firebase client, initialized once.
// A failed initialization is logged and leaves the publisher without a store.
func newApp(ctx context.Context) (*app, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}

	var store firebase.Store
	client, err := firebase.NewClient(ctx, a.cfg.Firebase, a.logger)
	if err != nil {
		a.logger.Error("failed to initialize firebase admin sdk", zap.Error(err))
	} else {
		store = client
	}
	a.publisher = publisher.New(store, a.cfg.Firebase.Path, a.logger)
	return a, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
