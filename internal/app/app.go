// Package app wires configuration, storage, clients, and services together.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/investsync/internal/clients/gemini"
	"github.com/bobmcallan/investsync/internal/common"
	"github.com/bobmcallan/investsync/internal/interfaces"
	"github.com/bobmcallan/investsync/internal/services/auth"
	"github.com/bobmcallan/investsync/internal/services/holding"
	"github.com/bobmcallan/investsync/internal/services/room"
	"github.com/bobmcallan/investsync/internal/services/trend"
	"github.com/bobmcallan/investsync/internal/storage"
)

// App holds all application dependencies.
type App struct {
	Config *common.Config
	Logger *common.Logger

	Storage      interfaces.StorageManager
	GeminiClient interfaces.AIClient

	AuthService    interfaces.AuthService
	RoomService    interfaces.RoomService
	HoldingService interfaces.HoldingService
	TrendService   interfaces.TrendService

	StartupTime time.Time
}

// NewApp creates the application from config files found at the given paths.
func NewApp(configPaths ...string) (*App, error) {
	config, err := common.LoadConfig(configPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a := &App{
		Config:      config,
		Logger:      logger,
		Storage:     storageManager,
		StartupTime: time.Now(),
	}

	if config.Clients.Gemini.APIKey != "" {
		client, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithMaxSources(config.Clients.Gemini.MaxSources),
			gemini.WithRateLimit(config.Clients.Gemini.RateLimit),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client, AI endpoints disabled")
		} else {
			a.GeminiClient = client
		}
	} else {
		logger.Warn().Msg("No Gemini API key configured, AI endpoints disabled")
	}

	a.AuthService = auth.NewService(storageManager, logger, config.Auth.JWTSecret, config.Auth.GetTokenExpiry())
	a.RoomService = room.NewService(storageManager, logger)
	a.HoldingService = holding.NewService(storageManager, logger)
	if a.GeminiClient != nil {
		a.TrendService = trend.NewService(a.GeminiClient, logger)
	}

	logger.Info().
		Str("environment", config.Environment).
		Str("storage", config.Storage.Driver).
		Bool("gemini", a.GeminiClient != nil).
		Msg("Application initialized")

	return a, nil
}

// Close releases application resources.
func (a *App) Close() error {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}
	return nil
}
