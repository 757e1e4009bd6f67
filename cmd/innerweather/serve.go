package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/innerweather/internal/analysis"
	"github.com/terraincognita07/innerweather/internal/api"
	"github.com/terraincognita07/innerweather/internal/config"
	"github.com/terraincognita07/innerweather/internal/db"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func runServer(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	database, err := db.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Warn("close database", zap.Error(err))
		}
	}()

	app, err := buildApp(ctx, cfg, database, logger)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("listening",
			zap.String("addr", ":"+cfg.Port),
			zap.String("db", cfg.DBPath),
			zap.String("tz", cfg.Timezone),
		)
		if err := app.Listen(":" + cfg.Port); err != nil {
			return fmt.Errorf("server exited: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func buildApp(ctx context.Context, cfg config.Config, database *gorm.DB, logger *zap.Logger) (*fiber.App, error) {
	location, err := cfg.Location()
	if err != nil {
		logger.Warn("invalid timezone, falling back to UTC", zap.Error(err))
	}

	analyzer, err := newAnalyzer(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	handler, err := api.NewHandler(database, analyzer, api.Options{
		SecretKey:     []byte(cfg.AuthSecret),
		Issuer:        cfg.AuthIssuer,
		Audience:      cfg.AuthAudience,
		CookieSecure:  cfg.CookieSecure,
		DevAuthBypass: cfg.DevAuthBypass,
		Location:      location,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("handler init failed: %w", err)
	}
	if cfg.DevAuthBypass {
		logger.Warn("development auth bypass is enabled")
	}

	return api.NewApp(handler, logger, cfg.RequestTimeout), nil
}

// newAnalyzer returns nil when no Gemini key is configured; entries are then
// stored with fallback analysis only.
func newAnalyzer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*analysis.Analyzer, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Info("GEMINI_API_KEY not set, AI analysis disabled")
		return nil, nil
	}
	generator, err := analysis.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("gemini init failed: %w", err)
	}
	logger.Info("AI analysis enabled", zap.String("model", generator.Model()))
	return analysis.NewAnalyzer(generator, cfg.GeminiTimeout, logger), nil
}
