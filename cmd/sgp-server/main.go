// Package main provides the HTTP API entry point for the SGP builder.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sgp-builder/internal/api"
	"github.com/yourusername/sgp-builder/internal/cache"
	"github.com/yourusername/sgp-builder/internal/config"
	"github.com/yourusername/sgp-builder/internal/database"
	"github.com/yourusername/sgp-builder/internal/datasource"
	"github.com/yourusername/sgp-builder/internal/health"
	"github.com/yourusername/sgp-builder/internal/logger"
	"github.com/yourusername/sgp-builder/internal/metrics"
	"github.com/yourusername/sgp-builder/internal/models"
	"github.com/yourusername/sgp-builder/internal/repository"
	"github.com/yourusername/sgp-builder/internal/scheduler"
	"github.com/yourusername/sgp-builder/internal/scoring"
	"github.com/yourusername/sgp-builder/internal/service"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

func main() {
	configPath := os.Getenv("SGP_BUILDER_CONFIG_PATH")
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.New(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"version":     Version,
		"environment": cfg.App.Environment,
	}).Info("Starting sgp-server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Upstream clients share one rate-limited HTTP client.
	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.OddsAPI.TimeoutSeconds) * time.Second
	if cfg.OddsAPI.RateLimitRPS > 0 {
		httpCfg.RateLimit = cfg.OddsAPI.RateLimitRPS
	}
	httpClient := datasource.NewRateLimitedHTTPClient(httpCfg, appLog)
	defer httpClient.Close()

	market := datasource.NewOddsAPIClient(httpClient, datasource.OddsAPIConfig{
		BaseURL:   cfg.OddsAPI.BaseURL,
		APIKey:    cfg.OddsAPI.APIKey,
		SportKey:  cfg.OddsAPI.SportKey,
		Regions:   cfg.OddsAPI.Regions,
		Bookmaker: cfg.OddsAPI.Bookmaker,
	}, appLog)

	scorer := scoring.NewHeuristicScorer()
	if cfg.Engine.ScorerPriorWeight > 0 {
		scorer.PriorWeight = cfg.Engine.ScorerPriorWeight
	}

	resultCache := cache.New(time.Duration(cfg.Engine.CacheTTLMinutes)*time.Minute, nil)

	opts := []service.BuilderOption{service.WithMarkets(cfg.OddsAPI.Markets)}
	if cfg.Stats.Enabled {
		stats := datasource.NewBallDontLieClient(httpClient, cfg.Stats.BaseURL, cfg.Stats.APIKey, appLog)
		opts = append(opts, service.WithStatsSource(stats))
	}

	// Optional parlay history.
	var db *database.DB
	var history repository.ParlayRepository
	if cfg.Database.Enabled {
		db, err = database.New(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		history = repository.NewPostgresParlayRepository(db)
		opts = append(opts, service.WithRecorder(history))
	}

	builder := service.NewParlayBuilder(market, scorer, resultCache, appLog, opts...)

	// Cache prewarm scheduler.
	if cfg.Prewarm.Enabled {
		prewarmer := scheduler.NewPrewarmer(builder, appLog)
		games := make([]models.GameRef, 0, len(cfg.Prewarm.Games))
		for _, g := range cfg.Prewarm.Games {
			games = append(games, models.GameRef{HomeTeam: g.HomeTeam, AwayTeam: g.AwayTeam})
		}
		if err := prewarmer.Schedule(cfg.Prewarm.Schedule, games); err != nil {
			log.Fatalf("Failed to schedule prewarm: %v", err)
		}
		prewarmer.Start()
		defer prewarmer.Stop()
	}

	// Health check server.
	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Logger:      appLog,
	}
	if db != nil {
		healthCfg.DB = db
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		log.Fatalf("Failed to start health server: %v", err)
	}

	// Metrics endpoint.
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			appLog.WithField("addr", addr).Info("Metrics server starting")
			if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	// API server.
	mux := http.NewServeMux()
	api.NewHandler(builder, history, appLog).Register(mux)
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLog.WithField("addr", apiServer.Addr).Info("API server starting")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Fatal("API server error")
		}
	}()
	healthServer.SetReady(true)

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	appLog.WithField("signal", sig.String()).Info("Shutting down")

	healthServer.SetReady(false)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Warn("API server shutdown error")
	}
	cancel()
}
