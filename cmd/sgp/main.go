// Package main provides the CLI entry point for building a Same Game Parlay.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sgp-builder/internal/cache"
	"github.com/yourusername/sgp-builder/internal/config"
	"github.com/yourusername/sgp-builder/internal/datasource"
	"github.com/yourusername/sgp-builder/internal/logger"
	"github.com/yourusername/sgp-builder/internal/models"
	"github.com/yourusername/sgp-builder/internal/odds"
	"github.com/yourusername/sgp-builder/internal/parlay"
	"github.com/yourusername/sgp-builder/internal/scoring"
	"github.com/yourusername/sgp-builder/internal/service"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

var (
	configFile     string
	homeTeam       string
	awayTeam       string
	gameDate       string
	legs           int
	minOdds        int
	maxOdds        int
	confidenceTier string
	wager          float64

	appLog  *logrus.Logger
	cfg     *config.Config
	builder *service.ParlayBuilder
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&homeTeam, "home", "", "Home team name (required)")
	rootCmd.Flags().StringVar(&awayTeam, "away", "", "Away team name (required)")
	rootCmd.Flags().StringVar(&gameDate, "date", "", "Game date (YYYY-MM-DD, defaults to today)")
	rootCmd.Flags().IntVar(&legs, "legs", 0, "Number of legs to select (defaults to engine config)")
	rootCmd.Flags().IntVar(&minOdds, "min-odds", 0, "Minimum American odds per leg")
	rootCmd.Flags().IntVar(&maxOdds, "max-odds", 0, "Maximum American odds per leg")
	rootCmd.Flags().StringVar(&confidenceTier, "confidence", "", "Confidence tier filter: high, medium or low")
	rootCmd.Flags().Float64Var(&wager, "wager", 10, "Wager in dollars for the payout line")
	_ = rootCmd.MarkFlagRequired("home")
	_ = rootCmd.MarkFlagRequired("away")
}

var rootCmd = &cobra.Command{
	Use:   "sgp",
	Short: "Build a Same Game Parlay recommendation",
	Long:  `Fetches player props for an NBA game, scores them, and prints a priced, category-balanced parlay.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies() error {
	appLog = logger.New(cfg.App.LogLevel, cfg.App.Environment)

	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.OddsAPI.TimeoutSeconds) * time.Second
	if cfg.OddsAPI.RateLimitRPS > 0 {
		httpCfg.RateLimit = cfg.OddsAPI.RateLimitRPS
	}
	httpClient := datasource.NewRateLimitedHTTPClient(httpCfg, appLog)

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

	builder = service.NewParlayBuilder(market, scorer, resultCache, appLog, opts...)
	return nil
}

func runBuild(cmd *cobra.Command) error {
	ref := models.GameRef{HomeTeam: homeTeam, AwayTeam: awayTeam}
	if gameDate != "" {
		parsed, err := time.Parse("2006-01-02", gameDate)
		if err != nil {
			return fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", err)
		}
		ref.Date = parsed
	} else {
		ref.Date = time.Now().UTC()
	}

	targetCount := legs
	if targetCount <= 0 {
		targetCount = cfg.Engine.DefaultTargetCount
	}
	if targetCount > cfg.Engine.MaxLegs {
		return fmt.Errorf("--legs %d exceeds configured max of %d", targetCount, cfg.Engine.MaxLegs)
	}

	filters := service.Filters{Tier: service.ConfidenceTier(confidenceTier)}
	if cmd.Flags().Changed("min-odds") {
		filters.MinOdds = &minOdds
	}
	if cmd.Flags().Changed("max-odds") {
		filters.MaxOdds = &maxOdds
	}

	result, err := builder.BuildParlay(cmd.Context(), ref, targetCount, filters)
	if err != nil {
		return err
	}
	if result.Empty() {
		fmt.Printf("No props fit the request for %s.\n", ref.Display())
		return nil
	}

	printResult(ref, result)
	return nil
}

func printResult(ref models.GameRef, result *models.SelectionResult) {
	fmt.Printf("SGP %s  %s\n", ref.Display(), odds.FormatAmerican(result.CombinedOdds))
	fmt.Printf("%d SELECTIONS\n", len(result.Legs))
	for _, leg := range result.Legs {
		line := ""
		if leg.Line != nil {
			line = fmt.Sprintf(" %.1f", *leg.Line)
		}
		fmt.Printf("- %s %s%s (%s)\n", leg.Player, leg.Side, line, odds.FormatAmerican(leg.AmericanOdds))
		fmt.Printf("  %s\n", service.Insight(leg))
	}

	if toWin, err := parlay.ToWin(wager, result.CombinedOdds); err == nil {
		fmt.Printf("Wager $%.2f to win $%.2f\n", wager, toWin)
	}
}
