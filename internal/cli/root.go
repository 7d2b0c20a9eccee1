package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/screener/internal/core/config"
	"github.com/vietddude/screener/internal/infra/chainalysis"
	rediscache "github.com/vietddude/screener/internal/infra/redis"
	"github.com/vietddude/screener/internal/infra/trongrid"
	"github.com/vietddude/screener/internal/infra/tronscan"
	"github.com/vietddude/screener/internal/screening/detector"
	"github.com/vietddude/screener/internal/screening/pipeline"
	transport "github.com/vietddude/screener/internal/transport/http"
	"github.com/vietddude/stylelog"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Screener risk-evaluation service",
	Long:  `Screener evaluates Tron addresses for suspicious TRC-20 activity and sanctions exposure.`,
	Run:   runScreener,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

func runScreener(cmd *cobra.Command, args []string) {
	_ = godotenv.Load()

	// Load Configuration
	cfg, err := config.Load(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logging
	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})

	// Optional upstream-response cache
	cache, err := rediscache.NewCache(rediscache.Config{
		URL:      cfg.Redis.URL,
		Password: cfg.Redis.Password,
	})
	if err != nil {
		slog.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	// Wire the pipeline
	asset := cfg.Screening.TrackedAsset
	transactions := trongrid.NewClient(cfg.Upstreams.TronGrid, asset)
	profiles := tronscan.NewClient(cfg.Upstreams.Tronscan, asset)
	sanctions := chainalysis.NewClient(cfg.Upstreams.Chainalysis, cache)
	hiding := detector.NewHidingDetector(
		transactions,
		time.Duration(cfg.Screening.MinIntervalSeconds)*time.Second,
		cfg.Screening.RelayTolerance,
	)

	evaluator := pipeline.New(cfg.Screening, transactions, profiles, sanctions, hiding)
	server := transport.NewServer(evaluator, cfg.Server.Port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	slog.Info("Screener started", "port", cfg.Server.Port, "config", cfgPath)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
	case err := <-errChan:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}
}
