// Councild is a multi-participant AI conversation engine.
//
// It runs a council of LLM participants against shared threads with
// strict context isolation: each participant sees only user messages
// and its own prior responses. The binary starts the HTTP server with
// full service initialization.
//
// Configuration is loaded from ~/.config/councild/config.yaml and
// environment variables. See internal/config for details.
//
// Usage:
//
//	# Start server with defaults
//	councild
//
//	# Configure via environment
//	SERVER_HTTP_PORT=9000 OPENAI_API_KEY=sk-... councild
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/coolestowl/slack-ai-council/internal/config"
	"github.com/coolestowl/slack-ai-council/internal/council"
	"github.com/coolestowl/slack-ai-council/internal/dedup"
	councilhttp "github.com/coolestowl/slack-ai-council/internal/http"
	"github.com/coolestowl/slack-ai-council/internal/logging"
	"github.com/coolestowl/slack-ai-council/internal/orchestrator"
	"github.com/coolestowl/slack-ai-council/internal/participant"
	"github.com/coolestowl/slack-ai-council/internal/store"
	"github.com/coolestowl/slack-ai-council/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  councild           Start the council server\n")
			fmt.Fprintf(os.Stderr, "  councild version   Show version information\n")
			os.Exit(1)
		}
	}

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("councild\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the council server and blocks until context cancellation.
//
//  1. Loads and validates configuration
//  2. Initializes logger and telemetry
//  3. Builds the participant registry from configured providers
//  4. Wires the thread store, context filter, and orchestrator
//  5. Starts the HTTP server
//  6. Performs graceful shutdown on context cancellation
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	logger.Info("Starting councild",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("default_mode", cfg.Council.DefaultMode),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout.Duration()))

	tel, err := telemetry.New(ctx, cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	specs := make([]participant.Spec, 0, len(cfg.Participants))
	for _, p := range cfg.Participants {
		specs = append(specs, participant.Spec{
			Key:         p.Key,
			DisplayName: p.DisplayName,
			Provider:    p.Provider,
			Model:       p.Model,
			APIKey:      p.ResolvedAPIKey(),
			BaseURL:     p.BaseURL,
			MaxTokens:   p.MaxTokens,
			Temperature: p.Temperature,
		})
	}

	registry, err := participant.BuildRegistry(ctx, logger, specs)
	if err != nil {
		return fmt.Errorf("failed to build participant registry: %w", err)
	}
	logger.Info("Participant registry ready", zap.Int("participants", registry.Len()))

	mem := store.NewMemStore()
	filter := &council.Filter{
		SelfID: cfg.Council.BotUserID,
		Lookup: registry,
	}

	orch := orchestrator.New(registry, mem, mem, filter, logger, orchestrator.Options{
		GenerationTimeout: cfg.Council.GenerationTimeout.Duration(),
		RandSeed:          cfg.Council.RandSeed,
	})

	srv, err := councilhttp.NewServer(orch, mem, dedup.NewSet(cfg.Council.DedupCapacity), logger, &councilhttp.Config{
		Host:        "0.0.0.0",
		Port:        cfg.Server.Port,
		DefaultMode: council.ParseMode(cfg.Council.DefaultMode),
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	// Metrics instrumentation and scrape endpoint
	srv.Echo().Use(councilhttp.NewHTTPMetrics(logger).MetricsMiddleware())
	srv.Echo().GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	logger.Info("Server configured",
		zap.String("health_endpoint", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port)),
		zap.String("metrics_endpoint", "/metrics"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
