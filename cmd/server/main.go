package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tuannh/noichu/internal/api"
	"github.com/tuannh/noichu/internal/factory"
	"github.com/tuannh/noichu/internal/services/oracle"
	redisstorage "github.com/tuannh/noichu/internal/storage/redis"
)

func main() {
	// Load .env if present; real env vars take precedence
	_ = godotenv.Load()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:       logger,
		StorageType:  os.Getenv("STORAGE_TYPE"),
		OracleType:   os.Getenv("ORACLE_TYPE"),
		WordlistPath: os.Getenv("WORDLIST_PATH"),
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	if cfg.OracleType == factory.OracleTypeLLM {
		llmCfg := oracle.DefaultLLMConfig()
		llmCfg.APIKey = os.Getenv("LLM_API_KEY")
		if llmCfg.APIKey == "" {
			logger.Error("LLM_API_KEY required when ORACLE_TYPE=llm")
			os.Exit(1)
		}
		if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
			llmCfg.BaseURL = baseURL
		}
		if model := os.Getenv("LLM_MODEL"); model != "" {
			llmCfg.Model = model
		}
		cfg.LLMConfig = &llmCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		GameController: app.GameController,
		StatsService:   app.StatsService,
		Relay:          app.Relay,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			serverConfig.Port = n
		}
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Run the turn reaper so turns expire without client help
	reaperInterval := 0 * time.Second
	if raw := os.Getenv("REAPER_INTERVAL_SECONDS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			reaperInterval = time.Duration(n) * time.Second
		}
	}
	go app.GameController.RunReaper(ctx, reaperInterval)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
