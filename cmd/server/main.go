package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/helios-game/helios/internal/api"
	"github.com/helios-game/helios/internal/buildconfig"
	"github.com/helios-game/helios/internal/character"
	"github.com/helios-game/helios/internal/config"
	"github.com/helios-game/helios/internal/domain"
	"github.com/helios-game/helios/internal/history"
	"github.com/helios-game/helios/internal/llm"
	"github.com/helios-game/helios/internal/observability"
	"github.com/helios-game/helios/internal/store"
	"github.com/helios-game/helios/internal/store/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func newLogger() (*zap.Logger, error) {
	if config.LogLevel() == "debug" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(config.LogLevel())); err != nil {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

// openStores connects the configured record store. The returned cleanup
// closes the underlying connection.
func openStores(ctx context.Context, logger *zap.Logger, deps *api.Dependencies) (domain.NPCStore, func(), error) {
	switch config.StoreDriver() {
	case "sqlite":
		db, err := sqlite.Open(ctx, config.SQLitePath())
		if err != nil {
			return nil, nil, err
		}
		players := sqlite.NewPlayerStore(db)
		deps.Players = players
		deps.Events = sqlite.NewEventStore(db)
		deps.HealthChecks["database"] = players
		logger.Info("using sqlite store", zap.String("path", config.SQLitePath()))
		return sqlite.NewNPCStore(db), func() { _ = db.Close() }, nil

	case "postgres":
		dbURL := config.DatabaseURL()
		if dbURL == "" {
			return nil, nil, errors.New("DATABASE_URL is required")
		}
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("connected to database")

		if config.AutoMigrate() {
			if err := store.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
			logger.Info("migrations applied")
		}

		players := store.NewPlayerStore(pool)
		deps.Players = players
		deps.Events = store.NewEventStore(pool)
		deps.HealthChecks["database"] = players
		return store.NewNPCStore(pool), pool.Close, nil

	default:
		return nil, nil, errors.New("unknown STORE_DRIVER (valid options: postgres, sqlite)")
	}
}

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	logger, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	tracingCfg, err := config.LoadTracing()
	if err != nil {
		logger.Fatal("failed to load tracing config", zap.Error(err))
	}
	tracer, err := observability.InitTracing(ctx, tracingCfg, buildconfig.Version())
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}
	logger.Info("tracing configured", zap.Bool("enabled", tracer.IsEnabled()))

	deps := api.Dependencies{
		HistoryTurns: config.HistoryMaxTurns(),
		HealthChecks: make(map[string]api.Pinger),
		CORSOrigins:  config.CORSOrigins(),
	}

	storeNPCs, closeStore, err := openStores(ctx, logger, &deps)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", config.StoreDriver()), zap.Error(err))
	}
	defer closeStore()

	switch config.NPCSource() {
	case "yaml":
		deps.NPCs = character.NewFileSource(config.CharactersDir())
		logger.Info("loading NPCs from character files", zap.String("dir", config.CharactersDir()))
	default:
		deps.NPCs = storeNPCs
	}

	if redisURL := config.RedisURL(); redisURL != "" {
		rs, err := history.NewRedisStore(redisURL, config.HistoryMaxTurns(), logger)
		if err != nil {
			logger.Fatal("failed to configure redis history", zap.Error(err))
		}
		defer func() { _ = rs.Close() }()
		deps.History = rs
		deps.HealthChecks["redis"] = rs
	} else {
		deps.History = history.NewMemoryStore(config.HistoryMaxTurns())
		logger.Info("REDIS_URL not set, keeping conversation history in memory")
	}

	llmProvider := config.LLMProvider()
	llmClient, err := llm.NewClient(llmProvider, llm.Options{
		APIKey:  config.OpenAIAPIKey(),
		BaseURL: config.LLMBaseURL(),
		Model:   config.LLMModel(),
	})
	if err != nil {
		logger.Warn("LLM client initialization failed", zap.String("provider", llmProvider), zap.Error(err))
	} else {
		deps.LLM = llmClient
		logger.Info("LLM client initialized", zap.String("provider", llmProvider))
	}

	app := api.NewApp(deps, logger)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr), zap.String("version", buildconfig.Version()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("failed to flush traces", zap.Error(err))
	}

	logger.Info("server stopped")
}
