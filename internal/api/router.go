package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/helios-game/helios/internal/api/handlers"
	mw "github.com/helios-game/helios/internal/api/middleware"
	"github.com/helios-game/helios/internal/buildconfig"
	"github.com/helios-game/helios/internal/character"
	"github.com/helios-game/helios/internal/domain"
	"github.com/helios-game/helios/internal/history"
	"github.com/helios-game/helios/internal/llm"
	"github.com/helios-game/helios/internal/service"
	"github.com/helios-game/helios/internal/store"
	"github.com/helios-game/helios/internal/store/sqlite"
	"go.uber.org/zap"
)

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the stores and clients the HTTP surface is built on.
// LLM may be nil; chat and echo-chamber entry then answer 503.
type Dependencies struct {
	Players      domain.PlayerStore
	Events       domain.EventStore
	NPCs         domain.NPCStore
	History      domain.HistoryStore
	LLM          domain.LLMClient
	HistoryTurns int
	HealthChecks map[string]Pinger
	CORSOrigins  []string
}

// App holds the router and the request metrics.
type App struct {
	Router  *chi.Mux
	metrics *mw.MetricsCollector
	checks  map[string]Pinger
}

func NewApp(deps Dependencies, logger *zap.Logger) *App {
	// Services
	playerSvc := service.NewPlayerService(deps.Players, deps.Events)
	chatSvc := service.NewChatService(deps.Players, deps.NPCs, deps.History, deps.LLM, deps.HistoryTurns, logger)
	echoSvc := service.NewEchoChamberService(deps.Players, deps.Events, deps.LLM, logger)

	// Handlers
	playerHandler := handlers.NewPlayerHandler(playerSvc)
	npcHandler := handlers.NewNPCHandler(deps.NPCs)
	chatHandler := handlers.NewChatHandler(chatSvc)
	echoHandler := handlers.NewEchoChamberHandler(echoSvc)

	r := chi.NewRouter()
	app := &App{
		Router:  r,
		metrics: mw.NewMetricsCollector(),
		checks:  deps.HealthChecks,
	}

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.metrics.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{mw.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", rootHandler)
	r.Get("/health", app.healthHandler)
	r.Get("/metrics", app.metricsHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/create_character", playerHandler.CreateCharacter)
		r.Route("/players/{id}", func(r chi.Router) {
			r.Get("/", playerHandler.GetByID)
			r.Get("/events", playerHandler.ListEvents)
		})
		r.Get("/npcs", npcHandler.List)
		r.Post("/chat", chatHandler.Chat)
		r.Post("/enter_echo_chamber", echoHandler.Enter)
		r.Post("/resolve_echo_chamber", echoHandler.Resolve)
	})

	return app
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": buildconfig.ServiceName + " is running",
		"version": buildconfig.Version(),
	})
}

func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(app.checks))
	for name, check := range app.checks {
		if err := check.Ping(ctx); err != nil {
			components[name] = "unhealthy: " + err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "healthy"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	writeJSON(w, status, map[string]any{"status": overall, "components": components})
}

func (app *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snap := app.metrics.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"uptime_seconds": snap.Uptime.Seconds(),
		"uptime_human":   snap.Uptime.Round(time.Second).String(),
		"request_count":  snap.RequestCount,
		"client_errors":  snap.ClientErrors,
		"server_errors":  snap.ServerErrors,
		"goroutines":     runtime.NumGoroutine(),
		"memory": map[string]any{
			"alloc_mb": float64(memStats.Alloc) / 1024 / 1024,
			"sys_mb":   float64(memStats.Sys) / 1024 / 1024,
			"num_gc":   memStats.NumGC,
		},
		"build": buildconfig.VersionInfo(),
	})
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.PlayerStore  = (*store.PlayerStore)(nil)
	_ domain.EventStore   = (*store.EventStore)(nil)
	_ domain.NPCStore     = (*store.NPCStore)(nil)
	_ domain.PlayerStore  = (*sqlite.PlayerStore)(nil)
	_ domain.EventStore   = (*sqlite.EventStore)(nil)
	_ domain.NPCStore     = (*sqlite.NPCStore)(nil)
	_ domain.NPCStore     = (*character.FileSource)(nil)
	_ domain.HistoryStore = (*history.MemoryStore)(nil)
	_ domain.HistoryStore = (*history.RedisStore)(nil)
	_ domain.LLMClient    = (*llm.OpenAIClient)(nil)
	_ domain.LLMClient    = (*llm.MockClient)(nil)
	_ Pinger              = (*store.PlayerStore)(nil)
	_ Pinger              = (*sqlite.PlayerStore)(nil)
	_ Pinger              = (*history.RedisStore)(nil)
)
