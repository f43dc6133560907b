package server

import (
	"context"
	"log"
	"net/http"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/daksh151005/homesync-hub-go/internal/advisor"
	"github.com/daksh151005/homesync-hub-go/internal/api"
	"github.com/daksh151005/homesync-hub-go/internal/audit"
	"github.com/daksh151005/homesync-hub-go/internal/auth"
	"github.com/daksh151005/homesync-hub-go/internal/command"
	"github.com/daksh151005/homesync-hub-go/internal/config"
	"github.com/daksh151005/homesync-hub-go/internal/db"
	"github.com/daksh151005/homesync-hub-go/internal/device"
	"github.com/daksh151005/homesync-hub-go/internal/events"
	"github.com/daksh151005/homesync-hub-go/internal/metrics"
	"github.com/daksh151005/homesync-hub-go/internal/routine"
	"github.com/daksh151005/homesync-hub-go/internal/schedule"
	"github.com/daksh151005/homesync-hub-go/internal/seed"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// requestLoggerMiddleware logs all incoming HTTP requests
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, wrapped.status, time.Since(start).Round(time.Millisecond))
	})
}

// Options controls server wiring.
type Options struct {
	DisableTicker bool
}

// NewHandler builds the HTTP handler and returns a shutdown function.
func NewHandler(cfg config.Config, options Options) (http.Handler, func(context.Context) error, error) {
	log.Printf("Using database: %s", cfg.SQLiteDBPath)
	dbPair, err := db.Init(cfg.SQLiteDBPath)
	if err != nil {
		return nil, nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		dbPair.Close()
		return nil, nil, err
	}

	m := metrics.New()
	hub := events.NewHub()

	deviceRepo := device.NewRepository(dbPair, db.NowISO)
	routineRepo := routine.NewRepository(dbPair)
	scheduleRepo := schedule.NewRepository(dbPair)
	energyRepo := advisor.NewRepository(dbPair)
	auditRepo := audit.NewRepository(dbPair)

	seeder, err := seed.New(deviceRepo, routineRepo, scheduleRepo, energyRepo, cfg.SeedPath)
	if err != nil {
		dbPair.Close()
		return nil, nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.StripSlashes)
	router.Use(requestLoggerMiddleware)
	router.Use(api.RequestIDMiddleware)
	router.Use(api.RecovererMiddleware)
	router.Use(auth.Middleware(cfg))
	router.Use(seedMiddleware(seeder))

	registerHealthRoutes(router, dbPair)
	router.Method(http.MethodGet, "/metrics", m.Handler())

	pairingStore := auth.NewPairingStore(5 * time.Minute)
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	pairingStore.StartCleanup(shutdownCtx, time.Minute)
	auth.RegisterRoutes(router, pairingStore, cfg)

	auditService := audit.NewService(auditRepo, cfg.AuditRetentionDays)
	audit.RegisterRoutes(router, auditService)
	auditService.StartPruneJob()

	deviceService := device.NewService(deviceRepo, auditService, hub, m)
	device.RegisterRoutes(router, deviceService)

	routineService := routine.NewService(routineRepo, deviceService, auditService, hub, m)
	routine.RegisterRoutes(router, routineService)

	scheduleService := schedule.NewService(scheduleRepo, deviceService, auditService, hub, m)
	schedule.RegisterRoutes(router, scheduleService)

	ticker := schedule.NewTicker(scheduleService, loc)
	if !options.DisableTicker && cfg.TickerEnabled {
		ticker.Start()
	}

	commandService := command.NewService(deviceService, auditService, m)
	command.RegisterRoutes(router, commandService)

	advisorService := advisor.NewService(energyRepo, deviceService, auditService, hub, m)
	advisor.RegisterRoutes(router, advisorService)

	events.RegisterRoutes(router, hub)

	auditService.Record("local", audit.EventSystemStartup, "HomeSync hub started", map[string]any{
		"env": cfg.Env,
	})

	shutdown := func(ctx context.Context) error {
		shutdownCancel()
		ticker.Stop()
		auditService.StopPruneJob()
		hub.Close()
		if ctx == nil {
			ctx = context.Background()
		}
		return dbPair.Close()
	}

	return router, shutdown, nil
}

// seedMiddleware provisions the first-run dataset for the request's
// user before any handler touches the registry.
func seedMiddleware(seeder *seed.Seeder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID := auth.UserID(r.Context()); userID != "" {
				if err := seeder.EnsureUser(userID); err != nil {
					log.Printf("Seed failed for user %s: %v", userID, err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func registerHealthRoutes(router chi.Router, dbPair *db.DBPair) {
	router.Method(http.MethodGet, "/v1/health", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		response := map[string]any{
			"status":    "healthy",
			"service":   "homesync-hub",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		return api.WriteJSON(w, http.StatusOK, response)
	}))
	router.Method(http.MethodGet, "/v1/health/live", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		return api.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	}))
	router.Method(http.MethodGet, "/v1/health/ready", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		if err := dbPair.Reader().PingContext(r.Context()); err != nil {
			return api.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
		}
		return api.WriteJSON(w, http.StatusOK, map[string]any{"status": "ready"})
	}))
}
