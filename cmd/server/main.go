package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/shiva/shuttlesched/config"
	"github.com/shiva/shuttlesched/internal/builder"
	"github.com/shiva/shuttlesched/internal/direction"
	"github.com/shiva/shuttlesched/internal/engine"
	"github.com/shiva/shuttlesched/internal/handler"
	"github.com/shiva/shuttlesched/internal/middleware"
	"github.com/shiva/shuttlesched/internal/repository"
	"github.com/shiva/shuttlesched/internal/routing"
	"github.com/shiva/shuttlesched/internal/scheduler"
	"github.com/shiva/shuttlesched/internal/task"
	"github.com/shiva/shuttlesched/pkg/db"
)

func main() {
	// ── Load configuration ──────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// ── Connect to MongoDB ──────────────────────────────
	mongoClient, err := db.NewMongoClient(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	log.Println("✓ MongoDB connected")

	database := mongoClient.Database(cfg.Mongo.Database)
	if err := db.EnsureIndexes(ctx, database, cfg.Mongo.DirectionTTLSecs); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	// ── Initialize storage layer ────────────────────────
	directionRepo := repository.NewDirectionRepository(database)
	programRepo := repository.NewProgramRepository(database)
	taskRepo := repository.NewTaskRepository(database)

	// ── Initialize C1/C2: routing provider and direction cache ──
	provider := routing.NewGoogleMapsProvider(cfg.Provider.GoogleMapsAPIKey)
	directionTTL := time.Duration(cfg.Mongo.DirectionTTLSecs) * time.Second
	directionCache := direction.New(directionRepo, provider, directionTTL)

	// ── Initialize C5/C6/C7: graph builder and schedulers ──
	graphBuilder := builder.New(directionCache)
	var debugLogger scheduler.DebugLogger
	if cfg.DebugMode {
		debugLogger = scheduler.StdDebugLogger
	}
	greedyScheduler := scheduler.NewGreedy(directionCache, debugLogger)
	cpScheduler := scheduler.NewCP(directionCache, debugLogger)

	schedulerDefaults := builder.Defaults{
		BeforePickupSec:     cfg.Scheduler.BeforePickupSec,
		AfterPickupSec:      cfg.Scheduler.AfterPickupSec,
		DropoffUnloadingSec: cfg.Scheduler.DropoffUnloadingSec,
	}

	// ── Initialize the shared C5→(C6|C7) pipeline ──────
	eng := engine.New(graphBuilder, greedyScheduler, cpScheduler, programRepo, schedulerDefaults)

	// ── Initialize C9: the background task executor ────
	executor := task.New(taskRepo, eng, cfg.Processor.Interval, cfg.Processor.BatchSize)
	go executor.Run(context.Background())
	log.Println("✓ task executor started")

	// ── Initialize C10 handlers ─────────────────────────
	healthHandler := handler.NewHealthHandler(mongoClient)
	directionHandler := handler.NewDirectionHandler(directionCache)
	scheduleHandler := handler.NewScheduleHandler(eng)
	taskHandler := handler.NewTaskHandler(taskRepo)
	programHandler := handler.NewProgramHandler(programRepo)

	// ── Setup router ────────────────────────────────────
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger, middleware.Recoverer)

	// Every route is mounted under /api (spec.md §6).
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/direction", directionHandler.Fetch).Methods(http.MethodGet)
	api.HandleFunc("/schedule", scheduleHandler.Schedule).Methods(http.MethodPost)

	api.HandleFunc("/task", taskHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/task/{id}", taskHandler.Get).Methods(http.MethodGet)

	api.HandleFunc("/program", programHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/program", programHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/program/{id}", programHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/program/{id}", programHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/program/{id}", programHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/program/{id}/vehicles", programHandler.AddVehicle).Methods(http.MethodPost)
	api.HandleFunc("/program/{id}/vehicles/{vehicle_id}", programHandler.UpdateVehicle).Methods(http.MethodPut)
	api.HandleFunc("/program/{id}/vehicles/{vehicle_id}", programHandler.DeleteVehicle).Methods(http.MethodDelete)

	// Wrap with CORS so the scheduling dashboard (and other browser
	// clients) can call the API.
	rootHandler := middleware.CORS(router)

	// ── Start HTTP server ───────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      rootHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in a goroutine so we can listen for shutdown signals.
	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Server.ServerAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// ── Graceful shutdown ───────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("⏳ Shutting down server...")

	// Stop accepting new tasks and let in-flight batches finish before
	// tearing down the HTTP server.
	executor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("✅ Server gracefully stopped")
}
