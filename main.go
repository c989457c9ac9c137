package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/charmbracelet/log"
	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sammyAPI/handlers"
	"sammyAPI/internal/chat"
	"sammyAPI/internal/config"
	"sammyAPI/internal/gcp"
	"sammyAPI/internal/logger"
	"sammyAPI/internal/metrics"
	"sammyAPI/internal/notification"
	"sammyAPI/internal/store"
	"sammyAPI/middleware"
	"sammyAPI/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration", "err", err)
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})

	clerk.SetKey(cfg.ClerkSecretKey)
	log.Info("Clerk initialized successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The Firebase app is shared by the Firestore store and FCM. It is only
	// required when Firestore is the backend.
	var app *firebase.App
	if cfg.StoreBackend == config.BackendFirestore || cfg.PushEnabled {
		app, err = gcp.NewFirebaseApp(ctx, gcp.Credentials{
			EncodedJSON: cfg.FirebaseCredentialsJSON,
			File:        cfg.FirebaseCredentialsFile,
			ProjectID:   cfg.FirebaseProjectID,
		})
		if err != nil {
			if cfg.StoreBackend == config.BackendFirestore {
				log.Fatal("Failed to initialize Firebase", "err", err)
			}
			log.Warn("Could not initialize Firebase, push notifications disabled", "err", err)
		}
	}

	st, err := openStore(ctx, cfg, app)
	if err != nil {
		log.Fatal("Failed to open store", "backend", cfg.StoreBackend, "err", err)
	}
	defer func() {
		log.Info("Closing store...")
		st.Close()
	}()

	var notifier notification.Notifier
	if cfg.PushEnabled && app != nil {
		fcmService, err := notification.NewFCMService(ctx, app)
		if err != nil {
			log.Warn("Could not initialize FCM", "err", err)
		} else {
			notifier = fcmService
			log.Info("FCM push provider initialized successfully")
		}
	}

	var completer chat.Completer = chat.Disabled{}
	if cfg.LLMAPIKey != "" {
		completer = chat.NewOpenAICompleter(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel)
		log.Info("Chat assistant enabled", "model", cfg.LLMModel)
	} else {
		log.Warn("LLM_API_KEY not set, chat and summaries are disabled")
	}

	middleware.InitPrometheus(prometheus.DefaultRegisterer)
	metrics.Register(prometheus.DefaultRegisterer)

	userService := services.NewUserService(st)
	logService := services.NewLogService(st, userService)
	statsService := services.NewStatsService(st, userService, completer)
	milestoneService := services.NewMilestoneService(userService, statsService, notifier)
	chatService := services.NewChatService(st, userService, statsService, completer, cfg.ChatDailyLimit)

	statsHandler := handlers.NewStatsHandler(statsService, logService)
	logHandler := handlers.NewLogHandler(logService)
	userHandler := handlers.NewUserHandler(userService, milestoneService)
	chatHandler := handlers.NewChatHandler(chatService)
	healthHandler := handlers.NewHealthHandler(st)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Cleanup(ctx)

	r := mux.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	if cfg.ClerkWebhookSecret != "" {
		webhookHandler, err := handlers.NewWebhookHandler(userService, cfg.ClerkWebhookSecret)
		if err != nil {
			log.Fatal("Invalid CLERK_WEBHOOK_SECRET", "err", err)
		}
		r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")
	}
	r.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.MetricsUser, cfg.MetricsPass)(promhttp.Handler())).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.ClerkAuthMiddleware)
	api.Use(limiter.Middleware)

	api.HandleFunc("/log", logHandler.Increment).Methods("POST")
	api.HandleFunc("/log", logHandler.Set).Methods("PUT")
	api.HandleFunc("/log", logHandler.Delete).Methods("DELETE")

	api.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")
	api.HandleFunc("/stats/range", statsHandler.GetRange).Methods("GET")
	api.HandleFunc("/stats/cumulative", statsHandler.GetCumulative).Methods("GET")
	api.HandleFunc("/stats/all-time", statsHandler.GetAllTime).Methods("GET")

	api.HandleFunc("/user/milestones", userHandler.GetMilestones).Methods("GET")
	api.HandleFunc("/user/weekly-plan", userHandler.GetWeeklyPlan).Methods("GET")
	api.HandleFunc("/user/weekly-plan", userHandler.SaveWeeklyPlan).Methods("POST")
	api.HandleFunc("/user/settings", userHandler.GetSettings).Methods("GET")
	api.HandleFunc("/user/settings", userHandler.UpdateSettings).Methods("PUT")
	api.HandleFunc("/user/devices", userHandler.RegisterDevice).Methods("POST")

	api.HandleFunc("/chat", chatHandler.Send).Methods("POST")
	api.HandleFunc("/chat/context", chatHandler.GetContext).Methods("GET")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Request-ID"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length", "X-Request-ID"}),
	)

	server := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("Starting server", "port", cfg.Port, "store", cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", "err", err)
	}

	log.Info("Server shutdown complete")
}

func openStore(ctx context.Context, cfg *config.Config, app *firebase.App) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		fs, err := store.NewFirestoreStore(ctx, app)
		if err != nil {
			return nil, err
		}
		log.Info("Firestore store initialized")
		return fs, nil

	case config.BackendPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse database URL: %w", err)
		}
		poolConfig.MaxConns = 25
		poolConfig.MinConns = 5
		poolConfig.MaxConnLifetime = time.Hour
		poolConfig.MaxConnIdleTime = 30 * time.Minute
		poolConfig.HealthCheckPeriod = time.Minute

		pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(connectCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		pg := store.NewPostgresStore(pool)
		if err := pg.Migrate(connectCtx); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("Successfully connected to Postgres")
		return pg, nil

	case config.BackendMemory:
		log.Warn("Using in-memory store, data will not survive a restart")
		return store.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
