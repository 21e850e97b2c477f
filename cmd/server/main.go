package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stockbuddy/stockbuddy-api/internal/auth"
	"github.com/stockbuddy/stockbuddy-api/internal/clickhouse"
	"github.com/stockbuddy/stockbuddy-api/internal/config"
	"github.com/stockbuddy/stockbuddy-api/internal/database"
	"github.com/stockbuddy/stockbuddy-api/internal/events"
	"github.com/stockbuddy/stockbuddy-api/internal/handlers"
	"github.com/stockbuddy/stockbuddy-api/internal/logger"
	"github.com/stockbuddy/stockbuddy-api/internal/marketdata"
	"github.com/stockbuddy/stockbuddy-api/internal/middleware"
	"github.com/stockbuddy/stockbuddy-api/internal/redis"
	"github.com/stockbuddy/stockbuddy-api/internal/service"
	"github.com/stockbuddy/stockbuddy-api/internal/storage"
)

func main() {
	log := logger.New("server")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	dbConfig := database.Config{
		PrimaryDSN:      cfg.Database.PrimaryDSN,
		ReplicaDSNs:     cfg.Database.ReplicaDSNs,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	}

	dbManager, err := database.NewDBManager(ctx, dbConfig)
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer dbManager.Close()

	redisClient, err := redis.NewRedisClient(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, time.Hour)

	userStorage := storage.NewUserStorage(dbManager)
	watchlistStorage := storage.NewWatchlistStorage(dbManager)
	predictionStorage := storage.NewPredictionStorage(dbManager)

	authService := service.NewAuthService(userStorage, jwtManager)
	watchlistService := service.NewWatchlistService(watchlistStorage)
	predictionService := service.NewPredictionService(predictionStorage)

	marketClient := marketdata.NewClient(marketdata.Config{
		APIKey:    cfg.MarketData.APIKey,
		BaseURL:   cfg.MarketData.BaseURL,
		Exchanges: cfg.MarketData.Exchanges,
		Timeout:   cfg.MarketData.Timeout,
	})

	auditProducer := events.NewAuditProducer(redisClient.GetClient(), cfg.Redis.AuditStream)

	chClient, err := clickhouse.NewClient(cfg.ClickHouse)
	if err != nil {
		log.Fatal("Failed to connect to ClickHouse: %v", err)
	}
	defer chClient.Close()

	authHandler := handlers.NewAuthHandler(authService, auditProducer)
	activityHandler := handlers.NewActivityHandler(chClient)
	watchlistHandler := handlers.NewWatchlistHandler(watchlistService)
	predictionHandler := handlers.NewPredictionHandler(predictionService)
	stockHandler := handlers.NewStockHandler(marketClient)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager)
	rateLimiter := middleware.NewRateLimiter(
		redisClient.GetClient(),
		cfg.RateLimit.Requests,
		cfg.RateLimit.Window,
	)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/signup", rateLimiter.Middleware(authHandler.Signup))
	mux.HandleFunc("/api/auth/login", rateLimiter.Middleware(authHandler.Login))
	mux.HandleFunc("/api/auth/user", authMiddleware.RequireAuth(authHandler.GetUser))
	mux.HandleFunc("/api/auth/activity", authMiddleware.RequireAuth(activityHandler.GetActivity))
	mux.HandleFunc("/api/auth/forgot-password", rateLimiter.Middleware(authHandler.ForgotPassword))
	mux.HandleFunc("/api/auth/reset-password", authHandler.ResetPassword)
	mux.HandleFunc("/api/auth/reset-password/", authHandler.ValidateResetToken)

	mux.HandleFunc("/api/watchlist", authMiddleware.RequireAuth(watchlistHandler.List))
	mux.HandleFunc("/api/watchlist/add", authMiddleware.RequireAuth(watchlistHandler.Add))
	mux.HandleFunc("/api/watchlist/delete", authMiddleware.RequireAuth(watchlistHandler.Delete))

	mux.HandleFunc("/api/predictions", authMiddleware.RequireAuth(predictionHandler.List))
	mux.HandleFunc("/api/predictions/add", authMiddleware.RequireAuth(predictionHandler.Add))

	mux.HandleFunc("/api/stocks/search", authMiddleware.RequireAuth(stockHandler.Search))
	mux.HandleFunc("/api/stocks/timeseries", authMiddleware.RequireAuth(stockHandler.TimeSeries))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := dbManager.Ping(r.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	handler := middleware.Recovery(log)(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Listening on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown: %v", err)
	}

	log.Info("Server stopped")
}
