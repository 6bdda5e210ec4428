package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hitsource/internal/config"
	dbRedis "github.com/kailas-cloud/hitsource/internal/db/redis"
	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
	logpkg "github.com/kailas-cloud/hitsource/internal/logger"
	"github.com/kailas-cloud/hitsource/internal/metrics"
	indexrepo "github.com/kailas-cloud/hitsource/internal/repository/index"
	sourcerepo "github.com/kailas-cloud/hitsource/internal/repository/source"
	chiTransport "github.com/kailas-cloud/hitsource/internal/transport/chi"
	documentuc "github.com/kailas-cloud/hitsource/internal/usecase/document"
	fetchuc "github.com/kailas-cloud/hitsource/internal/usecase/fetch"
	"github.com/kailas-cloud/hitsource/internal/usecase/fetchsource"
	healthuc "github.com/kailas-cloud/hitsource/internal/usecase/health"
	indexuc "github.com/kailas-cloud/hitsource/internal/usecase/index"
	"github.com/kailas-cloud/hitsource/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting hitsource API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Sources are plain hashes, so valkey and redis share one client.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Database.Addrs,
		Username:   cfg.Database.Username,
		Password:   cfg.Database.Password,
		DB:         cfg.Database.DB,
		ClientName: logpkg.ServiceName,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register source metrics explicitly (no init())
	metrics.RegisterSourceMetrics()

	order, err := fetchsource.ParseNestedOrder(cfg.Fetch.NestedFilterOrder)
	if err != nil {
		logger.Fatal("Invalid fetch config", zap.Error(err))
	}

	// Repositories
	indexRepo := indexrepo.New(store, cfg.Storage.KeyPrefix)
	sourceRepo := sourcerepo.New(store, cfg.Storage.KeyPrefix)

	// Use case services
	projector := fetchsource.New(codec.Codec{}).
		WithNestedOrder(order).
		WithRecorder(fetchsource.PrometheusRecorder{})
	indexSvc := indexuc.New(indexRepo, sourceRepo)
	docSvc := documentuc.New(sourceRepo, indexRepo, codec.Codec{}).
		WithMaxSourceSize(cfg.Fetch.MaxSourceBytes)
	fetchSvc := fetchuc.New(indexRepo, sourceRepo, projector, codec.Codec{}).
		WithLimits(cfg.Fetch.Workers, cfg.Fetch.MaxHitsPerRequest)
	healthSvc := healthuc.New(store)

	logger.Info("Fetch phase configured",
		zap.Int("workers", cfg.Fetch.Workers),
		zap.Int("max_hits", cfg.Fetch.MaxHitsPerRequest),
		zap.Stringer("nested_filter_order", order),
	)

	// Create chi server
	server := chiTransport.NewServer(indexSvc, docSvc, fetchSvc, healthSvc, logger).
		WithMaxBodyBytes(cfg.Fetch.MaxSourceBytes + 64<<10)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
