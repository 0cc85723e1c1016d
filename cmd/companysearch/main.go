package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/marovi/company-search/internal/config"
	"github.com/marovi/company-search/internal/db/mongodb"
	logpkg "github.com/marovi/company-search/internal/logger"
	"github.com/marovi/company-search/internal/metrics"
	"github.com/marovi/company-search/internal/repository/embcache"
	searchrepo "github.com/marovi/company-search/internal/repository/search"
	openaiEmb "github.com/marovi/company-search/internal/transport/openai"
	"github.com/marovi/company-search/internal/transport/web"
	healthuc "github.com/marovi/company-search/internal/usecase/health"
	searchuc "github.com/marovi/company-search/internal/usecase/search"
	"github.com/marovi/company-search/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting company search server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("embedding_model", cfg.Embedding.Model),
	)

	// Connect to MongoDB Atlas — startup aborts if the ping fails.
	ctx := context.Background()
	mongoClient, err := mongodb.Connect(ctx, mongodb.Config{
		URI:            cfg.Mongo.URI,
		ConnectTimeout: time.Duration(cfg.Mongo.ConnectTimeoutSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = mongoClient.Close(context.Background()) }()
	logger.Info("Connected to database")

	// Register embedding and search metrics explicitly (no init())
	metrics.RegisterAppMetrics()

	// Embedder chain: OpenAI -> in-process cache
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:  cfg.Embedding.APIKey,
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
		Logger:  logger,
	})
	embedder := embcache.New(base, metrics.EmbeddingCacheTotal, logger)
	logger.Info("Embedder created", zap.String("model", cfg.Embedding.Model))

	// Repositories and services
	gateway := searchrepo.New(mongoClient, logger)
	searchSvc := searchuc.New(embedder, gateway, logger)
	healthSvc := healthuc.New(mongoClient, embedder)

	server := web.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(htmlRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())

	r.Get("/", server.Index)
	r.Post("/search", server.Search)
	r.Get("/healthz", server.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

// htmlRecoverer is a recovery middleware that returns a minimal error page
// instead of a plain text stacktrace.
func htmlRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "text/html; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte("<!DOCTYPE html><html><body><h1>Internal error</h1></body></html>"))
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

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
