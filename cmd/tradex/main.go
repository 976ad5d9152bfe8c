package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tradex/internal/config"
	dbRedis "github.com/kailas-cloud/tradex/internal/db/redis"
	logpkg "github.com/kailas-cloud/tradex/internal/logger"
	"github.com/kailas-cloud/tradex/internal/metrics"
	entitlementrepo "github.com/kailas-cloud/tradex/internal/repository/entitlement"
	hitsrepo "github.com/kailas-cloud/tradex/internal/repository/hits"
	listingrepo "github.com/kailas-cloud/tradex/internal/repository/listing"
	premiumrepo "github.com/kailas-cloud/tradex/internal/repository/premium"
	schemarepo "github.com/kailas-cloud/tradex/internal/repository/schema"
	"github.com/kailas-cloud/tradex/internal/transport/appstore"
	chiTransport "github.com/kailas-cloud/tradex/internal/transport/chi"
	contentuc "github.com/kailas-cloud/tradex/internal/usecase/content"
	entitlementuc "github.com/kailas-cloud/tradex/internal/usecase/entitlement"
	healthuc "github.com/kailas-cloud/tradex/internal/usecase/health"
	popularityuc "github.com/kailas-cloud/tradex/internal/usecase/popularity"
	searchuc "github.com/kailas-cloud/tradex/internal/usecase/search"
	"github.com/kailas-cloud/tradex/internal/version"
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

	logger.Info("Starting tradex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("verifier_env", cfg.Verifier.Environment),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
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

	// Register domain metrics explicitly (no init())
	metrics.RegisterEntitlementMetrics()

	// Repositories
	prefix := cfg.Storage.KeyPrefix
	schemaRepo := schemarepo.New(store, prefix)
	listingRepo := listingrepo.New(store, prefix)
	premiumRepo := premiumrepo.New(store, prefix)
	entitlementStore := entitlementrepo.New(store, prefix)
	hitsStore := hitsrepo.New(store, prefix)

	ensureIndexes(ctx, schemaRepo, listingRepo, premiumRepo, logger)

	// Receipt verification — the environment is server configuration, never
	// taken from the request.
	verifier, err := appstore.New(appstore.Config{
		Environment:   appstore.Environment(cfg.Verifier.Environment),
		ProductionURL: cfg.Verifier.ProductionURL,
		SandboxURL:    cfg.Verifier.SandboxURL,
		Timeout:       time.Duration(cfg.Verifier.TimeoutSec) * time.Second,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create receipt verifier", zap.Error(err))
	}

	// Use case services. Two sampled counters share the statistical contract:
	// ad views land in the plain counter keys, post views increment the hits
	// field inside the indexed post document so the popular ranking sees them.
	entitlementSvc := entitlementuc.New(
		entitlementStore, verifier,
		time.Duration(cfg.Entitlement.TTLDays)*24*time.Hour, logger,
	)
	adHits := popularityuc.New(hitsStore, premiumRepo, cfg.Counter.SampleRate)
	postHits := popularityuc.New(premiumRepo, premiumRepo, cfg.Counter.SampleRate)
	searchSvc := searchuc.New(
		schemaRepo, listingRepo, adHits,
		cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize,
	)
	contentSvc := contentuc.New(premiumRepo, entitlementSvc, postHits)
	healthSvc := healthuc.New(store, schemaHealthChecker{schemas: schemaRepo})

	server := chiTransport.NewServer(searchSvc, contentSvc, postHits, healthSvc, logger).
		WithPagination(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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

// ensureIndexes creates the listing and post search indexes. The listing
// index carries the schema's extra fields; when the schema is not yet
// loaded the index is created with the fixed fields only and the next
// restart picks up the extras.
func ensureIndexes(
	ctx context.Context,
	schemas *schemarepo.Repo,
	listings *listingrepo.Repo,
	posts *premiumrepo.Repo,
	logger *zap.Logger,
) {
	sch, err := schemas.Fetch(ctx)
	if err != nil {
		logger.Warn("Search schema unavailable at startup, creating listing index without extra fields",
			zap.Error(err))
	}

	if err := listings.EnsureIndex(ctx, sch.Fields()); err != nil {
		logger.Fatal("Failed to create listing index", zap.Error(err))
	}
	if err := posts.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to create post index", zap.Error(err))
	}
	logger.Info("Search indexes ready")
}

// schemaHealthChecker wraps the schema repository to implement health.SchemaChecker.
type schemaHealthChecker struct {
	schemas *schemarepo.Repo
}

func (h schemaHealthChecker) Check(ctx context.Context) error {
	if _, err := h.schemas.Fetch(ctx); err != nil {
		return fmt.Errorf("schema health check: %w", err)
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
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

			// Set X-Request-ID in response header
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
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
