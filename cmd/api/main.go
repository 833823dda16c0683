package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"techconnect/internal/audit"
	"techconnect/internal/backend"
	"techconnect/internal/config"
	"techconnect/internal/database"
	"techconnect/internal/domain/admin"
	"techconnect/internal/domain/events"
	"techconnect/internal/domain/registration"
	"techconnect/internal/middleware"
	jwtsvc "techconnect/internal/pkg/jwt"
	"techconnect/internal/pkg/logger"
	"techconnect/internal/pkg/metrics"
	"techconnect/internal/pkg/seal"
)

const sweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	codec := registration.NewCodec(seal.New(cfg.DraftSealKey))
	store, closeStore, err := openStore(ctx, cfg, codec, zl)
	if err != nil {
		return err
	}
	defer closeStore()

	client := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout, zl.Named("backend"),
		backend.WithAdminToken(cfg.BackendAdminToken))

	var publisher audit.Publisher = audit.NewLogPublisher(zl)
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaFollowUpTopic, zl)
		if err != nil {
			return fmt.Errorf("kafka publisher: %w", err)
		}
		publisher = kp
	}
	defer func() { _ = publisher.Close() }()

	hub := events.NewHub(zl.Named("events"))
	tokens := jwtsvc.New(cfg.SessionSecret, cfg.SessionTTL)

	controller := registration.NewController(client, publisher, hub, m, zl.Named("wizard"), registration.ControllerConfig{
		LoginURL:      cfg.LoginURL,
		RedirectDelay: cfg.RedirectDelay,
	})
	service := registration.NewService(store, controller, tokens, hub, m, zl.Named("sessions"), registration.ServiceConfig{
		SessionTTL:      cfg.SessionTTL,
		PersistDebounce: cfg.PersistDebounce,
	})

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.ErrorLogger(zl), middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	sessionAuth := middleware.SessionAuth(tokens)
	events.NewHandler(hub, cfg.CORSAllowedOrigins, zl).RegisterRoutes(r, sessionAuth)

	v1 := r.Group("/api/v1")
	registration.NewHandler(service).RegisterRoutes(v1, sessionAuth)
	admin.NewHandler(admin.NewService(client, zl.Named("admin"))).
		RegisterRoutes(v1, middleware.AdminToken(cfg.AdminToken, zl))

	go sweep(ctx, service, zl)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("draft_store", cfg.DraftStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Warn("http shutdown", zap.Error(err))
	}
	hub.Close()
	if err := service.Close(shutdownCtx); err != nil {
		zl.Warn("flush sessions", zap.Error(err))
	}
	zl.Info("stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, codec *registration.Codec, zl *zap.Logger) (registration.Store, func(), error) {
	switch cfg.DraftStore {
	case config.StoreSQL:
		db, err := database.Connect(cfg.DatabaseURL, zl)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		store := registration.NewSQLStore(db, codec)
		if err := store.Migrate(); err != nil {
			return nil, nil, fmt.Errorf("migrate drafts: %w", err)
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return store, closeDB, nil
	case config.StoreRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return registration.NewRedisStore(client, codec), func() { _ = client.Close() }, nil
	default:
		return registration.NewMemoryStore(codec), func() {}, nil
	}
}

func sweep(ctx context.Context, service *registration.Service, zl *zap.Logger) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := service.Sweep(ctx)
			if err != nil {
				zl.Warn("sweep sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				zl.Info("swept expired sessions", zap.Int64("count", n))
			}
		}
	}
}
