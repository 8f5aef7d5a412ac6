package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BIDMYLIFE/POS/internal/cache"
	"github.com/BIDMYLIFE/POS/internal/config"
	"github.com/BIDMYLIFE/POS/internal/httpapi"
	"github.com/BIDMYLIFE/POS/internal/logging"
	"github.com/BIDMYLIFE/POS/internal/service"
	"github.com/BIDMYLIFE/POS/internal/store"
	"github.com/BIDMYLIFE/POS/internal/store/memory"
	pgstore "github.com/BIDMYLIFE/POS/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("postgres unavailable and DATABASE_URL is set; refusing to start with in-memory fallback", zap.Error(err))
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Fatal("postgres schema", zap.Error(err))
		}
		repo = pg
		closers = append(closers, pg.Close)
		logger.Info("repository: postgres")
	} else {
		repo = memory.New()
		logger.Info("repository: in-memory")
	}

	productCache := cache.ProductCache(cache.NoopProductCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisProductCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, using noop cache", zap.Error(err))
			_ = redisCache.Close()
		} else {
			productCache = redisCache
			closers = append(closers, redisCache.Close)
			logger.Info("cache: redis", zap.String("addr", cfg.RedisAddr))
		}
	} else {
		logger.Info("cache: noop")
	}

	svc := service.New(repo, service.Options{
		ProductCache: productCache,
		CacheTTL:     cfg.ProductCacheTTL(),
		Logger:       logger,
	})
	if _, err := svc.SeedCatalog(ctx); err != nil {
		logger.Fatal("seed catalog", zap.Error(err))
	}
	api := httpapi.New(svc, cfg.AllowedOrigin, logger)

	server := &http.Server{
		Addr:              cfg.BackendAddress(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("catalog backend listening", zap.String("addr", cfg.BackendAddress()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error("close error", zap.Error(err))
		}
	}

	logger.Info("catalog backend stopped")
}
