package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	cartapp "github.com/qkartio/cart-service/internal/cart/app"
	cartadapter "github.com/qkartio/cart-service/internal/cart/infra/adapter"
	cartpg "github.com/qkartio/cart-service/internal/cart/infra/postgres"

	catalogapp "github.com/qkartio/cart-service/internal/catalog/app"
	catalogpg "github.com/qkartio/cart-service/internal/catalog/infra/postgres"
	"github.com/qkartio/cart-service/internal/catalog/infra/rediscache"

	userapp "github.com/qkartio/cart-service/internal/user/app"
	userpg "github.com/qkartio/cart-service/internal/user/infra/postgres"

	"github.com/qkartio/cart-service/internal/router"
	"github.com/qkartio/cart-service/pkg/config"
	"github.com/qkartio/cart-service/pkg/logger"
	"github.com/qkartio/cart-service/pkg/postgres"
	"github.com/qkartio/cart-service/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "cart-api", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	pool, err := postgres.Open(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("db open failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer pool.Close()

	// Catalog, optionally fronted by Redis.
	var catalogRepo catalogapp.ProductRepo = catalogpg.NewProductRepo(pool)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer rdb.Close()
		catalogRepo = rediscache.New(catalogRepo, rdb, cfg.ProductCacheTTL, log)
		log.Info("product cache enabled", slog.String("addr", cfg.RedisAddr))
	}
	catalogSvc := catalogapp.NewService(catalogRepo)

	// User directory
	userSvc := userapp.NewService(userpg.NewUserRepo(pool))

	// Cart
	store := cartpg.NewStore(pool)
	cartSvc := cartapp.NewService(
		store,
		store,
		cartadapter.NewCatalogServiceReader(catalogSvc),
		cartadapter.NewUserServiceReader(userSvc),
		10,
	)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router.New(log, cartSvc, userSvc, catalogSvc),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}
