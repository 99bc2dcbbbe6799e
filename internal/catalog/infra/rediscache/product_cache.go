package rediscache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/qkartio/cart-service/internal/catalog/app"
	"github.com/qkartio/cart-service/internal/catalog/domain"
	"github.com/redis/go-redis/v9"
)

// ProductCache is a read-through decorator over a ProductRepo. Cache
// failures are logged and the request falls through to the inner repo.
type ProductCache struct {
	next app.ProductRepo
	rdb  *redis.Client
	ttl  time.Duration
	log  *slog.Logger
}

func New(next app.ProductRepo, rdb *redis.Client, ttl time.Duration, log *slog.Logger) *ProductCache {
	return &ProductCache{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  log,
	}
}

func (c *ProductCache) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	created, err := c.next.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}

	c.set(ctx, created)
	return created, nil
}

func (c *ProductCache) Get(ctx context.Context, id string) (domain.Product, error) {
	raw, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if err == nil {
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return p, nil
		}
		c.log.Warn("corrupt product cache entry", slog.String("id", id))
	} else if err != redis.Nil {
		c.log.Warn("product cache read failed", slog.String("id", id), slog.Any("err", err))
	}

	product, err := c.next.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	c.set(ctx, product)
	return product, nil
}

// List is not cached.
func (c *ProductCache) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	return c.next.List(ctx, query, limit, cursor)
}

func (c *ProductCache) set(ctx context.Context, p domain.Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		c.log.Warn("marshal product for cache failed", slog.String("id", p.ID), slog.Any("err", err))
		return
	}

	if err := c.rdb.Set(ctx, productKey(p.ID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("product cache write failed", slog.String("id", p.ID), slog.Any("err", err))
	}
}

func productKey(id string) string {
	return "product:" + id
}
