package cache

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const documentKeyPrefix = "invoice-doc:"

type RedisDocumentCache struct {
	client *redis.Client
}

func NewRedisDocumentCache(addr string, password string, db int) *RedisDocumentCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisDocumentCache{client: client}
}

func (c *RedisDocumentCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisDocumentCache) Close() error {
	return c.client.Close()
}

func (c *RedisDocumentCache) Get(ctx context.Context, invoiceID string) (string, bool, error) {
	val, err := c.client.Get(ctx, documentKeyPrefix+invoiceID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisDocumentCache) Set(ctx context.Context, invoiceID string, document string, ttl time.Duration) error {
	if document == "" {
		return nil
	}
	return c.client.Set(ctx, documentKeyPrefix+invoiceID, document, ttl).Err()
}
