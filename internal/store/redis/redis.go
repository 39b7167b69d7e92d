package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"invoicepro/backend/internal/store"
)

var _ store.KV = (*Store)(nil)

// Store keeps each blob as a plain Redis string without expiry. Durability
// follows the server's persistence settings (AOF/RDB).
type Store struct {
	client *goredis.Client
	prefix string
}

func New(addr string, password string, db int, prefix string) *Store {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &Store{client: client, prefix: prefix}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, name string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+name).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, name string, value string) error {
	return s.client.Set(ctx, s.prefix+name, value, 0).Err()
}
