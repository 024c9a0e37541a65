package rdx

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// FavoritesSlot keeps the serialized favorites collection under one key.
type FavoritesSlot struct {
	conn *redis.Client
	key  string
}

func NewFavoritesSlot(conn *redis.Client, name string) *FavoritesSlot {
	return &FavoritesSlot{conn: conn, key: "favorites:" + name}
}

// Read returns nil data when the key does not exist.
func (s *FavoritesSlot) Read(ctx context.Context) ([]byte, error) {
	data, err := s.conn.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return data, nil
}

func (s *FavoritesSlot) Write(ctx context.Context, data []byte) error {
	if err := s.conn.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
