package rdx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mealseek/models"

	"github.com/redis/go-redis/v9"
)

// DetailCache stores looked-up recipe records keyed by id.
type DetailCache struct {
	conn *redis.Client
	ttl  time.Duration
}

func NewDetailCache(conn *redis.Client, ttl time.Duration) *DetailCache {
	return &DetailCache{conn: conn, ttl: ttl}
}

func detailKey(id string) string {
	return "mealdb:lookup:" + id
}

// Get reports a miss as (nil, nil).
func (c *DetailCache) Get(ctx context.Context, id string) (*models.Recipe, error) {
	data, err := c.conn.Get(ctx, detailKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get detail %s: %w", id, err)
	}
	var r models.Recipe
	if err := json.Unmarshal(data, &r); err != nil {
		// stale schema, treat as a miss
		return nil, nil
	}
	return &r, nil
}

func (c *DetailCache) Put(ctx context.Context, r models.Recipe) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := c.conn.Set(ctx, detailKey(r.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set detail %s: %w", r.ID, err)
	}
	return nil
}
