package autocom

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sep = "\x00"

// Index serves ingredient autocomplete from a Redis sorted set. Every member
// has score 0 so ZRANGEBYLEX can do the prefix scan. Members are encoded as
// lower|position|name so results can be put back in reference order.
type Index struct {
	client *redis.Client
	key    string
	log    *zap.Logger
}

func NewIndex(client *redis.Client, key string, log *zap.Logger) *Index {
	if key == "" {
		key = "autocomplete:ingredients"
	}
	return &Index{client: client, key: key, log: log}
}

func member(pos int, name string) string {
	return strings.ToLower(name) + sep + fmt.Sprintf("%06d", pos) + sep + name
}

// Seed replaces the index content with names.
func (ix *Index) Seed(ctx context.Context, names []string) error {
	zs := make([]redis.Z, 0, len(names))
	for i, n := range names {
		zs = append(zs, redis.Z{Score: 0, Member: member(i, n)})
	}

	pipe := ix.client.TxPipeline()
	pipe.Del(ctx, ix.key)
	if len(zs) > 0 {
		pipe.ZAdd(ctx, ix.key, zs...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed autocomplete: %w", err)
	}

	ix.log.Info("ingredient autocomplete seeded", zap.String("key", ix.key), zap.Int("count", len(zs)))
	return nil
}

// Match returns names whose lower-cased form starts with prefix, in the order
// they were seeded.
func (ix *Index) Match(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.ToLower(prefix)
	if prefix == "" {
		return nil, nil
	}

	results, err := ix.client.ZRangeByLex(ctx, ix.key, &redis.ZRangeBy{
		Min: "[" + prefix,
		Max: "[" + prefix + "\xff",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to search autocomplete: %w", err)
	}

	type hit struct {
		pos  int
		name string
	}
	hits := make([]hit, 0, len(results))
	for _, r := range results {
		parts := strings.SplitN(r, sep, 3)
		if len(parts) != 3 {
			ix.log.Warn("skipping malformed autocomplete member", zap.String("member", r))
			continue
		}
		pos, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		hits = append(hits, hit{pos: pos, name: parts[2]})
	}
	if len(hits) == 0 {
		return nil, nil
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out, nil
}
