package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"user-api/internal/models"

	"github.com/go-redis/redis/v8"
)

// RedisCache stores the slot as a JSON string without expiry so that every
// replica shares one listing. The generation lives in a counter key next to
// it and Set runs under WATCH on that counter.
type RedisCache struct {
	client *redis.Client
	key    string
	genKey string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, key: prefix + Key, genKey: prefix + Key + ":gen"}
}

func (c *RedisCache) Get(ctx context.Context) ([]models.CachedUser, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", c.key, err)
	}

	var users []models.CachedUser
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, false, fmt.Errorf("decode cached listing: %w", err)
	}
	return users, true, nil
}

func (c *RedisCache) Generation(ctx context.Context) (uint64, error) {
	return readGeneration(ctx, c.client, c.genKey)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, cmd getter, key string) (uint64, error) {
	gen, err := cmd.Get(ctx, key).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %s: %w", key, err)
	}
	return gen, nil
}

func (c *RedisCache) Set(ctx context.Context, gen uint64, users []models.CachedUser) (bool, error) {
	if users == nil {
		users = []models.CachedUser{}
	}
	raw, err := json.Marshal(users)
	if err != nil {
		return false, fmt.Errorf("encode cached listing: %w", err)
	}

	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, c.genKey)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key, raw, 0)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, c.genKey)

	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return stored, nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate %s: %w", c.key, err)
	}
	return nil
}
