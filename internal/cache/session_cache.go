package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"concentration/internal/game"

	"github.com/redis/go-redis/v9"
)

var ErrSnapshotNotFound = errors.New("session snapshot not found")

const keyPrefix = "concentration:session:"

// RedisClient подмножество команд go-redis, которое нужно кэшу. *redis.Client его реализует
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SessionCache хранит снимки активных партий, чтобы пережить рестарт сервера.
// Источник истины остается в памяти сервиса
type SessionCache struct {
	client     RedisClient
	expiration time.Duration
}

func NewSessionCache(client RedisClient, expiration time.Duration) *SessionCache {
	return &SessionCache{client: client, expiration: expiration}
}

// NewRedisClient создает клиента и проверяет соединение
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

func key(id string) string { return keyPrefix + id }

func (c *SessionCache) Save(ctx context.Context, s game.SessionSnapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", s.ID, err)
	}
	if err := c.client.Set(ctx, key(s.ID), data, c.expiration).Err(); err != nil {
		return fmt.Errorf("save snapshot %s: %w", s.ID, err)
	}
	return nil
}

func (c *SessionCache) Load(ctx context.Context, id string) (*game.SessionSnapshot, error) {
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", id, err)
	}

	var s game.SessionSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	return &s, nil
}

func (c *SessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, key(id)).Err()
}
