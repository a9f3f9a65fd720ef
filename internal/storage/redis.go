package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pos-terminal/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisArchive keeps the current cart snapshot so an in-progress order
// survives a terminal restart. One key per terminal.
type RedisArchive struct {
	Client   *redis.Client
	TTL      time.Duration
	Terminal string
}

func NewRedisArchive(client *redis.Client, ttl time.Duration, terminal string) *RedisArchive {
	return &RedisArchive{Client: client, TTL: ttl, Terminal: terminal}
}

func (a *RedisArchive) key() string {
	return "cart:" + a.Terminal
}

func (a *RedisArchive) Save(ctx context.Context, state domain.CartState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return a.Client.Set(ctx, a.key(), payload, a.TTL).Err()
}

// Load returns nil, nil when no snapshot exists.
func (a *RedisArchive) Load(ctx context.Context) (*domain.CartState, error) {
	raw, err := a.Client.Get(ctx, a.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state domain.CartState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (a *RedisArchive) Drop(ctx context.Context) error {
	return a.Client.Del(ctx, a.key()).Err()
}
