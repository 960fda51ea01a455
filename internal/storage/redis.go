package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"nuclight.org/buttonpoll/internal/poll"
)

const redisKeyPrefix = "poll:"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	c := redis.NewClient(opts)

	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: c}, nil
}

func (rs *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := rs.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set poll data: %w", err)
	}
	return nil
}

func (rs *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := rs.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, poll.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get poll data: %w", err)
	}
	return v, nil
}

func (rs *RedisStore) Close() error {
	if err := rs.client.Close(); err != nil {
		return fmt.Errorf("close redis client: %w", err)
	}
	return nil
}
