package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisClient interface {
	Set(ctx context.Context, key string, value string) error
	SetEx(ctx context.Context, key string, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SAdd(ctx context.Context, key string, members ...interface{}) error
	SIsMember(ctx context.Context, key string, member interface{}) (bool, error)
}

type RedisConfig struct {
	Addr     string `comment:"Redis address, e.g. localhost:6379"`
	Username string `comment:"optional, Redis username"`
	Password string `comment:"optional, Redis password"`
	DB       int    `comment:"optional, Redis DB"`
}

type Cache struct {
	core *redis.Client
}

func NewCache(ctx context.Context, cfg RedisConfig) (RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging Redis: %w", err)
	}
	return &Cache{core: client}, nil
}

func (c *Cache) Set(ctx context.Context, key string, value string) error {
	return c.core.Set(ctx, key, value, 0).Err()
}

func (c *Cache) SetEx(ctx context.Context, key string, value string, expiration time.Duration) error {
	return c.core.SetEx(ctx, key, value, expiration).Err()
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.core.Get(ctx, key).Result()
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	return c.core.Del(ctx, keys...).Err()
}

func (c *Cache) SAdd(ctx context.Context, key string, members ...interface{}) error {
	return c.core.SAdd(ctx, key, members...).Err()
}

func (c *Cache) SIsMember(ctx context.Context, key string, member interface{}) (bool, error) {
	return c.core.SIsMember(ctx, key, member).Result()
}
