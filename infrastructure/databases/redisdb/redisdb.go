// Package redisdb opens go-redis clients from configuration.
package redisdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrazmi/tasktracker/sdk/environment"
	"github.com/redis/go-redis/v9"
)

// ErrDisabled is returned by NewFromEnv when no address is configured.
var ErrDisabled = errors.New("redis disabled: no address configured")

type Client = redis.Client

// Options represents the exportable redis configuration
type Options struct {
	Addr         string        `env:"REDIS_ADDR"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB" default:"0"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

// NewFromEnv creates a client from environment variables and verifies it
// with a ping. It returns ErrDisabled when REDIS_ADDR is empty.
func NewFromEnv(ctx context.Context, prefix string) (*redis.Client, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing redis config: %w", err)
	}
	if cfg.Addr == "" {
		return nil, ErrDisabled
	}
	return Open(ctx, cfg)
}

// Open creates a client with the given config.
func Open(ctx context.Context, cfg Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := StatusCheck(ctx, client); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// StatusCheck returns nil if it can successfully talk to redis.
func StatusCheck(ctx context.Context, client *redis.Client) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second)
		defer cancel()
	}
	return client.Ping(ctx).Err()
}
