package store

import (
	"context"
	"fmt"
)

type Options struct {
	Backend       string // redis, postgres or memory
	PostgresDSN   string
	RedisAddr     string
	RedisUsername string
	RedisPassword string
}

// Backend bundles an opened store with its health ping and cleanup so the
// binaries wire any backend the same way.
type Backend struct {
	Store Store
	Ping  func(context.Context) error
	Close func()
}

// Open connects the configured backend. The memory backend is meant for
// tests and local development only.
func Open(ctx context.Context, opts Options) (*Backend, error) {
	switch opts.Backend {
	case "redis":
		client, err := NewRedisClient(opts.RedisAddr, opts.RedisUsername, opts.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &Backend{
			Store: NewRedisStore(client),
			Ping: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
			Close: func() { _ = client.Close() },
		}, nil

	case "postgres":
		pool, err := ConnectPostgres(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		pg := NewPgStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{
			Store: pg,
			Ping:  pool.Ping,
			Close: pool.Close,
		}, nil

	case "memory":
		return &Backend{
			Store: NewMemStore(),
			Ping:  func(context.Context) error { return nil },
			Close: func() {},
		}, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
}
