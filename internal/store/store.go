// Package store provides the key-value backends that hold the persisted chat
// transcript. Every backend overwrites the full value on Set.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotFound is returned by Get when no value exists under the key.
var ErrNotFound = errors.New("store: key not found")

type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

type Options struct {
	Backend     string
	Dir         string
	DatabaseURL string
	RedisURL    string
}

// Open returns the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch strings.ToLower(opts.Backend) {
	case "", "file":
		return NewFile(opts.Dir)
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		if opts.Dir != "" {
			if err := os.MkdirAll(opts.Dir, 0o700); err != nil {
				return nil, fmt.Errorf("create store dir: %w", err)
			}
		}
		return NewSQLite(sqlitePath(opts.Dir))
	case "postgres":
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres store requires DATABASE_URL")
		}
		return NewPostgres(ctx, opts.DatabaseURL)
	case "redis":
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis store requires REDIS_URL")
		}
		return NewRedis(ctx, opts.RedisURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("store: key cannot be empty")
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("store: invalid key %q", key)
	}
	return nil
}
