//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
)

func integrationBackends(t *testing.T) map[string]KV {
	t.Helper()
	ctx := context.Background()
	out := map[string]KV{}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pg, err := NewPostgres(ctx, dbURL)
		if err != nil {
			t.Fatalf("failed to connect to postgres: %v", err)
		}
		t.Cleanup(func() { pg.Close() })
		out["postgres"] = pg
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		rd, err := NewRedis(ctx, redisURL)
		if err != nil {
			t.Fatalf("failed to connect to redis: %v", err)
		}
		t.Cleanup(func() { rd.Close() })
		out["redis"] = rd
	}
	if len(out) == 0 {
		t.Skip("DATABASE_URL and REDIS_URL not set, skipping integration test")
	}
	return out
}

func TestIntegration_SetGetOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, kv := range integrationBackends(t) {
		t.Run(name, func(t *testing.T) {
			key := "integration-test-" + uuid.New().String()[:8]

			if _, err := kv.Get(ctx, key); err != ErrNotFound {
				t.Fatalf("expected ErrNotFound for fresh key, got %v", err)
			}

			if err := kv.Set(ctx, key, []byte(`[{"sender":"user","text":"hi","timestamp":1}]`)); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := kv.Set(ctx, key, []byte(`[]`)); err != nil {
				t.Fatalf("Set (overwrite) failed: %v", err)
			}

			got, err := kv.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(got) != `[]` {
				t.Errorf("expected overwritten value, got %q", got)
			}

			t.Cleanup(func() {
				switch s := kv.(type) {
				case *Postgres:
					s.pool.Exec(ctx, "DELETE FROM astra_kv WHERE key = $1", key)
				case *Redis:
					s.client.Del(ctx, redisKeyPrefix+key)
				}
			})
		})
	}
}
