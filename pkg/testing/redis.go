package testing

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetRedisClientAndCtx connects to the redis instance given by REDIS_HOST,
// REDIS_PORT and REDIS_PASS. The client is closed and the context cancelled
// when the test ends.
func GetRedisClientAndCtx(t *testing.T) (context.Context, *redis.Client) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	addr := net.JoinHostPort(envOr("REDIS_HOST", "localhost"), envOr("REDIS_PORT", "6379"))
	t.Logf("using redis: [%s]", addr)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       0,
	})
	t.Cleanup(func() {
		cancel()
		if err := rdb.Close(); err != nil {
			t.Logf("close redis client: %s", err)
		}
	})

	require.NoError(t, rdb.Ping(ctx).Err())

	return ctx, rdb
}
