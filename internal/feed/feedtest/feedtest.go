// Package feedtest starts throwaway Redis and NATS servers via testcontainers
// for transport tests. Tests using it are skipped under -short or without a
// Docker provider.
package feedtest

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcnats "github.com/testcontainers/testcontainers-go/modules/nats"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

const (
	redisImage = "redis:7-alpine"
	natsImage  = "nats:2.10-alpine"
)

func skipUnlessDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// RedisURL starts a Redis container and returns its redis:// URL. The
// container is terminated when the test finishes.
func RedisURL(t *testing.T) string {
	t.Helper()
	skipUnlessDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := tcredis.Run(ctx, redisImage)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}

	url, err := ctr.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis connection string: %v", err)
	}
	return url
}

// NATSURL starts a NATS container and returns its nats:// URL. The container
// is terminated when the test finishes.
func NATSURL(t *testing.T) string {
	t.Helper()
	skipUnlessDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := tcnats.Run(ctx, natsImage)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start nats container: %v", err)
	}

	url, err := ctr.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("nats connection string: %v", err)
	}
	return url
}
