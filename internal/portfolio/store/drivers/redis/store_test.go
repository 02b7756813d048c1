package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/subham12r/portfolio/internal/portfolio/store"
	"github.com/subham12r/portfolio/internal/portfolio/store/drivers/redis"
	"github.com/subham12r/portfolio/internal/portfolio/store/storetest"
	"github.com/subham12r/portfolio/pkg/cryptox"
)

// startRedis runs a throwaway redis and returns its URL. The test is skipped
// when docker is not available.
func startRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in -short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestStore(t *testing.T) {
	url := startRedis(t)

	sealer, err := cryptox.NewSealer([]byte("secret"), store.SealerInfo)
	require.NoError(t, err)

	s, err := redis.Open(url, store.NewCodec(sealer))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	storetest.RunTokens(t, s)
}
