package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/scoracle")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.APIPort)
	assert.Equal(t, TransportLocal, cfg.FeedTransport)
	assert.Equal(t, 3*time.Second, cfg.FeedPublishTimeout)
	assert.Equal(t, time.Minute, cfg.StatusSweepInterval)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.CacheEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_FeedTransport(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "postgres", env: map[string]string{"FEED_TRANSPORT": "postgres"}},
		{name: "upper case is normalized", env: map[string]string{"FEED_TRANSPORT": "NONE"}},
		{name: "redis without url", env: map[string]string{"FEED_TRANSPORT": "redis"}, wantErr: true},
		{name: "redis with url", env: map[string]string{"FEED_TRANSPORT": "redis", "REDIS_URL": "localhost:6379"}},
		{name: "nats without url", env: map[string]string{"FEED_TRANSPORT": "nats"}, wantErr: true},
		{name: "nats with url", env: map[string]string{"FEED_TRANSPORT": "nats", "NATS_URL": "nats://localhost:4222"}},
		{name: "unknown", env: map[string]string{"FEED_TRANSPORT": "pusher"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/scoracle")
			t.Setenv("REDIS_URL", "")
			t.Setenv("NATS_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "not-a-number")
	t.Setenv("TEST_LIST", " a, ,b ")
	t.Setenv("TEST_LEVEL", "debug")

	assert.Equal(t, 7, envInt("TEST_INT", 7))
	assert.Equal(t, []string{"a", "b"}, envList("TEST_LIST", nil))
	assert.Equal(t, slog.LevelDebug, envLevel("TEST_LEVEL", slog.LevelInfo))
	assert.Equal(t, slog.LevelWarn, envLevel("TEST_LEVEL_UNSET", slog.LevelWarn))
}
