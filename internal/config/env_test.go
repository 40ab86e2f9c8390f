package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TODO_AUTH_SECRET", "s3cret")

	env, err := LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, "local", env.Env)
	assert.Equal(t, "8000", env.HTTPPort)
	assert.Equal(t, "s3cret", env.Secret)
	assert.Equal(t, 24*time.Hour, env.TokenTTL)
	assert.Equal(t, 7*24*time.Hour, env.RememberMeTTL)
	assert.Equal(t, "sqlite", env.StoreEnv.Type)
	assert.Equal(t, "local", env.StorageEnv.Type)
	assert.Equal(t, 10*time.Second, env.ToolTimeout)
	assert.Equal(t, 20, env.HistoryLimit)
}

func TestLoadEnv_RequiresSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TODO_AUTH_SECRET", "restored-after-test")
	require.NoError(t, os.Unsetenv("TODO_AUTH_SECRET"))

	_, err := LoadEnv()
	assert.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"garbage", slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e := &BaseEnv{LogLevel: tt.in}
			assert.Equal(t, tt.want, e.SlogLevel())
		})
	}
}
