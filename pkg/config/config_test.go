package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("accepts valid config", func(t *testing.T) {
		cfg := &Config{
			Server:  ServerConfig{Port: 8080},
			Backend: BackendConfig{BaseURL: "http://localhost:8080/api/v1"},
			Chat:    ChatConfig{HistoryLimit: 50},
		}
		require.NoError(t, cfg.Validate())
	})

	t.Run("rejects invalid port", func(t *testing.T) {
		cfg := &Config{
			Server:  ServerConfig{Port: 70000},
			Backend: BackendConfig{BaseURL: "http://localhost:8080/api/v1"},
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects empty backend URL", func(t *testing.T) {
		cfg := &Config{Server: ServerConfig{Port: 8080}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("auto-corrects history limit", func(t *testing.T) {
		cfg := &Config{
			Server:  ServerConfig{Port: 8080},
			Backend: BackendConfig{BaseURL: "http://localhost:8080/api/v1"},
		}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 50, cfg.Chat.HistoryLimit)
	})
}

func TestInitDefaults(t *testing.T) {
	require.NoError(t, Init())

	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "classic", cfg.Overlay.HighlightStyle)
	assert.Equal(t, time.Duration(0), cfg.Backend.Timeout)
	assert.NotZero(t, cfg.Backend.RequestsPerMinute)
}
