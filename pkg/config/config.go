package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		// .env is optional; real env vars win over it
		_ = godotenv.Load()

		setDefaults()

		// Set up environment variable reading for overrides
		viper.SetEnvPrefix("POLICYMATE")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		// Load config from fixed location (cleaned for safety)
		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// Missing config file is fine, defaults and env vars apply
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("backend.base_url") == "" {
		return fmt.Errorf("backend.base_url must not be empty")
	}

	style := viper.GetString("overlay.highlight_style")
	switch style {
	case "classic", "gradient", "neon", "glass", "academic":
	default:
		return fmt.Errorf("invalid overlay highlight style: %q", style)
	}

	// Auto-correct rate limiter settings
	if viper.GetInt("backend.requests_per_minute") <= 0 {
		viper.Set("backend.requests_per_minute", 240)
	}
	if viper.GetInt("backend.burst_size") <= 0 {
		viper.Set("backend.burst_size", 5)
	}
	if viper.GetInt("chat.history_limit") <= 0 {
		viper.Set("chat.history_limit", 50)
	}

	// Token is optional at startup: commands that talk to the live backend
	// fail fast with an UNAUTHORIZED precondition error instead
	if viper.GetString("auth.token") == "" {
		env := viper.GetString("environment")
		if env == "production" || env == "prod" {
			fmt.Println("Warning: no auth token configured")
		}
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url must not be empty")
	}
	if c.Chat.HistoryLimit <= 0 {
		c.Chat.HistoryLimit = 50
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Stub server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.rate_limit_rps", 20)
	viper.SetDefault("server.rate_limit_burst", 40)

	// Stub database defaults
	viper.SetDefault("database.path", "./data/policy-mate.db")
	viper.SetDefault("database.log_queries", false)

	// Review backend client defaults
	viper.SetDefault("backend.base_url", "http://localhost:8080/api/v1")
	viper.SetDefault("backend.timeout", 0*time.Second)
	viper.SetDefault("backend.requests_per_minute", 240)
	viper.SetDefault("backend.burst_size", 5)
	viper.SetDefault("backend.user_agent", "PolicyMate/1.0")

	// Auth defaults
	viper.SetDefault("auth.token", "")

	// Compliance chat defaults
	viper.SetDefault("chat.history_limit", 50)
	viper.SetDefault("chat.frameworks", []string{"SOC2", "GDPR"})
	viper.SetDefault("chat.jurisdiction", "EU")
	viper.SetDefault("chat.require_citations", true)
	viper.SetDefault("chat.answer_style", "concise")

	// Overlay defaults
	viper.SetDefault("overlay.highlight_style", "classic")

	// Document blob cache defaults
	viper.SetDefault("cache.max_size_mb", 64)
	viper.SetDefault("cache.default_ttl", 30*time.Minute)
}
