package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Backend     BackendConfig  `mapstructure:"backend"`
	Auth        AuthConfig     `mapstructure:"auth"`
	Chat        ChatConfig     `mapstructure:"chat"`
	Overlay     OverlayConfig  `mapstructure:"overlay"`
	Cache       CacheConfig    `mapstructure:"cache"`
}

// ServerConfig contains HTTP settings for the local stub backend
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	RateLimitRPS    int           `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
}

// DatabaseConfig contains sqlite settings for the stub backend
type DatabaseConfig struct {
	Path       string `mapstructure:"path"`
	LogQueries bool   `mapstructure:"log_queries"`
}

// BackendConfig contains settings for the review backend API client
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout applies to document fetches only. Annotation CRUD and chat
	// calls carry no request timeout unless one is set explicitly, matching
	// the product's behavior of letting in-flight mutations complete.
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	BurstSize         int           `mapstructure:"burst_size"`
	UserAgent         string        `mapstructure:"user_agent"`
}

// AuthConfig contains bearer token settings
type AuthConfig struct {
	Token string `mapstructure:"token"`
}

// ChatConfig contains compliance-chat payload settings
type ChatConfig struct {
	HistoryLimit     int      `mapstructure:"history_limit"`
	Frameworks       []string `mapstructure:"frameworks"`
	Jurisdiction     string   `mapstructure:"jurisdiction"`
	RequireCitations bool     `mapstructure:"require_citations"`
	AnswerStyle      string   `mapstructure:"answer_style"`
}

// OverlayConfig contains annotation overlay defaults
type OverlayConfig struct {
	HighlightStyle string `mapstructure:"highlight_style"`
}

// CacheConfig contains in-memory cache settings for document blobs
type CacheConfig struct {
	MaxSizeMB  int64         `mapstructure:"max_size_mb"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
}
