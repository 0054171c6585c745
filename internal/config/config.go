// Package config loads application configuration from config.yaml,
// PROFILEGEN_* environment variables, and defaults, and initializes the
// global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Synthesis SynthesisConfig `yaml:"synthesis" mapstructure:"synthesis"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Jobs      JobsConfig      `yaml:"jobs" mapstructure:"jobs"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	SonnetModel string `yaml:"sonnet_model" mapstructure:"sonnet_model"`
	HaikuModel  string `yaml:"haiku_model" mapstructure:"haiku_model"`
}

// ExtractConfig configures the extraction engine.
type ExtractConfig struct {
	Workers          int  `yaml:"workers" mapstructure:"workers"`
	HTTPTimeoutSecs  int  `yaml:"http_timeout_secs" mapstructure:"http_timeout_secs"`
	BrowserTimeout   int  `yaml:"browser_timeout_secs" mapstructure:"browser_timeout_secs"`
	MinContentLength int  `yaml:"min_content_length" mapstructure:"min_content_length"`
	BrowserFallback  bool `yaml:"browser_fallback" mapstructure:"browser_fallback"`
}

// SynthesisConfig configures the LLM synthesis call.
type SynthesisConfig struct {
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	Backend  string `yaml:"backend" mapstructure:"backend"`
	Path     string `yaml:"path" mapstructure:"path"`
	TTLHours int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// JobsConfig configures the generation orchestrator.
type JobsConfig struct {
	MaxConcurrent    int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	QueueSize        int `yaml:"queue_size" mapstructure:"queue_size"`
	QueueTimeoutSecs int `yaml:"queue_timeout_secs" mapstructure:"queue_timeout_secs"`
	RunTimeoutSecs   int `yaml:"run_timeout_secs" mapstructure:"run_timeout_secs"`
	RetainHours      int `yaml:"retain_hours" mapstructure:"retain_hours"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port               int      `yaml:"port" mapstructure:"port"`
	RequestTimeoutSecs int      `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
	RateLimitPerSec    float64  `yaml:"rate_limit_per_sec" mapstructure:"rate_limit_per_sec"`
	RateBurst          int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins     []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml, environment, and defaults.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROFILEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_secs", 180)
	v.SetDefault("server.rate_limit_per_sec", 5)
	v.SetDefault("server.rate_burst", 10)
	v.SetDefault("anthropic.sonnet_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.haiku_model", "claude-haiku-4-5-20251001")
	v.SetDefault("extract.workers", 5)
	v.SetDefault("extract.http_timeout_secs", 10)
	v.SetDefault("extract.browser_timeout_secs", 30)
	v.SetDefault("extract.min_content_length", 300)
	v.SetDefault("extract.browser_fallback", true)
	v.SetDefault("synthesis.max_tokens", 4096)
	v.SetDefault("synthesis.temperature", 0.2)
	v.SetDefault("synthesis.max_retries", 3)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.path", "profilegen.db")
	v.SetDefault("cache.ttl_hours", 1)
	v.SetDefault("jobs.max_concurrent", 10)
	v.SetDefault("jobs.queue_size", 50)
	v.SetDefault("jobs.queue_timeout_secs", 10)
	v.SetDefault("jobs.run_timeout_secs", 120)
	v.SetDefault("jobs.retain_hours", 1)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
