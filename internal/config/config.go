// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/viper"

	"github.com/musks-suburbs/zk-fee-profiler/internal/apperror"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Ethereum  EthereumConfig  `mapstructure:"ethereum"`
	Profile   ProfileConfig   `mapstructure:"profile"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// EthereumConfig holds chain RPC endpoint configuration.
type EthereumConfig struct {
	RPCURL         string        `mapstructure:"rpc_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimitRPM   int           `mapstructure:"rate_limit_rpm"`
	BlockCacheTTL  time.Duration `mapstructure:"block_cache_ttl"`
}

// ProfileConfig holds fee sampling parameters.
type ProfileConfig struct {
	Blocks           uint64        `mapstructure:"blocks"`            // window size in blocks
	Step             uint64        `mapstructure:"step"`              // sample every Nth block
	TargetPercentile float64       `mapstructure:"target_percentile"` // 0..1
	WatchInterval    time.Duration `mapstructure:"watch_interval"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables. Callers are
// expected to run Validate after applying any command-line overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("ZKFEE")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ZKFEE_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ZKFEE_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ZKFEE_LOG_LEVEL", "LOG_LEVEL")

	// Ethereum; RPC_URL is the historical variable name kept for compatibility
	v.BindEnv("ethereum.rpc_url", "ZKFEE_RPC_URL", "RPC_URL")
	v.BindEnv("ethereum.rate_limit_rpm", "ZKFEE_RATE_LIMIT_RPM")

	// Profile; ZK_FEE_* variables predate the ZKFEE_ prefix
	v.BindEnv("profile.blocks", "ZKFEE_BLOCKS", "ZK_FEE_BLOCKS")
	v.BindEnv("profile.step", "ZKFEE_STEP", "ZK_FEE_STEP")
	v.BindEnv("profile.target_percentile", "ZKFEE_TARGET_PCT", "ZK_FEE_TARGET_PCT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ZKFEE_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ZKFEE_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ZKFEE_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "zk-fee-profiler")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Ethereum defaults
	v.SetDefault("ethereum.request_timeout", "30s")
	v.SetDefault("ethereum.rate_limit_rpm", 600)
	v.SetDefault("ethereum.block_cache_ttl", "10m")

	// Profile defaults
	v.SetDefault("profile.blocks", 180)
	v.SetDefault("profile.step", 3)
	v.SetDefault("profile.target_percentile", 0.8)
	v.SetDefault("profile.watch_interval", "60s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "zk-fee-profiler")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Ethereum.RPCURL == "" {
		return apperror.Validation(apperror.CodeRequiredField,
			"ethereum.rpc_url is required")
	}
	if c.Profile.Blocks == 0 {
		return apperror.Validation(apperror.CodeInvalidSampleWindow,
			"profile.blocks must be > 0")
	}
	if c.Profile.Step == 0 {
		return apperror.Validation(apperror.CodeInvalidSampleStride,
			"profile.step must be > 0")
	}
	// NaN slips through range comparisons, so it needs its own check.
	if math.IsNaN(c.Profile.TargetPercentile) ||
		c.Profile.TargetPercentile < 0 || c.Profile.TargetPercentile > 1 {
		return apperror.Validation(apperror.CodeInvalidPercentile,
			fmt.Sprintf("profile.target_percentile must be between 0.0 and 1.0, got %v", c.Profile.TargetPercentile))
	}
	return nil
}
