package config_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/musks-suburbs/zk-fee-profiler/internal/apperror"
	"github.com/musks-suburbs/zk-fee-profiler/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Name != "zk-fee-profiler" {
		t.Errorf("App.Name = %q, want zk-fee-profiler", cfg.App.Name)
	}
	if cfg.Profile.Blocks != 180 {
		t.Errorf("Profile.Blocks = %d, want 180", cfg.Profile.Blocks)
	}
	if cfg.Profile.Step != 3 {
		t.Errorf("Profile.Step = %d, want 3", cfg.Profile.Step)
	}
	if cfg.Profile.TargetPercentile != 0.8 {
		t.Errorf("Profile.TargetPercentile = %v, want 0.8", cfg.Profile.TargetPercentile)
	}
	if cfg.Ethereum.RequestTimeout != 30*time.Second {
		t.Errorf("Ethereum.RequestTimeout = %v, want 30s", cfg.Ethereum.RequestTimeout)
	}
	if cfg.Ethereum.RateLimitRPM != 600 {
		t.Errorf("Ethereum.RateLimitRPM = %d, want 600", cfg.Ethereum.RateLimitRPM)
	}
	if cfg.Profile.WatchInterval != time.Minute {
		t.Errorf("Profile.WatchInterval = %v, want 1m", cfg.Profile.WatchInterval)
	}
}

func TestLoad_LegacyEnvAliases(t *testing.T) {
	t.Setenv("RPC_URL", "https://rpc.example.org")
	t.Setenv("ZK_FEE_BLOCKS", "90")
	t.Setenv("ZK_FEE_STEP", "5")
	t.Setenv("ZK_FEE_TARGET_PCT", "0.9")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Ethereum.RPCURL != "https://rpc.example.org" {
		t.Errorf("Ethereum.RPCURL = %q, want https://rpc.example.org", cfg.Ethereum.RPCURL)
	}
	if cfg.Profile.Blocks != 90 {
		t.Errorf("Profile.Blocks = %d, want 90", cfg.Profile.Blocks)
	}
	if cfg.Profile.Step != 5 {
		t.Errorf("Profile.Step = %d, want 5", cfg.Profile.Step)
	}
	if cfg.Profile.TargetPercentile != 0.9 {
		t.Errorf("Profile.TargetPercentile = %v, want 0.9", cfg.Profile.TargetPercentile)
	}
}

func TestLoad_PrefixedEnvWinsOverLegacy(t *testing.T) {
	t.Setenv("RPC_URL", "https://legacy.example.org")
	t.Setenv("ZKFEE_RPC_URL", "https://current.example.org")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Ethereum.RPCURL != "https://current.example.org" {
		t.Errorf("Ethereum.RPCURL = %q, want the ZKFEE_ value", cfg.Ethereum.RPCURL)
	}
}

func validConfig() *config.Config {
	return &config.Config{
		Ethereum: config.EthereumConfig{RPCURL: "https://rpc.example.org"},
		Profile: config.ProfileConfig{
			Blocks:           180,
			Step:             3,
			TargetPercentile: 0.8,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		wantErr  string
		wantCode apperror.Code
	}{
		{
			name:   "valid",
			mutate: func(c *config.Config) {},
		},
		{
			name:     "missing rpc url",
			mutate:   func(c *config.Config) { c.Ethereum.RPCURL = "" },
			wantErr:  "rpc_url",
			wantCode: apperror.CodeRequiredField,
		},
		{
			name:     "zero blocks",
			mutate:   func(c *config.Config) { c.Profile.Blocks = 0 },
			wantErr:  "blocks",
			wantCode: apperror.CodeInvalidSampleWindow,
		},
		{
			name:     "zero step",
			mutate:   func(c *config.Config) { c.Profile.Step = 0 },
			wantErr:  "step",
			wantCode: apperror.CodeInvalidSampleStride,
		},
		{
			name:     "percentile above one",
			mutate:   func(c *config.Config) { c.Profile.TargetPercentile = 1.5 },
			wantErr:  "target_percentile",
			wantCode: apperror.CodeInvalidPercentile,
		},
		{
			name:     "negative percentile",
			mutate:   func(c *config.Config) { c.Profile.TargetPercentile = -0.1 },
			wantErr:  "target_percentile",
			wantCode: apperror.CodeInvalidPercentile,
		},
		{
			name:     "nan percentile",
			mutate:   func(c *config.Config) { c.Profile.TargetPercentile = math.NaN() },
			wantErr:  "target_percentile",
			wantCode: apperror.CodeInvalidPercentile,
		},
		{
			name:   "boundary percentiles allowed",
			mutate: func(c *config.Config) { c.Profile.TargetPercentile = 1.0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
			if got := apperror.GetCode(err); got != tt.wantCode {
				t.Errorf("error code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}
