// Package config loads YAML configuration for the validator and miner
// binaries. Grounded on thanhnp95-chain-apis/internal/config/config.go's
// defaults-then-overlay Load pattern (gopkg.in/yaml.v3).
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidatorConfig configures the validator binary (spec.md §6).
type ValidatorConfig struct {
	ListenAddress string `yaml:"listen_address"`
	DifficultyHex string `yaml:"difficulty_hex"`
	TimeOracleURL string `yaml:"time_oracle_url"`
	StatusAPIAddr string `yaml:"status_api_address"`
}

// defaultDifficultyHex is 0x00FFFFFFFFFFFFFFFFFFFFFFFFFFFFFF (spec.md
// §6): one zero byte followed by fifteen 0xFF bytes, as 32 lowercase hex
// characters.
var defaultDifficultyHex = "00" + strings.Repeat("ff", 15)

// defaultValidatorConfig mirrors spec.md §6's CLI defaults.
func defaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		ListenAddress: "127.0.0.1:8080",
		DifficultyHex: defaultDifficultyHex,
		StatusAPIAddr: "127.0.0.1:8090",
	}
}

// LoadValidatorConfig reads YAML from path, overlaying it onto the
// documented defaults. A missing file is not an error: the defaults
// alone are a complete, runnable configuration.
func LoadValidatorConfig(path string) (ValidatorConfig, error) {
	cfg := defaultValidatorConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// MinerConfig configures the miner binary (spec.md §6).
type MinerConfig struct {
	MinerID          string `yaml:"miner_id"`
	ValidatorAddress string `yaml:"validator_address"`
	RewardAddress    string `yaml:"reward_address"`
}

func defaultMinerConfig() MinerConfig {
	return MinerConfig{
		ValidatorAddress: "127.0.0.1:8080",
	}
}

// LoadMinerConfig reads YAML from path, overlaying it onto documented
// defaults. A missing file is not an error.
func LoadMinerConfig(path string) (MinerConfig, error) {
	cfg := defaultMinerConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.RewardAddress == "" {
		cfg.RewardAddress = cfg.MinerID
	}
	return cfg, nil
}
