/*
Package config manages TOML configuration for ahokeep.

InitConfig handles automatic config file creation and loading with
fallback to defaults, the same lifecycle the teacher's config package
used for its server/dict/cli sections, now describing a Redis
connection and instance defaults instead of a completion server's
tuning knobs.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Config holds the entire configuration structure.
type Config struct {
	Store    StoreConfig    `toml:"store"`
	Instance InstanceConfig `toml:"instance"`
	CLI      CliConfig      `toml:"cli"`
}

// StoreConfig describes how to reach the external key/value store.
type StoreConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	DB       int    `toml:"db"`
	Password string `toml:"password"`
}

// InstanceConfig names the default automaton instance clients talk to
// when none is specified explicitly.
type InstanceConfig struct {
	DefaultName string `toml:"default_name"`
}

// CliConfig holds interactive-shell and IPC tuning options.
type CliConfig struct {
	SuggestLimit int  `toml:"suggest_limit"`
	EchoOnAdd    bool `toml:"echo_on_add"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Host: "127.0.0.1",
			Port: 6379,
			DB:   0,
		},
		Instance: InstanceConfig{
			DefaultName: "ahokeep",
		},
		CLI: CliConfig{
			SuggestLimit: 24,
			EchoOnAdd:    true,
		},
	}
}

// InitConfig loads config from file or creates default if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, configPath); err != nil {
			return nil, err
		}
		log.Debugf("Created default config file at: ( %s )", configPath)
		return cfg, nil
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config, using defaults: %v", err)
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// LoadConfig loads from a TOML file.
func LoadConfig(configPath string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		log.Errorf("Failed to decode config file: %v", err)
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig saves into a TOML file.
func SaveConfig(cfg *Config, configPath string) error {
	file, err := os.Create(configPath)
	if err != nil {
		log.Errorf("Failed to create config file: %v", err)
		return err
	}
	defer file.Close()
	encoder := toml.NewEncoder(file)
	return encoder.Encode(cfg)
}

// Update changes selected config values and saves to file.
func (c *Config) Update(configPath string, suggestLimit *int, echoOnAdd *bool) error {
	if suggestLimit != nil {
		c.CLI.SuggestLimit = *suggestLimit
	}
	if echoOnAdd != nil {
		c.CLI.EchoOnAdd = *echoOnAdd
	}
	return SaveConfig(c, configPath)
}
