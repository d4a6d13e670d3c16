// Package config handles loading tasklens.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the tasklens.toml configuration file.
type Config struct {
	Document Document `toml:"document"`
	View     View     `toml:"view"`
}

// Document contains document-location configuration.
type Document struct {
	// Path overrides where the task document lives. Relative paths are
	// resolved against the config file's directory at load time.
	Path string `toml:"path"`
}

// View contains listing defaults.
type View struct {
	// Place is the default place filter for listings ("All" when empty).
	Place string `toml:"place"`

	// Limit caps how many tasks a listing shows (0 means no cap).
	Limit int `toml:"limit"`

	// LeadTime is the default lead time for newly scheduled tasks,
	// parsed as a Go duration string ("8h", "30m").
	LeadTime string `toml:"lead-time"`
}

// Load loads configuration from the working directory and the global
// config file. Returns an empty config if no config files exist.
func Load(workDir string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	localCfg, localMeta, err := loadConfigFile(filepath.Join(workDir, "tasklens.toml"))
	if err != nil {
		return nil, err
	}

	return mergeConfigs(globalCfg, localCfg, globalMeta, localMeta), nil
}

// DocumentPath resolves the document location: the configured path if set,
// otherwise the default under the user's data directory.
func (c *Config) DocumentPath() (string, error) {
	if c.Document.Path != "" {
		return c.Document.Path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "tasklens", "tasklens.yaml"), nil
}

// DefaultLeadTime parses the configured lead-time override, or returns
// fallback when unset or unparseable.
func (c *Config) DefaultLeadTime(fallback time.Duration) time.Duration {
	if c.View.LeadTime == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(c.View.LeadTime)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func globalConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tasklens", "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if cfg.Document.Path != "" && !filepath.IsAbs(cfg.Document.Path) {
		cfg.Document.Path = filepath.Join(filepath.Dir(path), cfg.Document.Path)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, localCfg *Config, globalMeta, localMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if localCfg == nil {
		localCfg = &Config{}
	}

	merged := Config{}
	merged.Document.Path = mergeString(localMeta.IsDefined("document", "path"), localCfg.Document.Path, globalCfg.Document.Path)
	merged.View.Place = mergeString(localMeta.IsDefined("view", "place"), localCfg.View.Place, globalCfg.View.Place)
	merged.View.LeadTime = mergeString(localMeta.IsDefined("view", "lead-time"), localCfg.View.LeadTime, globalCfg.View.LeadTime)
	if localMeta.IsDefined("view", "limit") {
		merged.View.Limit = localCfg.View.Limit
	} else if globalMeta.IsDefined("view", "limit") {
		merged.View.Limit = globalCfg.View.Limit
	}

	return &merged
}

func mergeString(localDefined bool, localValue, globalValue string) string {
	value := globalValue
	if localDefined {
		value = localValue
	}
	return strings.TrimSpace(value)
}
