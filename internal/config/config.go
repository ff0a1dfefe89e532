package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/radioscan/p25rx/internal/p25"
)

// Config is the complete p25rx configuration.
type Config struct {
	Decoder  DecoderConfig  `mapstructure:"decoder"`
	Input    InputConfig    `mapstructure:"input"`
	Database DatabaseConfig `mapstructure:"database"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Log      LogConfig      `mapstructure:"log"`
}

// DecoderConfig holds the framer settings.
type DecoderConfig struct {
	SyncPattern    string `mapstructure:"sync_pattern"` // hex, no prefix
	Inverted       bool   `mapstructure:"inverted"`
	PoolSize       int    `mapstructure:"pool_size"`
	StatusSchedule []int  `mapstructure:"status_schedule"`
}

// InputConfig selects the dibit source.
type InputConfig struct {
	Type    string `mapstructure:"type"`    // "file" or "udp"
	Path    string `mapstructure:"path"`    // file path, "-" for stdin
	Address string `mapstructure:"address"` // udp listen address
	Format  string `mapstructure:"format"`  // "packed" (4 dibits/byte) or "raw" (1 dibit/byte)
}

// DatabaseConfig holds the SQLite message store settings.
type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// MonitorConfig holds the websocket/metrics server settings.
type MonitorConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Bind    string `mapstructure:"bind"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads the configuration from the given YAML file (or the default
// search paths when empty), applying defaults and P25RX_* environment
// overrides.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("p25rx")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/p25rx")
	}

	v.SetEnvPrefix("P25RX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine; defaults and env apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("decoder.sync_pattern", "5575F5FF77FF")
	v.SetDefault("decoder.inverted", false)
	v.SetDefault("decoder.pool_size", 2)
	v.SetDefault("decoder.status_schedule", p25.DefaultStatusSchedule)

	v.SetDefault("input.type", "file")
	v.SetDefault("input.path", "-")
	v.SetDefault("input.address", "127.0.0.1:42030")
	v.SetDefault("input.format", "packed")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.path", "p25rx.db")

	v.SetDefault("monitor.enabled", false)
	v.SetDefault("monitor.bind", "127.0.0.1:8090")

	v.SetDefault("log.level", "info")
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if c.Decoder.PoolSize < 1 {
		return fmt.Errorf("decoder.pool_size must be at least 1, got %d", c.Decoder.PoolSize)
	}
	if _, err := c.Decoder.Sync(); err != nil {
		return err
	}
	for i := 1; i < len(c.Decoder.StatusSchedule); i++ {
		if c.Decoder.StatusSchedule[i] <= c.Decoder.StatusSchedule[i-1] {
			return fmt.Errorf("decoder.status_schedule must be strictly increasing")
		}
	}
	switch c.Input.Type {
	case "file", "udp":
	default:
		return fmt.Errorf("input.type must be file or udp, got %q", c.Input.Type)
	}
	switch c.Input.Format {
	case "packed", "raw":
	default:
		return fmt.Errorf("input.format must be packed or raw, got %q", c.Input.Format)
	}
	return nil
}

// Sync parses the configured sync pattern as hex.
func (d *DecoderConfig) Sync() (uint64, error) {
	pattern, err := strconv.ParseUint(d.SyncPattern, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("decoder.sync_pattern %q is not valid hex: %w", d.SyncPattern, err)
	}
	return pattern, nil
}

// FramerConfig converts the decoder section to the framer settings.
func (c *Config) FramerConfig() (p25.FramerConfig, error) {
	sync, err := c.Decoder.Sync()
	if err != nil {
		return p25.FramerConfig{}, err
	}
	return p25.FramerConfig{
		Sync:           sync,
		SyncLength:     p25.SyncLength,
		Inverted:       c.Decoder.Inverted,
		PoolSize:       c.Decoder.PoolSize,
		StatusSchedule: c.Decoder.StatusSchedule,
	}, nil
}
