package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radioscan/p25rx/internal/p25"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "5575F5FF77FF", cfg.Decoder.SyncPattern)
	assert.False(t, cfg.Decoder.Inverted)
	assert.Equal(t, 2, cfg.Decoder.PoolSize)
	assert.Equal(t, p25.DefaultStatusSchedule, cfg.Decoder.StatusSchedule)
	assert.Equal(t, "file", cfg.Input.Type)
	assert.Equal(t, "packed", cfg.Input.Format)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Monitor.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)

	sync, err := cfg.Decoder.Sync()
	require.NoError(t, err)
	assert.Equal(t, uint64(p25.SyncPattern), sync)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p25rx.yaml")
	content := `
decoder:
  inverted: true
  pool_size: 4
input:
  type: udp
  address: 0.0.0.0:7355
database:
  enabled: true
  path: /tmp/test.db
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Decoder.Inverted)
	assert.Equal(t, 4, cfg.Decoder.PoolSize)
	assert.Equal(t, "udp", cfg.Input.Type)
	assert.Equal(t, "0.0.0.0:7355", cfg.Input.Address)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "pool size zero",
			mutate:  func(c *Config) { c.Decoder.PoolSize = 0 },
			wantErr: "pool_size",
		},
		{
			name:    "bad sync pattern",
			mutate:  func(c *Config) { c.Decoder.SyncPattern = "not-hex" },
			wantErr: "sync_pattern",
		},
		{
			name:    "non-increasing schedule",
			mutate:  func(c *Config) { c.Decoder.StatusSchedule = []int{22, 22} },
			wantErr: "status_schedule",
		},
		{
			name:    "bad input type",
			mutate:  func(c *Config) { c.Input.Type = "serial" },
			wantErr: "input.type",
		},
		{
			name:    "bad input format",
			mutate:  func(c *Config) { c.Input.Format = "ascii" },
			wantErr: "input.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFramerConfig(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	fc, err := cfg.FramerConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(p25.SyncPattern), fc.Sync)
	assert.Equal(t, p25.SyncLength, fc.SyncLength)
	assert.Equal(t, 2, fc.PoolSize)
}
