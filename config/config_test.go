// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

// ---------------------------------------------------------------------------
// Defaults and derived paths
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, ".mintd", filepath.Base(cfg.DataDir))
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "mainnet", cfg.Network)
	assert.Empty(t, cfg.KafkaBrokers, "event publishing is off by default")
	assert.Equal(t, filepath.Join(cfg.DataDir, SaleFileName), cfg.SalePath())
	assert.Equal(t, filepath.Join(cfg.DataDir, DBFileName), cfg.DBPath())
}

func TestSalePath(t *testing.T) {
	cfg := Config{DataDir: "/srv/mint"}
	assert.Equal(t, filepath.Join("/srv/mint", SaleFileName), cfg.SalePath())

	cfg.SaleFile = "/etc/mintd/drop.yaml"
	assert.Equal(t, "/etc/mintd/drop.yaml", cfg.SalePath())
}

// ---------------------------------------------------------------------------
// LoadConfig
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, cfg Config)
	}{
		{
			name: "empty file keeps defaults",
			body: "# nothing here\n\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, DefaultConfig(), cfg)
			},
		},
		{
			name: "sale file follows the configured data dir",
			body: "datadir = /srv/mint\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, filepath.Join("/srv/mint", SaleFileName), cfg.SalePath())
				assert.Equal(t, filepath.Join("/srv/mint", DBFileName), cfg.DBPath())
			},
		},
		{
			name: "keys are case-insensitive and values trimmed",
			body: "  Network =   testnet  \nLISTEN=127.0.0.1:9000\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "testnet", cfg.Network)
				assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
			},
		},
		{
			name: "value may contain equals",
			body: "salefile = /data/sale=v2.yaml\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "/data/sale=v2.yaml", cfg.SalePath())
			},
		},
		{
			name: "broker list drops blanks",
			body: "kafkabrokers = k1:9092, ,k2:9092,\nkafkatopic = drops\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
				assert.Equal(t, "drops", cfg.KafkaTopic)
			},
		},
		{
			name: "empty broker value disables publishing",
			body: "kafkabrokers =\n",
			check: func(t *testing.T, cfg Config) {
				assert.Nil(t, cfg.KafkaBrokers)
				assert.NoError(t, ValidateConfig(cfg))
			},
		},
		{
			name: "unknown keys are ignored",
			body: "rpcurl = http://node:8332\nloglevel = debug\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tc.body))
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, ErrConfigNotFound)

	tests := map[string]string{
		"no separator": "network testnet\n",
		"empty key":    "# header\n = value\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.ErrorIs(t, err, ErrInvalidConfigLine)
		})
	}

	_, err = LoadConfig(writeConfig(t, "network = regtest\n\nbogus\n"))
	require.ErrorIs(t, err, ErrInvalidConfigLine)
	assert.Contains(t, err.Error(), "line 3")
}

// ---------------------------------------------------------------------------
// SaveConfig
// ---------------------------------------------------------------------------

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "node", ConfigFileName)
	want := Config{
		DataDir:      "/srv/mint",
		ListenAddr:   "0.0.0.0:8443",
		Network:      "regtest",
		LogLevel:     "warn",
		LogFile:      "/var/log/mintd.log",
		KafkaBrokers: []string{"k1:9092", "k2:9092"},
		KafkaTopic:   "mint-events",
	}
	require.NoError(t, SaveConfig(path, want))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, filepath.Join("/srv/mint", SaleFileName), got.SalePath())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# mintd configuration")

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestSaveConfig_SaleAndNodeConfigTogether(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.DataDir = dir
	require.NoError(t, SaveConfig(ConfigPath(dir), cfg))
	require.NoError(t, SaveSale(cfg.SalePath(), DefaultSale()))

	loaded, err := LoadConfig(ConfigPath(dir))
	require.NoError(t, err)
	sale, err := LoadSale(loaded.SalePath())
	require.NoError(t, err)
	assert.Equal(t, DefaultSale(), sale)
}

// ---------------------------------------------------------------------------
// ValidateConfig
// ---------------------------------------------------------------------------

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"testnet", func(c *Config) { c.Network = "testnet" }, nil},
		{"regtest", func(c *Config) { c.Network = "regtest" }, nil},
		{"level with offset", func(c *Config) { c.LogLevel = "WARN+2" }, nil},
		{"brokers with topic", func(c *Config) { c.KafkaBrokers = []string{"localhost:9092"} }, nil},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, ErrEmptyDataDir},
		{"unknown network", func(c *Config) { c.Network = "devnet" }, ErrInvalidNetwork},
		{"network is case-sensitive", func(c *Config) { c.Network = "Mainnet" }, ErrInvalidNetwork},
		{"listen without port", func(c *Config) { c.ListenAddr = "localhost" }, ErrInvalidListenAddr},
		{"empty listen", func(c *Config) { c.ListenAddr = "" }, ErrInvalidListenAddr},
		{"unknown level", func(c *Config) { c.LogLevel = "verbose" }, ErrInvalidLogLevel},
		{"empty level", func(c *Config) { c.LogLevel = "" }, ErrInvalidLogLevel},
		{
			"brokers without topic",
			func(c *Config) { c.KafkaBrokers, c.KafkaTopic = []string{"localhost:9092"}, "" },
			ErrMissingKafkaTopic,
		},
		{"broker without port", func(c *Config) { c.KafkaBrokers = []string{"localhost"} }, ErrInvalidKafkaBroker},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := ValidateConfig(cfg)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info-2", slog.LevelInfo - 2},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLogLevel(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseLogLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}
