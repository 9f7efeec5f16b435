// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads the mintd node configuration, the sale policy and
// the eligibility list data.
//
// The node configuration is a plain key = value file; the sale and list
// files are YAML.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Config is the node configuration.
type Config struct {
	DataDir      string
	ListenAddr   string
	Network      string
	LogLevel     string
	LogFile      string
	SaleFile     string // empty means SaleFileName under DataDir
	KafkaBrokers []string
	KafkaTopic   string
}

// Default file names under the data directory.
const (
	ConfigFileName = "config"
	SaleFileName   = "sale.yaml"
	DBFileName     = "mint.db"
)

// DefaultDataDir returns ~/.mintd, or .mintd when the home directory is
// unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mintd"
	}
	return filepath.Join(home, ".mintd")
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		DataDir:    DefaultDataDir(),
		ListenAddr: ":8080",
		Network:    "mainnet",
		LogLevel:   "info",
		KafkaTopic: "mint-events",
	}
}

// ConfigPath returns the configuration file path within dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// DBPath returns the token database path within the data directory.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, DBFileName)
}

// SalePath returns the sale policy file, defaulting to SaleFileName under
// the data directory.
func (c Config) SalePath() string {
	if c.SaleFile != "" {
		return c.SaleFile
	}
	return filepath.Join(c.DataDir, SaleFileName)
}

// LoadConfig reads path over DefaultConfig. Unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := parseKeyValue(line)
		if !ok {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		cfg.set(key, value)
	}
	if err := sc.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// parseKeyValue splits on the first '='.
func parseKeyValue(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

func (c *Config) set(key, value string) {
	switch key {
	case "datadir":
		c.DataDir = value
	case "listen":
		c.ListenAddr = value
	case "network":
		c.Network = value
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	case "salefile":
		c.SaleFile = value
	case "kafkabrokers":
		c.KafkaBrokers = splitList(value)
	case "kafkatopic":
		c.KafkaTopic = value
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# mintd configuration\n\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "listen = %s\n", cfg.ListenAddr)
	fmt.Fprintf(&b, "network = %s\n", cfg.Network)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)
	fmt.Fprintf(&b, "salefile = %s\n", cfg.SaleFile)
	fmt.Fprintf(&b, "kafkabrokers = %s\n", strings.Join(cfg.KafkaBrokers, ","))
	fmt.Fprintf(&b, "kafkatopic = %s\n", cfg.KafkaTopic)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
