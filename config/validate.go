// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/bitfsorg/libmint-go/wallet"
)

// ValidateConfig returns the first unusable setting in cfg, or nil.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}
	if _, err := wallet.GetNetwork(cfg.Network); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidNetwork, cfg.Network)
	}
	if _, _, err := net.SplitHostPort(cfg.ListenAddr); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidListenAddr, err)
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	return validateKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
}

// ParseLogLevel maps the loglevel setting onto a slog level. Names are
// case-insensitive and may carry an offset ("warn+2").
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
	return level, nil
}

// validateKafka accepts no brokers at all, or host:port brokers with a topic.
func validateKafka(brokers []string, topic string) error {
	if len(brokers) == 0 {
		return nil
	}
	if topic == "" {
		return ErrMissingKafkaTopic
	}
	for _, b := range brokers {
		if _, _, err := net.SplitHostPort(b); err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidKafkaBroker, b, err)
		}
	}
	return nil
}
