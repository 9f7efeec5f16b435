// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

// Node configuration errors.
var (
	ErrEmptyDataDir      = errors.New("config: empty datadir")
	ErrInvalidNetwork    = errors.New("config: unknown network")
	ErrInvalidListenAddr = errors.New("config: listen is not host:port")
	ErrInvalidLogLevel   = errors.New("config: unknown loglevel")
	ErrConfigNotFound    = errors.New("config: file not found")
	ErrInvalidConfigLine = errors.New("config: malformed line")

	// ErrMissingKafkaTopic indicates brokers were configured without a topic.
	ErrMissingKafkaTopic = errors.New("config: kafka brokers set without a topic")

	// ErrInvalidKafkaBroker indicates a broker that is not host:port.
	ErrInvalidKafkaBroker = errors.New("config: invalid kafka broker")
)

// Sale and list file errors.
var (
	ErrInvalidSale       = errors.New("config: invalid sale")
	ErrInvalidAllowlists = errors.New("config: invalid allowlists")
)
