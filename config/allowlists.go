// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/mint"
)

// LoadAllowlists reads an eligibility list file keyed by tier name:
//
//	owner: [team.near]
//	tier_a: [alice.near, bob.near]
//
// Order and duplicates are kept.
func LoadAllowlists(path string) (mint.Allowlists, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return ParseAllowlists(data)
}

// ParseAllowlists decodes and validates list data.
func ParseAllowlists(data []byte) (mint.Allowlists, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAllowlists, err)
	}
	lists := make(mint.Allowlists, len(raw))
	for name, entries := range raw {
		tier, err := allowlist.ParseTier(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAllowlists, err)
		}
		if !tier.HasList() {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvalidAllowlists, allowlist.ErrNoList, tier)
		}
		ids, err := account.ParseAll(entries)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %w", ErrInvalidAllowlists, tier, err)
		}
		lists[tier] = ids
	}
	return lists, nil
}
