// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/admission"
	"github.com/bitfsorg/libmint-go/mint"
	"github.com/bitfsorg/libmint-go/paymail"
	"github.com/bitfsorg/libmint-go/phase"
	"github.com/bitfsorg/libmint-go/quota"
	"github.com/bitfsorg/libmint-go/royalty"
	"github.com/bitfsorg/libmint-go/token"
)

// Sale is the sale policy file.
type Sale struct {
	Owner      account.ID             `yaml:"owner"`
	MaxSupply  uint64                 `yaml:"max_supply"`
	Price      uint64                 `yaml:"price"`
	Schedule   phase.Schedule         `yaml:"schedule"`
	Caps       quota.Caps             `yaml:"caps"`
	Royalty    []royalty.Entry        `yaml:"royalty"`
	Settlement Settlement             `yaml:"settlement"`
	Template   token.Template         `yaml:"template"`
	Contract   token.ContractMetadata `yaml:"contract"`
}

// Settlement configures the forwarding of part of every paid mint.
type Settlement struct {
	// Destination is a paymail handle or a BSV address.
	Destination string `yaml:"destination"`
	// Amount is forwarded per paid mint. Zero disables settlement.
	Amount uint64 `yaml:"amount"`
	// KeyIndex selects the treasury key that funds transfers.
	KeyIndex uint32 `yaml:"key_index"`
	// FeeRate is the fee in satoshis per kilobyte.
	FeeRate uint64 `yaml:"fee_rate"`
}

func ms(year int, month time.Month, day, hour, minute int) uint64 {
	return phase.LedgerTime(time.Date(year, month, day, hour, minute, 0, 0, time.UTC))
}

// DefaultSale returns the reference deployment: 538 tokens, four phases
// thirty minutes apart and caps of 538, 3, 2, 1 and 3.
func DefaultSale() Sale {
	return Sale{
		Owner:     "owner.near",
		MaxSupply: 538,
		Price:     5_000_000,
		Schedule: phase.Schedule{
			Tier1Start:  ms(2022, time.September, 22, 13, 0),
			Tier2Start:  ms(2022, time.September, 22, 13, 30),
			Tier3Start:  ms(2022, time.September, 22, 14, 0),
			PublicStart: ms(2022, time.September, 22, 14, 30),
		},
		Caps:    quota.Caps{Owner: 538, Tier1: 3, Tier2: 2, Tier3: 1, Public: 3},
		Royalty: []royalty.Entry{{Account: "platform.near", BPS: 1000}},
		Settlement: Settlement{
			Destination: "treasury@mint.example",
			Amount:      87_500,
			FeeRate:     1,
		},
		Template: token.Template{
			TitlePrefix:   "Token #",
			MediaBase:     "https://media.mint.example",
			MediaExt:      ".png",
			ReferenceBase: "https://media.mint.example",
			ReferenceExt:  ".json",
		},
		Contract: token.ContractMetadata{
			Spec:   token.SpecVersion,
			Name:   "Mint Collection",
			Symbol: "MINT",
		},
	}
}

// EngineConfig converts the sale to the engine configuration.
func (s Sale) EngineConfig() mint.Config {
	return mint.Config{
		Owner:     s.Owner,
		MaxSupply: s.MaxSupply,
		Policy: admission.Policy{
			Schedule: s.Schedule,
			Caps:     s.Caps,
			Price:    s.Price,
		},
		Royalty:          royalty.FromEntries(s.Royalty),
		Template:         s.Template,
		Contract:         s.Contract,
		SettlementAmount: s.Settlement.Amount,
	}
}

// Validate checks the engine configuration and the settlement destination.
func (s Sale) Validate() error {
	if err := s.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSale, err)
	}
	if s.Settlement.Amount == 0 {
		return nil
	}
	if s.Settlement.Destination == "" {
		return fmt.Errorf("%w: settlement destination required", ErrInvalidSale)
	}
	if paymail.IsPaymail(s.Settlement.Destination) {
		if _, err := paymail.ParseAddress(s.Settlement.Destination); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSale, err)
		}
	}
	return nil
}

// LoadSale reads and validates the sale file at path.
func LoadSale(path string) (Sale, error) {
	var s Sale
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return s, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalidSale, err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// SaveSale writes s as YAML.
func SaveSale(path string, s Sale) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: encode sale: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
