package mint

import (
	"fmt"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/admission"
	"github.com/bitfsorg/libmint-go/royalty"
	"github.com/bitfsorg/libmint-go/token"
)

// Config is the fixed sale configuration of an Engine.
type Config struct {
	// Owner may run the privileged list setup calls.
	Owner account.ID

	// MaxSupply caps the number of tokens ever minted.
	MaxSupply uint64

	// Policy holds the phase schedule, tier caps and price.
	Policy admission.Policy

	// Royalty is recorded on every token at mint time.
	Royalty royalty.Split

	// Template derives per-token metadata from the token id.
	Template token.Template

	// Contract is the collection-level metadata.
	Contract token.ContractMetadata

	// SettlementAmount is forwarded for every paid mint. Zero disables
	// settlement.
	SettlementAmount uint64
}

// Validate checks every part of the configuration.
func (c Config) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return fmt.Errorf("%w: owner: %w", ErrInvalidConfig, err)
	}
	if c.MaxSupply == 0 {
		return fmt.Errorf("%w: max supply must be positive", ErrInvalidConfig)
	}
	if err := c.Policy.Schedule.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Policy.Caps.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Policy.Price == 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidConfig)
	}
	if c.SettlementAmount >= c.Policy.Price {
		return fmt.Errorf("%w: settlement amount %d must be below price %d",
			ErrInvalidConfig, c.SettlementAmount, c.Policy.Price)
	}
	if err := c.Royalty.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Template.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Contract.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
