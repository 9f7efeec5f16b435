// Package quota derives how many units an account already holds and compares
// it against per-tier caps. Holdings are never stored separately: they are
// read from the token ownership index on every decision.
package quota

import (
	"fmt"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/allowlist"
)

// Caps holds the per-account cap for each tier. TierC and TierD share Tier3.
type Caps struct {
	Owner  uint64 `yaml:"owner"`
	Tier1  uint64 `yaml:"tier1"`
	Tier2  uint64 `yaml:"tier2"`
	Tier3  uint64 `yaml:"tier3"`
	Public uint64 `yaml:"public"`
}

// For returns the cap that applies to tier.
func (c Caps) For(tier allowlist.Tier) uint64 {
	switch tier {
	case allowlist.Owner:
		return c.Owner
	case allowlist.TierA:
		return c.Tier1
	case allowlist.TierB:
		return c.Tier2
	case allowlist.TierC, allowlist.TierD:
		return c.Tier3
	case allowlist.Public:
		return c.Public
	default:
		return 0
	}
}

// Validate rejects zero caps.
func (c Caps) Validate() error {
	for _, tier := range []allowlist.Tier{allowlist.Owner, allowlist.TierA, allowlist.TierB, allowlist.TierC, allowlist.Public} {
		if c.For(tier) == 0 {
			return fmt.Errorf("%w: %s", ErrZeroCap, tier)
		}
	}
	return nil
}

// OwnerIndex is the read side of the token ownership index.
type OwnerIndex interface {
	SupplyForOwner(owner account.ID) (uint64, error)
}

// Ledger answers quota questions against an ownership index.
type Ledger struct {
	index OwnerIndex
}

// NewLedger returns a Ledger reading holdings from index.
func NewLedger(index OwnerIndex) *Ledger {
	return &Ledger{index: index}
}

// Owned returns the number of tokens id currently holds.
func (l *Ledger) Owned(id account.ID) (uint64, error) {
	n, err := l.index.SupplyForOwner(id)
	if err != nil {
		return 0, fmt.Errorf("quota: owned %s: %w", id, err)
	}
	return n, nil
}
