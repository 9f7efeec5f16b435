package mint

import (
	"fmt"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/phase"
	"github.com/bitfsorg/libmint-go/royalty"
	"github.com/bitfsorg/libmint-go/store"
	"github.com/bitfsorg/libmint-go/token"
)

// List returns a copy of the tier's eligibility list in stored order.
func (e *Engine) List(tier allowlist.Tier) (allowlist.List, error) {
	var out allowlist.List
	err := e.store.View(func(tx store.Tx) error {
		var err error
		out, err = tx.List(tier)
		return err
	})
	return out, err
}

// TotalSupply returns how many tokens have been minted.
func (e *Engine) TotalSupply() (uint64, error) {
	var n uint64
	err := e.store.View(func(tx store.Tx) error {
		var err error
		n, err = tx.Minted()
		return err
	})
	return n, err
}

// TokenExists reports whether id has been minted.
func (e *Engine) TokenExists(id token.ID) (bool, error) {
	var ok bool
	err := e.store.View(func(tx store.Tx) error {
		var err error
		ok, err = tx.TokenExists(id)
		return err
	})
	return ok, err
}

// Token returns the token with its metadata.
func (e *Engine) Token(id token.ID) (*token.View, error) {
	var view *token.View
	err := e.store.View(func(tx store.Tx) error {
		t, err := tx.Token(id)
		if err != nil {
			return err
		}
		md, err := tx.Metadata(id)
		if err != nil {
			return err
		}
		view = token.NewView(t, md)
		return nil
	})
	return view, err
}

// Payout splits balance from a sale of token id between the token's royalty
// accounts and its current owner.
func (e *Engine) Payout(id token.ID, balance uint64, maxLen int) (royalty.Payout, error) {
	var t *token.Token
	err := e.store.View(func(tx store.Tx) error {
		var err error
		t, err = tx.Token(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t.Royalty.Payout(t.Owner, balance, maxLen)
}

// SupplyForOwner returns how many tokens owner holds.
func (e *Engine) SupplyForOwner(owner account.ID) (uint64, error) {
	var n uint64
	err := e.store.View(func(tx store.Tx) error {
		var err error
		n, err = tx.SupplyForOwner(owner)
		return err
	})
	return n, err
}

// ContractMetadata returns the collection-level metadata.
func (e *Engine) ContractMetadata() token.ContractMetadata {
	return e.cfg.Contract
}

// Status is a snapshot of the sale.
type Status struct {
	Now         uint64         `json:"now"`
	Phase       string         `json:"phase"`
	NextPhaseAt uint64         `json:"next_phase_at,omitempty"`
	Minted      uint64         `json:"minted"`
	MaxSupply   uint64         `json:"max_supply"`
	Remaining   uint64         `json:"remaining"`
	Price       uint64         `json:"price"`
	Lists       map[string]int `json:"lists"`
}

// Status reports the current phase, supply and list sizes.
func (e *Engine) Status() (*Status, error) {
	now := e.clock.Now()
	p := e.cfg.Policy.Schedule.At(now)
	st := &Status{
		Now:       now,
		Phase:     p.String(),
		MaxSupply: e.cfg.MaxSupply,
		Price:     e.cfg.Policy.Price,
		Lists:     make(map[string]int, len(allowlist.Listed)),
	}
	if p < phase.PublicWindow {
		st.NextPhaseAt = e.cfg.Policy.Schedule.Start(p + 1)
	}

	err := e.store.View(func(tx store.Tx) error {
		minted, err := tx.Minted()
		if err != nil {
			return err
		}
		st.Minted = minted
		for _, tier := range allowlist.Listed {
			l, err := tx.List(tier)
			if err != nil {
				return fmt.Errorf("mint: read %s list: %w", tier, err)
			}
			st.Lists[tier.String()] = len(l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if st.Minted < st.MaxSupply {
		st.Remaining = st.MaxSupply - st.Minted
	}
	return st, nil
}
