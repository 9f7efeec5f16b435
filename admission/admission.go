// Package admission decides whether a single mint call is allowed and which
// eligibility slot it consumes.
//
// Decide is a pure function of its inputs: it reads list and holdings
// snapshots and reports the removals the caller must apply. Nothing is
// mutated here; the issuance transaction applies the removals and discards
// them if any later step fails.
package admission

import (
	"fmt"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/phase"
	"github.com/bitfsorg/libmint-go/quota"
)

// Policy is the fixed sale configuration consulted by Decide.
type Policy struct {
	Schedule phase.Schedule
	Caps     quota.Caps
	Price    uint64
}

// Request describes one mint call.
type Request struct {
	Caller account.ID
	Amount uint64
	Now    uint64
}

// Free reports whether the call carries no payment.
func (r Request) Free() bool { return r.Amount == 0 }

// Lists is the read side of the eligibility registry.
type Lists interface {
	List(tier allowlist.Tier) (allowlist.List, error)
}

// Holdings is the read side of the quota ledger.
type Holdings interface {
	Owned(id account.ID) (uint64, error)
}

// Reason says why a slot is removed.
type Reason int

const (
	// Consumed marks the slot spent by this admission.
	Consumed Reason = iota
	// Evicted marks a slot dropped because the holder is at the tier cap.
	Evicted
)

func (r Reason) String() string {
	if r == Evicted {
		return "evicted"
	}
	return "consumed"
}

// Removal is one staged swap-remove. Index refers to the list as read by
// Decide; at most one removal is staged per list.
type Removal struct {
	Tier    allowlist.Tier
	Index   int
	Account account.ID
	Reason  Reason
}

// Decision is the outcome of Decide. On denial Tier is meaningless but
// Removals may still hold evictions.
type Decision struct {
	Phase    phase.Phase
	Tier     allowlist.Tier
	Removals []Removal
}

// Evictions returns the removals with reason Evicted.
func (d Decision) Evictions() []Removal {
	var out []Removal
	for _, r := range d.Removals {
		if r.Reason == Evicted {
			out = append(out, r)
		}
	}
	return out
}

// ValidatePayment accepts zero or exactly price.
func ValidatePayment(amount, price uint64) error {
	if amount == 0 || amount == price {
		return nil
	}
	return fmt.Errorf("%w: got %d, want 0 or %d", ErrInvalidPayment, amount, price)
}

// NotEligible returns the denial for a list-gated phase.
func NotEligible(p phase.Phase) error {
	switch p {
	case phase.Tier1Window:
		return ErrNotEligibleTier1
	case phase.Tier2Window:
		return ErrNotEligibleTier2
	case phase.Tier3Window:
		return ErrNotEligibleTier3
	case phase.PublicWindow:
		return ErrQuotaExceeded
	default:
		return ErrTooEarly
	}
}

// windowTiers lists, in evaluation order, the tiers a phase admits.
var windowTiers = map[phase.Phase][]allowlist.Tier{
	phase.Tier1Window: {allowlist.TierA},
	phase.Tier2Window: {allowlist.TierB},
	phase.Tier3Window: {allowlist.TierC, allowlist.TierD},
}

// Decide evaluates req against the policy.
//
// The free path first tries the Owner list. Then the phase at req.Now selects
// the tiers to check. For each list only the caller's first occurrence is
// examined: below the cap it is consumed and the call admitted, at or above
// the cap it is evicted and the list counts as not matching. The public
// window has no list and only checks the cap.
func Decide(p Policy, req Request, lists Lists, holdings Holdings) (Decision, error) {
	d := Decision{Phase: p.Schedule.At(req.Now)}

	if err := ValidatePayment(req.Amount, p.Price); err != nil {
		return d, err
	}

	owned, err := holdings.Owned(req.Caller)
	if err != nil {
		return d, err
	}

	try := func(tier allowlist.Tier) (bool, error) {
		l, err := lists.List(tier)
		if err != nil {
			return false, fmt.Errorf("admission: read %s list: %w", tier, err)
		}
		i := l.IndexOf(req.Caller)
		if i < 0 {
			return false, nil
		}
		r := Removal{Tier: tier, Index: i, Account: req.Caller, Reason: Consumed}
		if owned >= p.Caps.For(tier) {
			r.Reason = Evicted
			d.Removals = append(d.Removals, r)
			return false, nil
		}
		d.Removals = append(d.Removals, r)
		d.Tier = tier
		return true, nil
	}

	if req.Free() {
		ok, err := try(allowlist.Owner)
		if err != nil || ok {
			return d, err
		}
	}

	switch d.Phase {
	case phase.PreSale:
		return d, ErrTooEarly
	case phase.PublicWindow:
		if owned >= p.Caps.Public {
			return d, fmt.Errorf("%w: holds %d of %d", ErrQuotaExceeded, owned, p.Caps.Public)
		}
		d.Tier = allowlist.Public
		return d, nil
	}

	for _, tier := range windowTiers[d.Phase] {
		ok, err := try(tier)
		if err != nil || ok {
			return d, err
		}
	}
	return d, NotEligible(d.Phase)
}
