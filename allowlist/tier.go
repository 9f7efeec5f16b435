package allowlist

import "fmt"

// Tier is an eligibility class. Tiers are ordered by the phase in which they
// become active; Owner is usable at any time on the free path.
type Tier int

const (
	// Owner is the reserved free-claim list.
	Owner Tier = iota
	// TierA is admitted during the first window.
	TierA
	// TierB is admitted during the second window.
	TierB
	// TierC is admitted during the third window, checked before TierD.
	TierC
	// TierD is admitted during the third window.
	TierD
	// Public has no list.
	Public
)

// Listed enumerates the tiers that carry a list, in setup order.
var Listed = []Tier{Owner, TierA, TierB, TierC, TierD}

var tierNames = [...]string{"owner", "tier_a", "tier_b", "tier_c", "tier_d", "public"}

// String returns the tier name used in data files and URLs.
func (t Tier) String() string {
	if t < Owner || t > Public {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// HasList reports whether the tier keeps an eligibility list.
func (t Tier) HasList() bool { return t >= Owner && t < Public }

// ParseTier parses a tier name.
func ParseTier(s string) (Tier, error) {
	for i, n := range tierNames {
		if n == s {
			return Tier(i), nil
		}
	}
	return Owner, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
