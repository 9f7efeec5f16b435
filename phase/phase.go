// Package phase maps ledger time to the active sale phase.
//
// Ledger time is a millisecond timestamp. A Schedule holds four boundaries
// t0 < t1 < t2 < t3; each phase covers a half-open range [t_i, t_i+1).
package phase

import (
	"fmt"
	"time"
)

// Phase is a sale phase.
type Phase int

const (
	// PreSale is every instant before the first boundary.
	PreSale Phase = iota
	// Tier1Window admits the TierA list.
	Tier1Window
	// Tier2Window admits the TierB list.
	Tier2Window
	// Tier3Window admits the TierC and TierD lists.
	Tier3Window
	// PublicWindow is open to every caller.
	PublicWindow
)

var phaseNames = [...]string{"presale", "tier1", "tier2", "tier3", "public"}

// String returns the lowercase phase name.
func (p Phase) String() string {
	if p < PreSale || p > PublicWindow {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// ParsePhase parses a name produced by String.
func ParsePhase(s string) (Phase, error) {
	for i, n := range phaseNames {
		if n == s {
			return Phase(i), nil
		}
	}
	return PreSale, fmt.Errorf("%w: %q", ErrUnknownPhase, s)
}

// Schedule holds the four boundary timestamps in ledger milliseconds.
type Schedule struct {
	Tier1Start  uint64 `yaml:"tier1_start"`
	Tier2Start  uint64 `yaml:"tier2_start"`
	Tier3Start  uint64 `yaml:"tier3_start"`
	PublicStart uint64 `yaml:"public_start"`
}

// Validate checks t0 < t1 < t2 < t3.
func (s Schedule) Validate() error {
	if s.Tier1Start < s.Tier2Start && s.Tier2Start < s.Tier3Start && s.Tier3Start < s.PublicStart {
		return nil
	}
	return fmt.Errorf("%w: %d, %d, %d, %d", ErrUnorderedSchedule,
		s.Tier1Start, s.Tier2Start, s.Tier3Start, s.PublicStart)
}

// At returns the phase active at ledger time now. Each boundary belongs to
// the phase it opens.
func (s Schedule) At(now uint64) Phase {
	switch {
	case now < s.Tier1Start:
		return PreSale
	case now < s.Tier2Start:
		return Tier1Window
	case now < s.Tier3Start:
		return Tier2Window
	case now < s.PublicStart:
		return Tier3Window
	default:
		return PublicWindow
	}
}

// Start returns the ledger time at which p opens. PreSale has no start and
// returns 0.
func (s Schedule) Start(p Phase) uint64 {
	switch p {
	case Tier1Window:
		return s.Tier1Start
	case Tier2Window:
		return s.Tier2Start
	case Tier3Window:
		return s.Tier3Start
	case PublicWindow:
		return s.PublicStart
	default:
		return 0
	}
}

// LedgerTime truncates t to whole milliseconds since the Unix epoch.
func LedgerTime(t time.Time) uint64 {
	ms := t.UnixMilli()
	if ms < 0 {
		return 0
	}
	return uint64(ms)
}

// Clock supplies ledger time.
type Clock interface {
	Now() uint64
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() uint64

// Now calls f.
func (f ClockFunc) Now() uint64 { return f() }

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current wall time in ledger milliseconds.
func (SystemClock) Now() uint64 { return LedgerTime(time.Now()) }

// Fixed returns a Clock that always reports ms.
func Fixed(ms uint64) Clock { return ClockFunc(func() uint64 { return ms }) }
