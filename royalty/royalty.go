// Package royalty holds the static royalty split recorded on each token.
package royalty

import (
	"fmt"
	"sort"

	"github.com/bitfsorg/libmint-go/account"
)

const (
	// FullShare is 100% in basis points.
	FullShare = 10_000
	// MaxEntries bounds the number of accounts in one split.
	MaxEntries = 6
)

// Split maps an account to its share in basis points.
type Split map[account.ID]uint32

// Entry is one account's share.
type Entry struct {
	Account account.ID `yaml:"account" json:"account"`
	BPS     uint32     `yaml:"bps" json:"bps"`
}

// Single returns a split with one entry.
func Single(acct account.ID, bps uint32) Split {
	return Split{acct: bps}
}

// FromEntries builds a split, adding shares of repeated accounts.
func FromEntries(entries []Entry) Split {
	s := make(Split, len(entries))
	for _, e := range entries {
		s[e.Account] += e.BPS
	}
	return s
}

// Total returns the sum of all shares.
func (s Split) Total() uint64 {
	var total uint64
	for _, bps := range s {
		total += uint64(bps)
	}
	return total
}

// Entries returns the split sorted by account.
func (s Split) Entries() []Entry {
	out := make([]Entry, 0, len(s))
	for acct, bps := range s {
		out = append(out, Entry{Account: acct, BPS: bps})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Account < out[j].Account })
	return out
}

// Clone returns an independent copy.
func (s Split) Clone() Split {
	if s == nil {
		return nil
	}
	out := make(Split, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Validate checks the split is non-empty, has no zero shares and does not
// exceed FullShare.
func (s Split) Validate() error {
	if len(s) == 0 {
		return ErrNoEntries
	}
	if len(s) > MaxEntries {
		return fmt.Errorf("%w: %d > %d", ErrTooManyEntries, len(s), MaxEntries)
	}
	for acct, bps := range s {
		if bps == 0 {
			return fmt.Errorf("%w: %s", ErrZeroShare, acct)
		}
		if err := acct.Validate(); err != nil {
			return err
		}
	}
	if total := s.Total(); total > FullShare {
		return fmt.Errorf("%w: %d", ErrShareOverflow, total)
	}
	return nil
}
