// Package allowlist holds the per-tier eligibility lists.
//
// A List is an ordered sequence of identities. Duplicates are allowed and
// each occurrence is an independent slot. Removal swaps the last entry into
// the gap, so list order after the first removal carries no meaning beyond
// deciding which duplicate is found first.
package allowlist

import (
	"fmt"

	"github.com/bitfsorg/libmint-go/account"
)

// List is an ordered eligibility list.
type List []account.ID

// IndexOf returns the index of the first occurrence of id, or -1.
func (l List) IndexOf(id account.ID) int {
	for i, e := range l {
		if e == id {
			return i
		}
	}
	return -1
}

// SwapRemove removes the entry at i by moving the last entry into its place.
func (l *List) SwapRemove(i int) (account.ID, error) {
	n := len(*l)
	if i < 0 || i >= n {
		return "", fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, n)
	}
	s := *l
	removed := s[i]
	s[i] = s[n-1]
	s[n-1] = ""
	*l = s[:n-1]
	return removed, nil
}

// Append adds ids to the end of the list without duplicate checks.
func (l *List) Append(ids ...account.ID) { *l = append(*l, ids...) }

// Clone returns an independent copy.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}
