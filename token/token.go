// Package token defines the issued token record and its metadata.
package token

import (
	"fmt"
	"strconv"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/royalty"
)

// ID is a sequential token identifier starting at 1.
type ID uint64

// String returns the decimal form used in metadata and events.
func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// ParseID parses a decimal token id. Zero is rejected.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID(n), nil
}

// Token is the ownership record created once per successful mint.
type Token struct {
	ID             ID
	Owner          account.ID
	Royalty        royalty.Split
	Approvals      map[account.ID]uint64
	NextApprovalID uint64
}

// New returns a token owned by owner with empty approvals.
func New(id ID, owner account.ID, split royalty.Split) *Token {
	return &Token{
		ID:        id,
		Owner:     owner,
		Royalty:   split.Clone(),
		Approvals: map[account.ID]uint64{},
	}
}

// View is the JSON shape returned by token reads.
type View struct {
	TokenID            string                `json:"token_id"`
	OwnerID            account.ID            `json:"owner_id"`
	Metadata           *Metadata             `json:"metadata,omitempty"`
	ApprovedAccountIDs map[account.ID]uint64 `json:"approved_account_ids"`
	Royalty            map[account.ID]uint32 `json:"royalty"`
}

// NewView assembles a View from a token and its metadata. md may be nil.
func NewView(t *Token, md *Metadata) *View {
	approvals := t.Approvals
	if approvals == nil {
		approvals = map[account.ID]uint64{}
	}
	return &View{
		TokenID:            t.ID.String(),
		OwnerID:            t.Owner,
		Metadata:           md,
		ApprovedAccountIDs: approvals,
		Royalty:            t.Royalty,
	}
}
