// Package store persists eligibility lists, tokens, metadata and the
// ownership index behind a single transactional interface.
//
// Every mint runs inside one Update call. Returning an error from the
// callback discards everything staged in it, which is how a denied or
// aborted call leaves no trace. Update calls are serialized: at most one
// writer runs at a time.
package store

import (
	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/token"
)

// Tx is the view of the store inside a transaction.
type Tx interface {
	// List returns a copy of the tier's eligibility list.
	List(tier allowlist.Tier) (allowlist.List, error)

	// AppendList adds ids to the end of the tier's list.
	AppendList(tier allowlist.Tier, ids ...account.ID) error

	// RemoveAt swap-removes the entry at index i of the tier's list.
	RemoveAt(tier allowlist.Tier, i int) (account.ID, error)

	// Minted returns how many tokens have ever been inserted. It never
	// decreases.
	Minted() (uint64, error)

	// Token returns the token with the given id.
	Token(id token.ID) (*token.Token, error)

	// TokenExists reports whether a token with the given id is stored.
	TokenExists(id token.ID) (bool, error)

	// InsertToken stores t under t.ID and returns the record it replaced,
	// if any. Only inserts of new ids advance Minted.
	InsertToken(t *token.Token) (*token.Token, error)

	// Metadata returns the metadata stored for id.
	Metadata(id token.ID) (*token.Metadata, error)

	// InsertMetadata stores md under id.
	InsertMetadata(id token.ID, md *token.Metadata) error

	// AddToOwner records id in the owner's token set.
	AddToOwner(owner account.ID, id token.ID) error

	// SupplyForOwner returns the size of the owner's token set.
	SupplyForOwner(owner account.ID) (uint64, error)

	// TokensForOwner returns the owner's token ids in ascending order.
	TokensForOwner(owner account.ID) ([]token.ID, error)
}

// Store runs transactions.
type Store interface {
	// View runs fn in a read-only transaction.
	View(fn func(Tx) error) error

	// Update runs fn in a read-write transaction and commits only if fn
	// returns nil.
	Update(fn func(Tx) error) error

	// Close releases the store.
	Close() error
}
