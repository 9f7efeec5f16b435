package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/token"
)

// MemStore is an in-memory Store. Update works on a copy of the state and
// swaps it in on success.
type MemStore struct {
	mu    sync.RWMutex
	state *memState
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

type memState struct {
	lists    map[allowlist.Tier]allowlist.List
	tokens   map[token.ID]*token.Token
	metadata map[token.ID]*token.Metadata
	owners   map[account.ID][]token.ID
	minted   uint64
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{state: &memState{
		lists:    make(map[allowlist.Tier]allowlist.List),
		tokens:   make(map[token.ID]*token.Token),
		metadata: make(map[token.ID]*token.Metadata),
		owners:   make(map[account.ID][]token.ID),
	}}
}

// clone copies the containers. Stored records are never mutated in place, so
// the pointers are shared.
func (s *memState) clone() *memState {
	c := &memState{
		lists:    make(map[allowlist.Tier]allowlist.List, len(s.lists)),
		tokens:   make(map[token.ID]*token.Token, len(s.tokens)),
		metadata: make(map[token.ID]*token.Metadata, len(s.metadata)),
		owners:   make(map[account.ID][]token.ID, len(s.owners)),
		minted:   s.minted,
	}
	for k, v := range s.lists {
		c.lists[k] = v.Clone()
	}
	for k, v := range s.tokens {
		c.tokens[k] = v
	}
	for k, v := range s.metadata {
		c.metadata[k] = v
	}
	for k, v := range s.owners {
		c.owners[k] = append([]token.ID(nil), v...)
	}
	return c
}

// View runs fn against the current state.
func (s *MemStore) View(fn func(Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memTx{st: s.state, readOnly: true})
}

// Update runs fn against a copy of the state and commits it if fn succeeds.
func (s *MemStore) Update(fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.clone()
	if err := fn(&memTx{st: next}); err != nil {
		return err
	}
	s.state = next
	return nil
}

// Close is a no-op.
func (s *MemStore) Close() error { return nil }

type memTx struct {
	st       *memState
	readOnly bool
}

func (tx *memTx) writable() error {
	if tx.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (tx *memTx) List(tier allowlist.Tier) (allowlist.List, error) {
	if !tier.HasList() {
		return nil, fmt.Errorf("%w: %s", allowlist.ErrNoList, tier)
	}
	return tx.st.lists[tier].Clone(), nil
}

func (tx *memTx) AppendList(tier allowlist.Tier, ids ...account.ID) error {
	if err := tx.writable(); err != nil {
		return err
	}
	if !tier.HasList() {
		return fmt.Errorf("%w: %s", allowlist.ErrNoList, tier)
	}
	l := tx.st.lists[tier]
	l.Append(ids...)
	tx.st.lists[tier] = l
	return nil
}

func (tx *memTx) RemoveAt(tier allowlist.Tier, i int) (account.ID, error) {
	if err := tx.writable(); err != nil {
		return "", err
	}
	if !tier.HasList() {
		return "", fmt.Errorf("%w: %s", allowlist.ErrNoList, tier)
	}
	l := tx.st.lists[tier]
	removed, err := l.SwapRemove(i)
	if err != nil {
		return "", err
	}
	tx.st.lists[tier] = l
	return removed, nil
}

func (tx *memTx) Minted() (uint64, error) { return tx.st.minted, nil }

func (tx *memTx) Token(id token.ID) (*token.Token, error) {
	t, ok := tx.st.tokens[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, id)
	}
	return cloneToken(t), nil
}

func (tx *memTx) TokenExists(id token.ID) (bool, error) {
	_, ok := tx.st.tokens[id]
	return ok, nil
}

func (tx *memTx) InsertToken(t *token.Token) (*token.Token, error) {
	if err := tx.writable(); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: token", ErrNilParam)
	}
	prev, ok := tx.st.tokens[t.ID]
	tx.st.tokens[t.ID] = cloneToken(t)
	if ok {
		return prev, nil
	}
	tx.st.minted++
	return nil, nil
}

func (tx *memTx) Metadata(id token.ID) (*token.Metadata, error) {
	md, ok := tx.st.metadata[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMetadataNotFound, id)
	}
	c := *md
	return &c, nil
}

func (tx *memTx) InsertMetadata(id token.ID, md *token.Metadata) error {
	if err := tx.writable(); err != nil {
		return err
	}
	if md == nil {
		return fmt.Errorf("%w: metadata", ErrNilParam)
	}
	c := *md
	tx.st.metadata[id] = &c
	return nil
}

func (tx *memTx) AddToOwner(owner account.ID, id token.ID) error {
	if err := tx.writable(); err != nil {
		return err
	}
	ids := tx.st.owners[owner]
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if i < len(ids) && ids[i] == id {
		return nil
	}
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	tx.st.owners[owner] = ids
	return nil
}

func (tx *memTx) SupplyForOwner(owner account.ID) (uint64, error) {
	return uint64(len(tx.st.owners[owner])), nil
}

func (tx *memTx) TokensForOwner(owner account.ID) ([]token.ID, error) {
	return append([]token.ID(nil), tx.st.owners[owner]...), nil
}

func cloneToken(t *token.Token) *token.Token {
	c := *t
	c.Royalty = t.Royalty.Clone()
	c.Approvals = make(map[account.ID]uint64, len(t.Approvals))
	for k, v := range t.Approvals {
		c.Approvals[k] = v
	}
	return &c
}
