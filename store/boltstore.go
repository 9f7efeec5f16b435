package store

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/token"
)

var (
	bucketTokens   = []byte("tokens")
	bucketMetadata = []byte("metadata")
	bucketOwners   = []byte("owners")
	bucketMeta     = []byte("meta")

	keyMinted = []byte("minted")
)

// listBucket names the bucket holding a tier's list. Keys are 4-byte
// big-endian positions 0..n-1 with no gaps.
func listBucket(tier allowlist.Tier) []byte {
	return []byte("list_" + tier.String())
}

// BoltStore is a Store backed by a bbolt database.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist. Opening fails after
// timeout if another process holds the database.
func OpenBoltStore(dbPath string, timeout time.Duration) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	names := [][]byte{bucketTokens, bucketMetadata, bucketOwners, bucketMeta}
	for _, tier := range allowlist.Listed {
		names = append(names, listBucket(tier))
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range names {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *BoltStore) Path() string { return s.db.Path() }

// View runs fn in a read-only bolt transaction.
func (s *BoltStore) View(fn func(Tx) error) error {
	return s.db.View(func(btx *bbolt.Tx) error {
		return fn(&boltTx{tx: btx})
	})
}

// Update runs fn in a read-write bolt transaction. bolt allows one writer
// at a time and rolls back when fn returns an error.
func (s *BoltStore) Update(fn func(Tx) error) error {
	return s.db.Update(func(btx *bbolt.Tx) error {
		return fn(&boltTx{tx: btx})
	})
}

// indexKey encodes a list position as a 4-byte big-endian key.
func indexKey(i int) []byte {
	k := make([]byte, 4)
	binary.BigEndian.PutUint32(k, uint32(i))
	return k
}

// tokenKey encodes a token id as an 8-byte big-endian key for sorted storage.
func tokenKey(id token.ID) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}

// ownerPrefix is owner || 0x00. Account ids never contain a zero byte.
func ownerPrefix(owner account.ID) []byte {
	p := make([]byte, len(owner)+1)
	copy(p, owner)
	return p
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// ---------------------------------------------------------------------------
// boltTx implements Tx.
// ---------------------------------------------------------------------------

type boltTx struct {
	tx *bbolt.Tx
}

func (t *boltTx) writable() error {
	if !t.tx.Writable() {
		return ErrReadOnly
	}
	return nil
}

func (t *boltTx) list(tier allowlist.Tier) (*bbolt.Bucket, error) {
	if !tier.HasList() {
		return nil, fmt.Errorf("%w: %s", allowlist.ErrNoList, tier)
	}
	return t.tx.Bucket(listBucket(tier)), nil
}

// listLen derives the length from the last key.
func listLen(b *bbolt.Bucket) int {
	k, _ := b.Cursor().Last()
	if k == nil {
		return 0
	}
	return int(binary.BigEndian.Uint32(k)) + 1
}

func (t *boltTx) List(tier allowlist.Tier) (allowlist.List, error) {
	b, err := t.list(tier)
	if err != nil {
		return nil, err
	}
	l := make(allowlist.List, 0, listLen(b))
	err = b.ForEach(func(_, v []byte) error {
		l = append(l, account.ID(v))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("boltstore: read list %s: %w", tier, err)
	}
	return l, nil
}

func (t *boltTx) AppendList(tier allowlist.Tier, ids ...account.ID) error {
	if err := t.writable(); err != nil {
		return err
	}
	b, err := t.list(tier)
	if err != nil {
		return err
	}
	n := listLen(b)
	for i, id := range ids {
		if err := b.Put(indexKey(n+i), []byte(id)); err != nil {
			return fmt.Errorf("boltstore: append %s: %w", tier, err)
		}
	}
	return nil
}

func (t *boltTx) RemoveAt(tier allowlist.Tier, i int) (account.ID, error) {
	if err := t.writable(); err != nil {
		return "", err
	}
	b, err := t.list(tier)
	if err != nil {
		return "", err
	}
	n := listLen(b)
	if i < 0 || i >= n {
		return "", fmt.Errorf("%w: %d of %d", allowlist.ErrIndexOutOfRange, i, n)
	}
	removed := account.ID(b.Get(indexKey(i)))
	last := indexKey(n - 1)
	if i != n-1 {
		moved := bytes.Clone(b.Get(last))
		if err := b.Put(indexKey(i), moved); err != nil {
			return "", fmt.Errorf("boltstore: swap %s[%d]: %w", tier, i, err)
		}
	}
	if err := b.Delete(last); err != nil {
		return "", fmt.Errorf("boltstore: truncate %s: %w", tier, err)
	}
	return removed, nil
}

func (t *boltTx) Minted() (uint64, error) {
	v := t.tx.Bucket(bucketMeta).Get(keyMinted)
	if v == nil {
		return 0, nil
	}
	if len(v) != 8 {
		return 0, errors.New("boltstore: corrupt minted counter")
	}
	return binary.BigEndian.Uint64(v), nil
}

func (t *boltTx) Token(id token.ID) (*token.Token, error) {
	data := t.tx.Bucket(bucketTokens).Get(tokenKey(id))
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, id)
	}
	var tok token.Token
	if err := decodeGob(data, &tok); err != nil {
		return nil, fmt.Errorf("boltstore: decode token: %w", err)
	}
	return &tok, nil
}

func (t *boltTx) TokenExists(id token.ID) (bool, error) {
	return t.tx.Bucket(bucketTokens).Get(tokenKey(id)) != nil, nil
}

func (t *boltTx) InsertToken(tok *token.Token) (*token.Token, error) {
	if err := t.writable(); err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, fmt.Errorf("%w: token", ErrNilParam)
	}

	var prev *token.Token
	if exists, _ := t.TokenExists(tok.ID); exists {
		p, err := t.Token(tok.ID)
		if err != nil {
			return nil, err
		}
		prev = p
	}

	data, err := encodeGob(tok)
	if err != nil {
		return nil, fmt.Errorf("encode token: %w", err)
	}
	if err := t.tx.Bucket(bucketTokens).Put(tokenKey(tok.ID), data); err != nil {
		return nil, fmt.Errorf("boltstore: put token: %w", err)
	}
	if prev != nil {
		return prev, nil
	}

	minted, err := t.Minted()
	if err != nil {
		return nil, err
	}
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, minted+1)
	if err := t.tx.Bucket(bucketMeta).Put(keyMinted, v); err != nil {
		return nil, fmt.Errorf("boltstore: put minted counter: %w", err)
	}
	return nil, nil
}

func (t *boltTx) Metadata(id token.ID) (*token.Metadata, error) {
	data := t.tx.Bucket(bucketMetadata).Get(tokenKey(id))
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrMetadataNotFound, id)
	}
	var md token.Metadata
	if err := decodeGob(data, &md); err != nil {
		return nil, fmt.Errorf("boltstore: decode metadata: %w", err)
	}
	return &md, nil
}

func (t *boltTx) InsertMetadata(id token.ID, md *token.Metadata) error {
	if err := t.writable(); err != nil {
		return err
	}
	if md == nil {
		return fmt.Errorf("%w: metadata", ErrNilParam)
	}
	data, err := encodeGob(md)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := t.tx.Bucket(bucketMetadata).Put(tokenKey(id), data); err != nil {
		return fmt.Errorf("boltstore: put metadata: %w", err)
	}
	return nil
}

func (t *boltTx) AddToOwner(owner account.ID, id token.ID) error {
	if err := t.writable(); err != nil {
		return err
	}
	// Composite key: owner || 0x00 || id for prefix scanning.
	key := append(ownerPrefix(owner), tokenKey(id)...)
	if err := t.tx.Bucket(bucketOwners).Put(key, []byte{}); err != nil {
		return fmt.Errorf("boltstore: put owner index: %w", err)
	}
	return nil
}

func (t *boltTx) SupplyForOwner(owner account.ID) (uint64, error) {
	var n uint64
	prefix := ownerPrefix(owner)
	c := t.tx.Bucket(bucketOwners).Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		n++
	}
	return n, nil
}

func (t *boltTx) TokensForOwner(owner account.ID) ([]token.ID, error) {
	var ids []token.ID
	prefix := ownerPrefix(owner)
	c := t.tx.Bucket(bucketOwners).Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		if len(k) != len(prefix)+8 {
			continue
		}
		ids = append(ids, token.ID(binary.BigEndian.Uint64(k[len(prefix):])))
	}
	return ids, nil
}
