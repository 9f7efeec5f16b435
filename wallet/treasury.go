package wallet

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/bitfsorg/libmint-go/tx"
)

const (
	// BIP44 path constants.
	PurposeBIP44    = 44
	CoinTypeBSV     = 236
	TreasuryAccount = 0
	ExternalChain   = 0

	// MaxKeyIndex is the largest non-hardened child index.
	MaxKeyIndex = 1<<31 - 1

	// Hardened is the BIP32 hardened offset.
	Hardened = 0x80000000
)

// Wallet derives treasury keys from a BIP39 seed.
type Wallet struct {
	masterKey *bip32.ExtendedKey
	network   *NetworkConfig
}

// KeyPair holds a derived key pair and its derivation path.
type KeyPair struct {
	PrivateKey *ec.PrivateKey `json:"-"`
	PublicKey  *ec.PublicKey  `json:"public_key"`
	Path       string         `json:"path"`
}

// NewWallet creates a Wallet from seed. A nil network means mainnet.
func NewWallet(seed []byte, network *NetworkConfig) (*Wallet, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	if network == nil {
		network = &MainNet
	}
	masterKey, err := bip32.NewMaster(seed, network.params())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &Wallet{masterKey: masterKey, network: network}, nil
}

// Network returns the wallet's network configuration.
func (w *Wallet) Network() *NetworkConfig {
	return w.network
}

// TreasuryKey derives m/44'/236'/0'/0/index.
func (w *Wallet) TreasuryKey(index uint32) (*KeyPair, error) {
	if index > MaxKeyIndex {
		return nil, fmt.Errorf("%w: index %d is hardened", ErrDerivationFailed, index)
	}

	key := w.masterKey
	for depth, child := range []uint32{
		PurposeBIP44 + Hardened,
		CoinTypeBSV + Hardened,
		TreasuryAccount + Hardened,
		ExternalChain,
		index,
	} {
		next, err := key.Child(child)
		if err != nil {
			return nil, fmt.Errorf("%w: depth %d: %w", ErrDerivationFailed, depth, err)
		}
		key = next
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to extract EC private key: %w", ErrDerivationFailed, err)
	}
	return &KeyPair{
		PrivateKey: priv,
		PublicKey:  priv.PubKey(),
		Path:       fmt.Sprintf("m/%d'/%d'/%d'/%d/%d", PurposeBIP44, CoinTypeBSV, TreasuryAccount, ExternalChain, index),
	}, nil
}

// Address returns the P2PKH address of the key pair on the wallet's network.
func (w *Wallet) Address(kp *KeyPair) (string, error) {
	return tx.Address(kp.PublicKey, w.network.IsMainnet())
}
