package tx

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"
)

// BuildP2PKHScript creates a P2PKH locking script for pubKey.
func BuildP2PKHScript(pubKey *ec.PublicKey) ([]byte, error) {
	if pubKey == nil {
		return nil, fmt.Errorf("%w: public key", ErrNilParam)
	}
	addr, err := script.NewAddressFromPublicKey(pubKey, true)
	if err != nil {
		return nil, fmt.Errorf("%w: address from pubkey: %w", ErrScriptBuild, err)
	}
	return lockAddress(addr)
}

// AddressScript creates a P2PKH locking script for a base58 address.
func AddressScript(address string) ([]byte, error) {
	addr, err := script.NewAddressFromString(address)
	if err != nil {
		return nil, fmt.Errorf("%w: address %q: %w", ErrScriptBuild, address, err)
	}
	return lockAddress(addr)
}

// Address returns the base58 P2PKH address of pubKey.
func Address(pubKey *ec.PublicKey, mainnet bool) (string, error) {
	if pubKey == nil {
		return "", fmt.Errorf("%w: public key", ErrNilParam)
	}
	addr, err := script.NewAddressFromPublicKey(pubKey, mainnet)
	if err != nil {
		return "", fmt.Errorf("%w: address from pubkey: %w", ErrScriptBuild, err)
	}
	return addr.AddressString, nil
}

func lockAddress(addr *script.Address) ([]byte, error) {
	lockScript, err := p2pkh.Lock(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: P2PKH lock script: %w", ErrScriptBuild, err)
	}
	return []byte(*lockScript), nil
}
