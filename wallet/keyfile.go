package wallet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// KeyFileName is the default key file name inside the data directory.
const KeyFileName = "treasury.enc"

// WriteKeyFile encrypts seed under password and writes it to path with
// owner-only permissions. It refuses to overwrite an existing file.
func WriteKeyFile(path string, seed []byte, password string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrKeyFileExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("wallet: stat key file: %w", err)
	}

	enc, err := EncryptSeed(seed, password)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("wallet: create key dir: %w", err)
	}
	if err := os.WriteFile(path, enc, 0o600); err != nil {
		return fmt.Errorf("wallet: write key file: %w", err)
	}
	return nil
}

// OpenKeyFile decrypts the key file at path and returns its wallet.
func OpenKeyFile(path, password string, network *NetworkConfig) (*Wallet, error) {
	enc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wallet: read key file: %w", err)
	}
	seed, err := DecryptSeed(enc, password)
	if err != nil {
		return nil, err
	}
	return NewWallet(seed, network)
}
