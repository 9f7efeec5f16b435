package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("wallet: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("wallet: entropy bits must be 128 or 256")

	// ErrInvalidSeed indicates the seed is empty.
	ErrInvalidSeed = errors.New("wallet: invalid seed")

	// ErrDecryptionFailed indicates a wrong password or a corrupted key file.
	ErrDecryptionFailed = errors.New("wallet: key file decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates the seed checksum did not verify after decryption.
	ErrChecksumMismatch = errors.New("wallet: seed checksum mismatch")

	// ErrBadKeyFile indicates the key file header is not recognised.
	ErrBadKeyFile = errors.New("wallet: unrecognised key file format")

	// ErrKeyFileExists indicates WriteKeyFile would overwrite an existing file.
	ErrKeyFileExists = errors.New("wallet: key file already exists")

	// ErrInvalidNetwork indicates an unknown network name.
	ErrInvalidNetwork = errors.New("wallet: invalid network name")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("wallet: key derivation failed")
)
