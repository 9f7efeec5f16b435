package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrInsufficientFunds indicates the inputs cannot cover amount and fee.
	ErrInsufficientFunds = errors.New("tx: insufficient funds")

	// ErrDustOutput indicates a payment below the dust limit.
	ErrDustOutput = errors.New("tx: output below dust limit")

	// ErrSigningFailed indicates transaction signing failed.
	ErrSigningFailed = errors.New("tx: signing failed")

	// ErrScriptBuild indicates script construction failed.
	ErrScriptBuild = errors.New("tx: script build failed")

	// ErrInvalidUTXO indicates an input with a malformed txid or script.
	ErrInvalidUTXO = errors.New("tx: invalid utxo")
)
