package mint

import (
	"errors"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/admission"
	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/royalty"
	"github.com/bitfsorg/libmint-go/store"
	"github.com/bitfsorg/libmint-go/token"
)

var (
	// ErrMintingClosed indicates the global supply cap is reached.
	ErrMintingClosed = errors.New("mint: minting closed")

	// ErrUnauthorized indicates a privileged call from someone other than the owner.
	ErrUnauthorized = errors.New("mint: unauthorized")

	// ErrInvalidConfig indicates the engine configuration is unusable.
	ErrInvalidConfig = errors.New("mint: invalid config")

	// ErrNilParam indicates a required collaborator is nil.
	ErrNilParam = errors.New("mint: required parameter is nil")
)

// Error codes returned by Code. The first seven are the call taxonomy;
// the rest classify input and infrastructure failures.
const (
	CodeTooEarly         = "TooEarly"
	CodeNotEligibleTier1 = "NotEligibleTier1"
	CodeNotEligibleTier2 = "NotEligibleTier2"
	CodeNotEligibleTier3 = "NotEligibleTier3"
	CodeQuotaExceeded    = "QuotaExceeded"
	CodeInvalidPayment   = "InvalidPayment"
	CodeMintingClosed    = "MintingClosed"
	CodeUnauthorized     = "Unauthorized"
	CodeDuplicateToken   = "DuplicateToken"
	CodeNotFound         = "NotFound"
	CodeInvalidAccount   = "InvalidAccount"
	CodeInvalidTier      = "InvalidTier"
	CodePayoutTooLong    = "PayoutTooLong"
	CodeInternal         = "Internal"
)

var codeTable = []struct {
	err  error
	code string
}{
	{admission.ErrTooEarly, CodeTooEarly},
	{admission.ErrNotEligibleTier1, CodeNotEligibleTier1},
	{admission.ErrNotEligibleTier2, CodeNotEligibleTier2},
	{admission.ErrNotEligibleTier3, CodeNotEligibleTier3},
	{admission.ErrQuotaExceeded, CodeQuotaExceeded},
	{admission.ErrInvalidPayment, CodeInvalidPayment},
	{ErrMintingClosed, CodeMintingClosed},
	{ErrUnauthorized, CodeUnauthorized},
	{store.ErrDuplicateToken, CodeDuplicateToken},
	{store.ErrTokenNotFound, CodeNotFound},
	{store.ErrMetadataNotFound, CodeNotFound},
	{token.ErrInvalidID, CodeNotFound},
	{account.ErrEmptyID, CodeInvalidAccount},
	{account.ErrInvalidLength, CodeInvalidAccount},
	{account.ErrInvalidSyntax, CodeInvalidAccount},
	{allowlist.ErrUnknownTier, CodeInvalidTier},
	{allowlist.ErrNoList, CodeInvalidTier},
	{royalty.ErrTooManyEntries, CodePayoutTooLong},
}

// Code returns the taxonomy name of err, CodeInternal for anything
// unclassified, or "" for nil.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codeTable {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// IsDenial reports whether err is an ordinary refusal of the call rather
// than an invariant or infrastructure failure.
func IsDenial(err error) bool {
	switch Code(err) {
	case "", CodeInternal, CodeDuplicateToken:
		return false
	}
	return true
}
