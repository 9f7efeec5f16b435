package admission

import "errors"

var (
	// ErrTooEarly indicates a call before the first window opens.
	ErrTooEarly = errors.New("admission: sale has not started")

	// ErrNotEligibleTier1 indicates the caller has no usable TierA slot.
	ErrNotEligibleTier1 = errors.New("admission: not eligible for tier 1")

	// ErrNotEligibleTier2 indicates the caller has no usable TierB slot.
	ErrNotEligibleTier2 = errors.New("admission: not eligible for tier 2")

	// ErrNotEligibleTier3 indicates the caller has no usable TierC or TierD slot.
	ErrNotEligibleTier3 = errors.New("admission: not eligible for tier 3")

	// ErrQuotaExceeded indicates the caller reached the public cap.
	ErrQuotaExceeded = errors.New("admission: public quota exceeded")

	// ErrInvalidPayment indicates an amount that is neither zero nor the price.
	ErrInvalidPayment = errors.New("admission: invalid payment amount")
)
