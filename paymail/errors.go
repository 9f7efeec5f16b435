package paymail

import "errors"

var (
	// ErrInvalidAddress indicates the paymail handle is not alias@domain.
	ErrInvalidAddress = errors.New("paymail: invalid paymail address")

	// ErrDNSLookupFailed indicates a DNS SRV lookup failed.
	ErrDNSLookupFailed = errors.New("paymail: DNS lookup failed")

	// ErrDNSSECValidationFailed indicates the upstream resolver did not
	// authenticate the answer.
	ErrDNSSECValidationFailed = errors.New("paymail: DNSSEC validation failed")

	// ErrCapabilityDiscovery indicates .well-known/bsvalias could not be read.
	ErrCapabilityDiscovery = errors.New("paymail: capability discovery failed")

	// ErrNoCapability indicates the server advertises no payment destination.
	ErrNoCapability = errors.New("paymail: no payment destination capability")

	// ErrAddressResolution indicates the payment destination endpoint failed.
	ErrAddressResolution = errors.New("paymail: address resolution failed")

	// ErrUnavailable marks failures that may succeed on retry: connection
	// errors and 5xx responses.
	ErrUnavailable = errors.New("paymail: server unavailable")
)
