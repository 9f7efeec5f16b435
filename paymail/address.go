// Package paymail resolves settlement destinations given as paymail
// handles (alias@domain) into locking scripts.
//
// The host is located through the _bsvalias._tcp SRV record, capabilities
// are read from .well-known/bsvalias, and the output script comes from the
// P2P payment destination capability or, failing that, the basic payment
// destination capability.
package paymail

import (
	"fmt"
	"strings"
)

// Address is a parsed paymail handle.
type Address struct {
	Alias  string
	Domain string
}

// String returns alias@domain.
func (a Address) String() string {
	return a.Alias + "@" + a.Domain
}

// IsPaymail reports whether s looks like a paymail handle rather than a
// base58 address.
func IsPaymail(s string) bool {
	return strings.Contains(s, "@")
}

// ParseAddress splits and normalises alias@domain. Both parts are
// lowercased.
func ParseAddress(s string) (Address, error) {
	alias, domain, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok || alias == "" || domain == "" {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	if strings.ContainsAny(alias, " /?#") || strings.ContainsAny(domain, " /?#@:") || !strings.Contains(domain, ".") {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return Address{
		Alias:  strings.ToLower(alias),
		Domain: strings.ToLower(strings.TrimSuffix(domain, ".")),
	}, nil
}
