package paymail

import (
	"fmt"
	"net"
	"sort"
	"strings"
)

// DNSResolver looks up SRV records.
type DNSResolver interface {
	LookupSRV(service, proto, name string) (string, []*net.SRV, error)
}

type systemResolver struct{}

func (systemResolver) LookupSRV(service, proto, name string) (string, []*net.SRV, error) {
	return net.LookupSRV(service, proto, name)
}

// DefaultDNSResolver uses the system resolver.
var DefaultDNSResolver DNSResolver = systemResolver{}

// SRVService is the paymail SRV service label: _bsvalias._tcp.{domain}.
const SRVService = "bsvalias"

// ServiceHost returns the host:port serving paymail for domain. Records
// are ordered by priority then weight. Without a usable record the domain
// itself on port 443 is used.
func ServiceHost(domain string, resolver DNSResolver) (string, error) {
	if domain == "" {
		return "", fmt.Errorf("%w: empty domain", ErrDNSLookupFailed)
	}
	if resolver == nil {
		resolver = DefaultDNSResolver
	}

	_, addrs, err := resolver.LookupSRV(SRVService, "tcp", domain)
	if err != nil || len(addrs) == 0 {
		return net.JoinHostPort(domain, "443"), nil
	}

	sort.SliceStable(addrs, func(i, j int) bool {
		if addrs[i].Priority != addrs[j].Priority {
			return addrs[i].Priority < addrs[j].Priority
		}
		return addrs[i].Weight > addrs[j].Weight
	})
	srv := addrs[0]
	return net.JoinHostPort(strings.TrimSuffix(srv.Target, "."), fmt.Sprint(srv.Port)), nil
}
