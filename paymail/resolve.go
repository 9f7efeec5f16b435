package paymail

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Capability identifiers (BRFC ids) read from .well-known/bsvalias.
const (
	CapPaymentDestination    = "paymentDestination"
	CapPaymentDestinationID  = "759684b1a19a"
	CapP2PPaymentDestination = "2a40af698840"
)

// MaxResponseSize bounds every paymail response body.
const MaxResponseSize = 1 << 20

const defaultTimeout = 30 * time.Second

// Capabilities are the endpoint templates a paymail server advertises.
type Capabilities struct {
	BSVAlias              string
	PaymentDestination    string
	P2PPaymentDestination string
}

type wellKnown struct {
	BSVAlias     string         `json:"bsvalias"`
	Capabilities map[string]any `json:"capabilities"`
}

type p2pRequest struct {
	Satoshis uint64 `json:"satoshis"`
}

type p2pResponse struct {
	Outputs []struct {
		Script   string `json:"script"`
		Satoshis uint64 `json:"satoshis"`
	} `json:"outputs"`
	Reference string `json:"reference"`
}

type basicRequest struct {
	SenderName string `json:"senderName"`
	DT         string `json:"dt"`
	Amount     uint64 `json:"amount"`
	Purpose    string `json:"purpose"`
}

type basicResponse struct {
	Output string `json:"output"`
}

// Resolver turns paymail handles into locking scripts.
type Resolver struct {
	client *http.Client
	dns    DNSResolver
	scheme string
	sender string
	now    func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) { r.client = c }
}

// WithDNSResolver sets the SRV resolver, e.g. a DNSSECResolver.
func WithDNSResolver(d DNSResolver) Option {
	return func(r *Resolver) { r.dns = d }
}

// WithScheme overrides the https scheme used to reach .well-known/bsvalias.
func WithScheme(scheme string) Option {
	return func(r *Resolver) { r.scheme = scheme }
}

// WithSenderName sets the sender name sent to basic payment destinations.
func WithSenderName(name string) Option {
	return func(r *Resolver) { r.sender = name }
}

// NewResolver returns a Resolver with a 30 second HTTP timeout and the
// system DNS resolver unless overridden.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		client: &http.Client{Timeout: defaultTimeout},
		dns:    DefaultDNSResolver,
		scheme: "https",
		sender: "mint",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Capabilities fetches the capability document for domain.
func (r *Resolver) Capabilities(ctx context.Context, domain string) (*Capabilities, error) {
	host, err := ServiceHost(domain, r.dns)
	if err != nil {
		return nil, err
	}
	endpoint := r.scheme + "://" + host + "/.well-known/bsvalias"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapabilityDiscovery, err)
	}
	body, err := r.do(req, ErrCapabilityDiscovery)
	if err != nil {
		return nil, err
	}

	var wk wellKnown
	if err := json.Unmarshal(body, &wk); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrCapabilityDiscovery, endpoint, err)
	}

	caps := &Capabilities{BSVAlias: wk.BSVAlias}
	for key, val := range wk.Capabilities {
		s, ok := val.(string)
		if !ok {
			continue
		}
		switch key {
		case CapPaymentDestination, CapPaymentDestinationID:
			caps.PaymentDestination = s
		case CapP2PPaymentDestination:
			caps.P2PPaymentDestination = s
		}
	}
	return caps, nil
}

// OutputScript resolves handle to a single locking script able to receive
// satoshis. P2P destinations that split the amount across several outputs
// are rejected.
func (r *Resolver) OutputScript(ctx context.Context, handle string, satoshis uint64) ([]byte, error) {
	addr, err := ParseAddress(handle)
	if err != nil {
		return nil, err
	}
	caps, err := r.Capabilities(ctx, addr.Domain)
	if err != nil {
		return nil, err
	}

	switch {
	case caps.P2PPaymentDestination != "":
		return r.p2pScript(ctx, expand(caps.P2PPaymentDestination, addr), satoshis)
	case caps.PaymentDestination != "":
		return r.basicScript(ctx, expand(caps.PaymentDestination, addr), satoshis)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoCapability, addr.Domain)
	}
}

func (r *Resolver) p2pScript(ctx context.Context, endpoint string, satoshis uint64) ([]byte, error) {
	var resp p2pResponse
	if err := r.postJSON(ctx, endpoint, p2pRequest{Satoshis: satoshis}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Outputs) != 1 {
		return nil, fmt.Errorf("%w: expected one output, got %d", ErrAddressResolution, len(resp.Outputs))
	}
	return decodeScript(resp.Outputs[0].Script)
}

func (r *Resolver) basicScript(ctx context.Context, endpoint string, satoshis uint64) ([]byte, error) {
	var resp basicResponse
	req := basicRequest{
		SenderName: r.sender,
		DT:         r.now().UTC().Format(time.RFC3339),
		Amount:     satoshis,
		Purpose:    "mint settlement",
	}
	if err := r.postJSON(ctx, endpoint, req, &resp); err != nil {
		return nil, err
	}
	return decodeScript(resp.Output)
}

func (r *Resolver) postJSON(ctx context.Context, endpoint string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAddressResolution, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAddressResolution, err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := r.do(req, ErrAddressResolution)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: parsing response: %w", ErrAddressResolution, err)
	}
	return nil
}

func (r *Resolver) do(req *http.Request, base error) ([]byte, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s %s: %w", base, ErrUnavailable, req.Method, req.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: %w: %s %s returned status %d", base, ErrUnavailable, req.Method, req.URL, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %s %s returned status %d", base, req.Method, req.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", base, err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", base, MaxResponseSize)
	}
	return body, nil
}

// expand fills the {alias} and {domain.tld} template variables.
func expand(template string, addr Address) string {
	out := strings.ReplaceAll(template, "{alias}", url.PathEscape(addr.Alias))
	return strings.ReplaceAll(out, "{domain.tld}", url.PathEscape(addr.Domain))
}

func decodeScript(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty output script", ErrAddressResolution)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: output script hex: %w", ErrAddressResolution, err)
	}
	return b, nil
}
