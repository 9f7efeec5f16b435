package token

import (
	"fmt"
	"strings"
)

// Metadata is the per-token metadata record. Only the fields derived from
// the identifier and IssuedAt are set at mint time.
type Metadata struct {
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
	Media         string `json:"media,omitempty"`
	MediaHash     string `json:"media_hash,omitempty"`
	Copies        uint64 `json:"copies,omitempty"`
	IssuedAt      uint64 `json:"issued_at,omitempty"`
	ExpiresAt     uint64 `json:"expires_at,omitempty"`
	StartsAt      uint64 `json:"starts_at,omitempty"`
	UpdatedAt     uint64 `json:"updated_at,omitempty"`
	Extra         string `json:"extra,omitempty"`
	Reference     string `json:"reference,omitempty"`
	ReferenceHash string `json:"reference_hash,omitempty"`
}

// Template derives metadata from a token id.
//
//	title     = TitlePrefix + id
//	media     = MediaBase + "/" + id + MediaExt
//	reference = ReferenceBase + "/" + id + ReferenceExt
type Template struct {
	TitlePrefix   string `yaml:"title_prefix"`
	Description   string `yaml:"description"`
	MediaBase     string `yaml:"media_base"`
	MediaExt      string `yaml:"media_ext"`
	ReferenceBase string `yaml:"reference_base"`
	ReferenceExt  string `yaml:"reference_ext"`
}

// Validate requires a title prefix and both URI bases.
func (t Template) Validate() error {
	switch {
	case t.TitlePrefix == "":
		return fmt.Errorf("%w: title prefix", ErrInvalidTemplate)
	case t.MediaBase == "":
		return fmt.Errorf("%w: media base", ErrInvalidTemplate)
	case t.ReferenceBase == "":
		return fmt.Errorf("%w: reference base", ErrInvalidTemplate)
	}
	return nil
}

// Build returns the metadata for id issued at ledger time issuedAt.
func (t Template) Build(id ID, issuedAt uint64) *Metadata {
	s := id.String()
	return &Metadata{
		Title:       t.TitlePrefix + s,
		Description: t.Description,
		Media:       joinURI(t.MediaBase, s+t.MediaExt),
		IssuedAt:    issuedAt,
		Reference:   joinURI(t.ReferenceBase, s+t.ReferenceExt),
	}
}

func joinURI(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + name
}
