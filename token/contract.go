package token

import "fmt"

// SpecVersion is the metadata standard version reported by contract metadata.
const SpecVersion = "nft-1.0.0"

// ContractMetadata describes the collection as a whole.
type ContractMetadata struct {
	Spec          string `yaml:"spec" json:"spec"`
	Name          string `yaml:"name" json:"name"`
	Symbol        string `yaml:"symbol" json:"symbol"`
	Icon          string `yaml:"icon" json:"icon,omitempty"`
	BaseURI       string `yaml:"base_uri" json:"base_uri,omitempty"`
	Reference     string `yaml:"reference" json:"reference,omitempty"`
	ReferenceHash string `yaml:"reference_hash" json:"reference_hash,omitempty"`
}

// Validate requires spec, name and symbol.
func (m ContractMetadata) Validate() error {
	switch {
	case m.Spec == "":
		return fmt.Errorf("%w: spec", ErrInvalidContractMetadata)
	case m.Name == "":
		return fmt.Errorf("%w: name", ErrInvalidContractMetadata)
	case m.Symbol == "":
		return fmt.Errorf("%w: symbol", ErrInvalidContractMetadata)
	}
	return nil
}
