package wallet

import (
	"fmt"

	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"
)

// NetworkConfig names a BSV network and the parameters the treasury needs
// from it.
type NetworkConfig struct {
	Name           string `json:"name" yaml:"name"`
	AddressVersion byte   `json:"address_version" yaml:"address_version"`
	RPCPort        uint16 `json:"rpc_port" yaml:"rpc_port"`
}

// Predefined network configurations.
var (
	MainNet = NetworkConfig{Name: "mainnet", AddressVersion: 0x00, RPCPort: 8332}
	TestNet = NetworkConfig{Name: "testnet", AddressVersion: 0x6f, RPCPort: 18332}
	RegTest = NetworkConfig{Name: "regtest", AddressVersion: 0x6f, RPCPort: 18443}
)

var predefined = map[string]*NetworkConfig{
	"mainnet": &MainNet,
	"testnet": &TestNet,
	"regtest": &RegTest,
}

// GetNetwork returns a predefined network by name.
func GetNetwork(name string) (*NetworkConfig, error) {
	if net, ok := predefined[name]; ok {
		return net, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidNetwork, name)
}

// IsMainnet reports whether addresses use the mainnet version byte.
func (n *NetworkConfig) IsMainnet() bool {
	return n.AddressVersion == MainNet.AddressVersion
}

func (n *NetworkConfig) params() *chaincfg.Params {
	if n.IsMainnet() {
		return &chaincfg.MainNet
	}
	return &chaincfg.TestNet
}
