package network

import (
	"fmt"
	"time"
)

// Environment variables read by ResolveConfig.
const (
	EnvRPCURL  = "MINT_RPC_URL"
	EnvRPCUser = "MINT_RPC_USER"
	EnvRPCPass = "MINT_RPC_PASS"
)

// RPCConfig holds the connection parameters for a node's JSON-RPC interface.
type RPCConfig struct {
	URL      string        `json:"url"`
	User     string        `json:"user"`
	Password string        `json:"password"`
	Network  string        `json:"network"`
	Timeout  time.Duration `json:"timeout"`
}

// NetworkPresets holds local defaults for test networks. Mainnet has none.
var NetworkPresets = map[string]RPCConfig{
	"regtest": {URL: "http://localhost:18332", User: "mint", Password: "mint"},
	"testnet": {URL: "http://localhost:18332", User: "mint", Password: "mint"},
}

// ResolveConfig layers, lowest priority first: the network preset, the
// MINT_RPC_* environment values, then flags.
func ResolveConfig(flags *RPCConfig, env map[string]string, network string) (*RPCConfig, error) {
	result := RPCConfig{Network: network}
	if preset, ok := NetworkPresets[network]; ok {
		result = preset
		result.Network = network
	}

	for key, dst := range map[string]*string{
		EnvRPCURL:  &result.URL,
		EnvRPCUser: &result.User,
		EnvRPCPass: &result.Password,
	} {
		if v := env[key]; v != "" {
			*dst = v
		}
	}

	if flags != nil {
		if flags.URL != "" {
			result.URL = flags.URL
		}
		if flags.User != "" {
			result.User = flags.User
		}
		if flags.Password != "" {
			result.Password = flags.Password
		}
		if flags.Timeout > 0 {
			result.Timeout = flags.Timeout
		}
	}

	if result.URL == "" {
		return nil, fmt.Errorf("%w: %s (set --rpc-url or %s)", ErrNoRPCURL, network, EnvRPCURL)
	}
	return &result, nil
}
