package network

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Compile-time interface check.
var _ Node = (*RPCClient)(nil)

// btcToSat converts a coin amount as reported by the node to satoshis.
func btcToSat(btc float64) uint64 {
	return uint64(math.Round(btc * 1e8))
}

type listUnspentResult struct {
	TxID          string  `json:"txid"`
	Vout          uint32  `json:"vout"`
	Amount        float64 `json:"amount"`
	ScriptPubKey  string  `json:"scriptPubKey"`
	Address       string  `json:"address"`
	Confirmations int64   `json:"confirmations"`
}

// ListUnspent calls `listunspent 0 9999999 ["address"]`.
func (c *RPCClient) ListUnspent(ctx context.Context, address string) ([]*UTXO, error) {
	var results []listUnspentResult
	if err := c.Call(ctx, "listunspent", []interface{}{0, 9999999, []string{address}}, &results); err != nil {
		return nil, err
	}

	utxos := make([]*UTXO, len(results))
	for i, r := range results {
		utxos[i] = &UTXO{
			TxID:          r.TxID,
			Vout:          r.Vout,
			Amount:        btcToSat(r.Amount),
			ScriptPubKey:  r.ScriptPubKey,
			Address:       r.Address,
			Confirmations: r.Confirmations,
		}
	}
	return utxos, nil
}

// BroadcastTx calls `sendrawtransaction "hex"`. Node rejections wrap
// ErrBroadcastRejected and keep the *RPCError in the chain.
func (c *RPCClient) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	var txid string
	if err := c.Call(ctx, "sendrawtransaction", []interface{}{rawTxHex}, &txid); err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return "", fmt.Errorf("%w: %w", ErrBroadcastRejected, rpcErr)
		}
		return "", err
	}
	return txid, nil
}

// ImportAddress calls `importaddress "address" "" false`. No rescan is
// requested: the treasury address is imported before it is funded.
func (c *RPCClient) ImportAddress(ctx context.Context, address string) error {
	return c.Call(ctx, "importaddress", []interface{}{address, "", false}, nil)
}
