package network

import "context"

// Node is the part of a BSV node the settlement transferer needs.
type Node interface {
	// ListUnspent returns the unspent outputs paying address.
	ListUnspent(ctx context.Context, address string) ([]*UTXO, error)

	// BroadcastTx submits a raw transaction hex and returns its txid.
	BroadcastTx(ctx context.Context, rawTxHex string) (string, error)

	// ImportAddress adds a watch-only address so ListUnspent can see it.
	ImportAddress(ctx context.Context, address string) error
}

// UTXO is an unspent transaction output.
type UTXO struct {
	TxID          string `json:"txid"`
	Vout          uint32 `json:"vout"`
	Amount        uint64 `json:"amount"`
	ScriptPubKey  string `json:"script_pubkey"`
	Address       string `json:"address"`
	Confirmations int64  `json:"confirmations"`
}
