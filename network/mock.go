package network

import "context"

// MockNode is a test double for Node. Unset function fields panic when called.
type MockNode struct {
	ListUnspentFn   func(ctx context.Context, address string) ([]*UTXO, error)
	BroadcastTxFn   func(ctx context.Context, rawTxHex string) (string, error)
	ImportAddressFn func(ctx context.Context, address string) error
}

// Compile-time interface check.
var _ Node = (*MockNode)(nil)

func (m *MockNode) ListUnspent(ctx context.Context, address string) ([]*UTXO, error) {
	return m.ListUnspentFn(ctx, address)
}

func (m *MockNode) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	return m.BroadcastTxFn(ctx, rawTxHex)
}

func (m *MockNode) ImportAddress(ctx context.Context, address string) error {
	return m.ImportAddressFn(ctx, address)
}
