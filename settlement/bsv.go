package settlement

import (
	"context"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/bitfsorg/libmint-go/network"
	"github.com/bitfsorg/libmint-go/paymail"
	"github.com/bitfsorg/libmint-go/tx"
)

// ScriptResolver resolves a paymail handle to a locking script.
type ScriptResolver interface {
	OutputScript(ctx context.Context, handle string, satoshis uint64) ([]byte, error)
}

// BSVTransferer pays settlements from a treasury key through a node.
type BSVTransferer struct {
	node     network.Node
	key      *ec.PrivateKey
	source   string
	resolver ScriptResolver
	feeRate  uint64
}

// NewBSVTransferer returns a transferer spending the coins of source, the
// P2PKH address of key. A nil resolver disables paymail destinations.
func NewBSVTransferer(node network.Node, key *ec.PrivateKey, source string, resolver ScriptResolver, feeRate uint64) (*BSVTransferer, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: node", ErrNilParam)
	}
	if key == nil {
		return nil, fmt.Errorf("%w: key", ErrNilParam)
	}
	if source == "" {
		return nil, fmt.Errorf("%w: source address", ErrNilParam)
	}
	return &BSVTransferer{node: node, key: key, source: source, resolver: resolver, feeRate: feeRate}, nil
}

// Transfer builds, signs and broadcasts the payment.
func (t *BSVTransferer) Transfer(ctx context.Context, p Payment) (string, error) {
	if err := validate(p); err != nil {
		return "", err
	}
	to, err := t.destinationScript(ctx, p)
	if err != nil {
		return "", err
	}

	utxos, err := t.node.ListUnspent(ctx, t.source)
	if err != nil {
		return "", fmt.Errorf("settlement: list unspent: %w", err)
	}
	coins := make([]*tx.UTXO, 0, len(utxos))
	for _, u := range utxos {
		lock, err := tx.ScriptFromHex(u.ScriptPubKey)
		if err != nil {
			return "", err
		}
		coins = append(coins, &tx.UTXO{TxID: u.TxID, Vout: u.Vout, Amount: u.Amount, ScriptPubKey: lock})
	}

	payment, err := tx.BuildPayment(tx.PaymentParams{
		Coins:   coins,
		Key:     t.key,
		To:      to,
		Amount:  p.Amount,
		FeeRate: t.feeRate,
	})
	if err != nil {
		return "", fmt.Errorf("settlement: build payment: %w", err)
	}

	txid, err := t.node.BroadcastTx(ctx, payment.RawHex)
	if err != nil {
		return "", fmt.Errorf("settlement: broadcast: %w", err)
	}
	return txid, nil
}

func (t *BSVTransferer) destinationScript(ctx context.Context, p Payment) ([]byte, error) {
	if !paymail.IsPaymail(p.Destination) {
		return tx.AddressScript(p.Destination)
	}
	if t.resolver == nil {
		return nil, fmt.Errorf("%w: paymail %s with no resolver", ErrNoDestination, p.Destination)
	}
	to, err := t.resolver.OutputScript(ctx, p.Destination, p.Amount)
	if err != nil {
		return nil, fmt.Errorf("settlement: resolve %s: %w", p.Destination, err)
	}
	return to, nil
}
