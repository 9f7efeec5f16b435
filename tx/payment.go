// Package tx builds and signs the settlement payment transaction.
package tx

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"
)

// UTXO is a spendable output owned by the signing key.
type UTXO struct {
	TxID         string // display (big-endian) hex
	Vout         uint32
	Amount       uint64
	ScriptPubKey []byte
}

// PaymentParams describes one payment.
type PaymentParams struct {
	Coins   []*UTXO
	Key     *ec.PrivateKey
	To      []byte // locking script of the recipient
	Amount  uint64
	FeeRate uint64 // sat/KB; zero uses DefaultFeeRate
	Change  []byte // change locking script; defaults to Key's P2PKH
}

// Payment is a signed payment transaction.
type Payment struct {
	RawHex string
	TxID   string
	Fee    uint64
	Change uint64
	Spent  []*UTXO
}

// SelectCoins picks the largest coins first until they cover amount plus
// the fee of a two-output transaction. It returns the chosen coins and the
// fee.
func SelectCoins(coins []*UTXO, amount, feeRate uint64) ([]*UTXO, uint64, error) {
	sorted := make([]*UTXO, 0, len(coins))
	for _, c := range coins {
		if c != nil && c.Amount > 0 {
			sorted = append(sorted, c)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })

	var total uint64
	for i, c := range sorted {
		total += c.Amount
		fee := EstimateFee(EstimateTxSize(i+1, 2), feeRate)
		if total >= amount+fee {
			return sorted[:i+1], fee, nil
		}
	}
	fee := EstimateFee(EstimateTxSize(len(sorted), 2), feeRate)
	return nil, 0, fmt.Errorf("%w: need %d sat, have %d sat", ErrInsufficientFunds, amount+fee, total)
}

// BuildPayment selects coins, builds the transaction paying Amount to To
// with change back to Change, and signs every input with Key. Change at or
// below the dust limit is left to the fee.
func BuildPayment(p PaymentParams) (*Payment, error) {
	if p.Key == nil {
		return nil, fmt.Errorf("%w: key", ErrNilParam)
	}
	if len(p.To) == 0 {
		return nil, fmt.Errorf("%w: recipient script", ErrNilParam)
	}
	if p.Amount < DustLimit {
		return nil, fmt.Errorf("%w: %d < %d", ErrDustOutput, p.Amount, DustLimit)
	}

	change := p.Change
	if len(change) == 0 {
		var err error
		if change, err = BuildP2PKHScript(p.Key.PubKey()); err != nil {
			return nil, err
		}
	}

	coins, fee, err := SelectCoins(p.Coins, p.Amount, p.FeeRate)
	if err != nil {
		return nil, err
	}

	unlocker, err := p2pkh.Unlock(p.Key, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: unlocker: %w", ErrSigningFailed, err)
	}

	sdkTx := transaction.NewTransaction()
	var total uint64
	for i, c := range coins {
		hash, err := txidHash(c.TxID)
		if err != nil {
			return nil, fmt.Errorf("%w: coin[%d] txid: %w", ErrInvalidUTXO, i, err)
		}
		if len(c.ScriptPubKey) == 0 {
			return nil, fmt.Errorf("%w: coin[%d] has empty script", ErrInvalidUTXO, i)
		}
		input := &transaction.TransactionInput{
			SourceTXID:              hash,
			SourceTxOutIndex:        c.Vout,
			SequenceNumber:          transaction.DefaultSequenceNumber,
			UnlockingScriptTemplate: unlocker,
		}
		input.SetSourceTxOutput(&transaction.TransactionOutput{
			Satoshis:      c.Amount,
			LockingScript: script.NewFromBytes(c.ScriptPubKey),
		})
		sdkTx.AddInput(input)
		total += c.Amount
	}

	sdkTx.AddOutput(&transaction.TransactionOutput{
		Satoshis:      p.Amount,
		LockingScript: script.NewFromBytes(p.To),
	})
	changeAmount := total - p.Amount - fee
	if changeAmount > DustLimit {
		sdkTx.AddOutput(&transaction.TransactionOutput{
			Satoshis:      changeAmount,
			LockingScript: script.NewFromBytes(change),
		})
	} else {
		fee += changeAmount
		changeAmount = 0
	}

	if err := sdkTx.Sign(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}

	return &Payment{
		RawHex: sdkTx.Hex(),
		TxID:   sdkTx.TxID().String(),
		Fee:    fee,
		Change: changeAmount,
		Spent:  coins,
	}, nil
}

// txidHash converts a display-order txid to the internal byte order.
func txidHash(txid string) (*chainhash.Hash, error) {
	b, err := hex.DecodeString(txid)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return chainhash.NewHash(b)
}

// ScriptFromHex decodes a hex locking script as reported by a node.
func ScriptFromHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: script hex: %w", ErrInvalidUTXO, err)
	}
	return b, nil
}
