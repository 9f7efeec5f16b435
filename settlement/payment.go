// Package settlement forwards a fixed share of each paid mint to a third
// party. Delivery is best effort: payments are queued without blocking the
// caller, transferred by a bounded pool of workers and retried with
// jittered backoff while the failure looks temporary.
package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/network"
	"github.com/bitfsorg/libmint-go/paymail"
	"github.com/bitfsorg/libmint-go/token"
)

// Payment is one settlement transfer.
type Payment struct {
	ID          uuid.UUID
	TokenID     token.ID
	Payer       account.ID
	Amount      uint64
	Destination string // base58 address or paymail; empty uses the dispatcher default
	CreatedAt   time.Time
}

// NewPayment returns a Payment with a fresh id.
func NewPayment(id token.ID, payer account.ID, amount uint64) Payment {
	return Payment{
		ID:        uuid.New(),
		TokenID:   id,
		Payer:     payer,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}

// Transferer moves a payment on chain and returns the transaction id.
type Transferer interface {
	Transfer(ctx context.Context, p Payment) (string, error)
}

// TransfererFunc adapts a function to Transferer.
type TransfererFunc func(ctx context.Context, p Payment) (string, error)

// Transfer calls f.
func (f TransfererFunc) Transfer(ctx context.Context, p Payment) (string, error) {
	return f(ctx, p)
}

// Retryable is the default retry test: node transport failures, node
// errors marked temporary and unavailable paymail servers.
func Retryable(err error) bool {
	return network.Temporary(err) || errors.Is(err, paymail.ErrUnavailable)
}
