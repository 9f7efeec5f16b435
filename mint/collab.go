package mint

import (
	"context"

	"github.com/bitfsorg/libmint-go/events"
	"github.com/bitfsorg/libmint-go/settlement"
)

// EventSink receives the mint event after the issuance commits.
type EventSink interface {
	Emit(ctx context.Context, e events.Event) error
}

// Settler accepts a settlement payment without blocking. It returns false
// when the payment was not queued.
type Settler interface {
	Submit(ctx context.Context, p settlement.Payment) bool
}
