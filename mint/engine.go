// Package mint is the issuance engine of a capped, phase-gated token sale.
//
// A mint call validates the attached payment, checks the global supply
// cap, runs the admission decision against the eligibility lists and the
// caller's holdings, then creates the token, its metadata and its
// ownership entry. All of it happens inside one store transaction: any
// denial or failure discards every staged write, list removals included.
// The mint event and the settlement transfer follow the commit and can
// never undo it.
package mint

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/admission"
	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/events"
	"github.com/bitfsorg/libmint-go/metrics"
	"github.com/bitfsorg/libmint-go/phase"
	"github.com/bitfsorg/libmint-go/quota"
	"github.com/bitfsorg/libmint-go/settlement"
	"github.com/bitfsorg/libmint-go/store"
	"github.com/bitfsorg/libmint-go/token"
)

const tracerName = "github.com/bitfsorg/libmint-go/mint"

// Engine runs mint calls, privileged setup calls and reads against a store.
//
// Mint calls are serialized by the store's single-writer Update, so the
// admission check and the slot consumption it decides on are never split
// across concurrent callers.
type Engine struct {
	cfg     Config
	store   store.Store
	clock   phase.Clock
	sink    EventSink
	settler Settler
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the ledger clock. Defaults to the system clock.
func WithClock(c phase.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithEventSink sets where mint events go. Defaults to a slog LogSink.
func WithEventSink(s EventSink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithSettler enables settlement of paid mints.
func WithSettler(s Settler) Option {
	return func(e *Engine) { e.settler = s }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) { e.tracer = tp.Tracer(tracerName) }
}

// New validates cfg and returns an Engine over st.
func New(st store.Store, cfg Config, opts ...Option) (*Engine, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: store", ErrNilParam)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		store:  st,
		clock:  phase.SystemClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sink == nil {
		e.sink = events.NewLogSink(e.logger)
	}
	if e.tracer == nil {
		e.tracer = otel.GetTracerProvider().Tracer(tracerName)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Receipt describes a committed mint.
type Receipt struct {
	TokenID token.ID
	Owner   account.ID
	Tier    allowlist.Tier
	Phase   phase.Phase
	// Evicted lists over-cap entries dropped while matching the caller.
	Evicted []admission.Removal
	// SettlementQueued is true when a settlement payment was handed off.
	SettlementQueued bool
}

// Mint issues one token to caller, who attached amount.
func (e *Engine) Mint(ctx context.Context, caller account.ID, amount uint64) (_ *Receipt, err error) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "mint.Mint", trace.WithAttributes(
		attribute.String("mint.caller", caller.String()),
		attribute.Int64("mint.amount", int64(amount)),
	))
	defer func() {
		e.metrics.ObserveMint(start)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, Code(err))
		}
		span.End()
	}()

	if err := caller.Validate(); err != nil {
		return nil, err
	}

	now := e.clock.Now()
	req := admission.Request{Caller: caller, Amount: amount, Now: now}
	rec := &Receipt{Owner: caller}

	err = e.store.Update(func(tx store.Tx) error {
		minted, err := tx.Minted()
		if err != nil {
			return err
		}
		if minted >= e.cfg.MaxSupply {
			return fmt.Errorf("%w: %d of %d minted", ErrMintingClosed, minted, e.cfg.MaxSupply)
		}

		dec, err := admission.Decide(e.cfg.Policy, req, tx, quota.NewLedger(tx))
		rec.Phase = dec.Phase
		if err != nil {
			return err
		}
		for _, r := range dec.Removals {
			if _, err := tx.RemoveAt(r.Tier, r.Index); err != nil {
				return fmt.Errorf("mint: remove %s slot %d: %w", r.Tier, r.Index, err)
			}
		}

		id := token.ID(minted + 1)
		prev, err := tx.InsertToken(token.New(id, caller, e.cfg.Royalty))
		if err != nil {
			return err
		}
		if prev != nil {
			return fmt.Errorf("%w: %s", store.ErrDuplicateToken, id)
		}
		if err := tx.InsertMetadata(id, e.cfg.Template.Build(id, now)); err != nil {
			return err
		}
		if err := tx.AddToOwner(caller, id); err != nil {
			return err
		}

		rec.TokenID = id
		rec.Tier = dec.Tier
		rec.Evicted = dec.Evictions()
		return nil
	})
	if err != nil {
		e.denied(ctx, caller, rec.Phase, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("mint.token_id", int64(rec.TokenID)),
		attribute.String("mint.tier", rec.Tier.String()),
	)
	e.committed(ctx, rec)

	if err := e.sink.Emit(ctx, events.NewMint(caller, rec.TokenID)); err != nil {
		e.logger.WarnContext(ctx, "mint event not delivered", "token_id", rec.TokenID, "error", err)
	}
	if amount > 0 && e.settler != nil && e.cfg.SettlementAmount > 0 {
		rec.SettlementQueued = e.settler.Submit(ctx, settlement.NewPayment(rec.TokenID, caller, e.cfg.SettlementAmount))
	}
	return rec, nil
}

func (e *Engine) denied(ctx context.Context, caller account.ID, p phase.Phase, err error) {
	code := Code(err)
	e.metrics.IncrementDenied(code)
	if IsDenial(err) {
		e.logger.InfoContext(ctx, "mint denied", "caller", caller, "phase", p, "reason", code, "error", err)
		return
	}
	e.logger.ErrorContext(ctx, "mint aborted", "caller", caller, "phase", p, "reason", code, "error", err)
}

func (e *Engine) committed(ctx context.Context, rec *Receipt) {
	e.metrics.IncrementMinted(rec.Tier.String())
	e.metrics.SetSupply(uint64(rec.TokenID))
	for _, r := range rec.Evicted {
		e.metrics.IncrementEvicted(r.Tier.String())
		e.logger.InfoContext(ctx, "eligibility slot evicted", "caller", r.Account, "tier", r.Tier)
	}
	e.logger.InfoContext(ctx, "token minted",
		"caller", rec.Owner, "token_id", rec.TokenID, "tier", rec.Tier, "phase", rec.Phase)
}
