package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mailgun/holster/v4/syncutil"
	"github.com/ssgreg/repeat"

	"github.com/bitfsorg/libmint-go/metrics"
)

// Dispatcher defaults.
const (
	DefaultQueueSize = 256
	DefaultWorkers   = 4
	DefaultMaxTries  = 5
	DefaultBaseDelay = 2 * time.Second
	DefaultMaxDelay  = 30 * time.Second
)

// Settlement results reported to metrics and the Reporter.
const (
	ResultSettled = "settled"
	ResultFailed  = "failed"
)

// Reporter observes the final outcome of every dequeued payment.
type Reporter func(p Payment, txid string, err error)

// Dispatcher queues payments and delivers them in the background.
type Dispatcher struct {
	transferer  Transferer
	destination string
	queue       chan Payment
	workers     int
	maxTries    int
	baseDelay   time.Duration
	maxDelay    time.Duration
	retryable   func(error) bool
	reporter    Reporter
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithQueueSize bounds the number of waiting payments.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan Payment, n)
		}
	}
}

// WithWorkers bounds the number of concurrent transfers.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithRetry sets the attempt limit and the full-jitter backoff bounds.
func WithRetry(maxTries int, base, ceiling time.Duration) Option {
	return func(d *Dispatcher) {
		if maxTries > 0 {
			d.maxTries = maxTries
		}
		if base > 0 && ceiling >= base {
			d.baseDelay, d.maxDelay = base, ceiling
		}
	}
}

// WithRetryable replaces the test deciding which errors are retried.
func WithRetryable(fn func(error) bool) Option {
	return func(d *Dispatcher) { d.retryable = fn }
}

// WithReporter installs a callback for final outcomes.
func WithReporter(r Reporter) Option {
	return func(d *Dispatcher) { d.reporter = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// NewDispatcher returns a Dispatcher delivering through t. Payments without
// a destination are sent to destination.
func NewDispatcher(t Transferer, destination string, opts ...Option) (*Dispatcher, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: transferer", ErrNilParam)
	}
	d := &Dispatcher{
		transferer:  t,
		destination: destination,
		queue:       make(chan Payment, DefaultQueueSize),
		workers:     DefaultWorkers,
		maxTries:    DefaultMaxTries,
		baseDelay:   DefaultBaseDelay,
		maxDelay:    DefaultMaxDelay,
		retryable:   Retryable,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Submit enqueues p without blocking. It returns false when p was dropped
// because it is invalid or the queue is full.
func (d *Dispatcher) Submit(ctx context.Context, p Payment) bool {
	if p.Destination == "" {
		p.Destination = d.destination
	}
	if err := validate(p); err != nil {
		d.logger.WarnContext(ctx, "settlement rejected", "payment", p.ID, "token", p.TokenID, "error", err)
		d.metrics.IncrementSettlementDropped()
		return false
	}

	select {
	case d.queue <- p:
		d.metrics.SetSettlementQueue(len(d.queue))
		return true
	default:
		d.logger.WarnContext(ctx, "settlement queue full, dropping payment",
			"payment", p.ID, "token", p.TokenID, "amount", p.Amount)
		d.metrics.IncrementSettlementDropped()
		return false
	}
}

// Pending returns the number of queued payments.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// Run delivers queued payments until ctx is done, then waits for in-flight
// transfers. Payments still queued at shutdown are logged and dropped.
func (d *Dispatcher) Run(ctx context.Context) error {
	fanOut := syncutil.NewFanOut(d.workers)

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case p := <-d.queue:
			d.metrics.SetSettlementQueue(len(d.queue))
			fanOut.Run(func(val any) error {
				return d.settle(ctx, val.(Payment))
			}, p)
		}
	}

	errs := fanOut.Wait()
	for n := len(d.queue); n > 0; n-- {
		p := <-d.queue
		d.logger.Warn("settlement abandoned at shutdown", "payment", p.ID, "token", p.TokenID)
		d.metrics.IncrementSettlementDropped()
	}
	d.metrics.SetSettlementQueue(0)
	if len(errs) > 0 {
		d.logger.Info("settlement dispatcher stopped", "failed", len(errs))
	}
	return nil
}

// settle transfers p, retrying while the error is retryable.
func (d *Dispatcher) settle(ctx context.Context, p Payment) error {
	var (
		txid  string
		tries int
	)
	err := repeat.Repeat(
		repeat.Fn(func() error {
			tries++
			var err error
			txid, err = d.transferer.Transfer(ctx, p)
			if err != nil && d.retryable(err) {
				return repeat.HintTemporary(err)
			}
			return err
		}),
		repeat.StopOnSuccess(),
		// The counter starts at zero, so maxTries-1 allows maxTries calls.
		repeat.LimitMaxTries(d.maxTries-1),
		repeat.FnOnError(func(err error) error {
			d.logger.WarnContext(ctx, "settlement attempt failed",
				"payment", p.ID, "token", p.TokenID, "attempt", tries, "error", err)
			return err
		}),
		repeat.WithDelay(
			repeat.SetContext(ctx),
			repeat.SetContextHintStop(),
			(&repeat.FullJitterBackoffBuilder{
				BaseDelay: d.baseDelay,
				MaxDelay:  d.maxDelay,
			}).Set(),
		),
	)

	if err != nil {
		d.logger.WarnContext(ctx, "settlement failed",
			"payment", p.ID, "token", p.TokenID, "destination", p.Destination, "tries", tries, "error", err)
		d.metrics.IncrementSettlement(ResultFailed)
		d.report(p, "", err)
		return err
	}

	d.logger.InfoContext(ctx, "settlement sent",
		"payment", p.ID, "token", p.TokenID, "destination", p.Destination, "amount", p.Amount, "txid", txid)
	d.metrics.IncrementSettlement(ResultSettled)
	d.report(p, txid, nil)
	return nil
}

func (d *Dispatcher) report(p Payment, txid string, err error) {
	if d.reporter != nil {
		d.reporter(p, txid, err)
	}
}

func validate(p Payment) error {
	if p.Destination == "" {
		return ErrNoDestination
	}
	if p.Amount == 0 {
		return ErrZeroAmount
	}
	return nil
}
