package mint

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/phase"
	"github.com/bitfsorg/libmint-go/store"
)

// Allowlists maps each listed tier to the accounts appended by setup.
type Allowlists map[allowlist.Tier][]account.ID

// AppendList appends ids to the tier's eligibility list. Only the owner may
// call it. Duplicates and calls after the sale opened are accepted.
func (e *Engine) AppendList(ctx context.Context, caller account.ID, tier allowlist.Tier, ids []account.ID) error {
	return e.LoadAllowlists(ctx, caller, Allowlists{tier: ids})
}

// LoadAllowlists appends every list in one transaction, in the order
// Owner, TierA, TierB, TierC, TierD. Either all lists are extended or none.
func (e *Engine) LoadAllowlists(ctx context.Context, caller account.ID, lists Allowlists) (err error) {
	ctx, span := e.tracer.Start(ctx, "mint.LoadAllowlists", trace.WithAttributes(
		attribute.String("mint.caller", caller.String()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, Code(err))
		}
		span.End()
	}()

	if caller != e.cfg.Owner {
		e.logger.WarnContext(ctx, "privileged call refused", "caller", caller)
		return fmt.Errorf("%w: %s is not the owner", ErrUnauthorized, caller)
	}
	for tier, ids := range lists {
		if !tier.HasList() {
			return fmt.Errorf("%w: %s", allowlist.ErrNoList, tier)
		}
		for i, id := range ids {
			if err := id.Validate(); err != nil {
				return fmt.Errorf("%s entry %d: %w", tier, i, err)
			}
		}
	}

	now := e.clock.Now()
	if p := e.cfg.Policy.Schedule.At(now); p != phase.PreSale {
		e.logger.WarnContext(ctx, "appending eligibility lists after the sale opened", "phase", p)
	}

	err = e.store.Update(func(tx store.Tx) error {
		for _, tier := range allowlist.Listed {
			ids := lists[tier]
			if len(ids) == 0 {
				continue
			}
			if err := tx.AppendList(tier, ids...); err != nil {
				return fmt.Errorf("mint: append %s: %w", tier, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, tier := range allowlist.Listed {
		if n := len(lists[tier]); n > 0 {
			e.logger.InfoContext(ctx, "eligibility list extended", "tier", tier, "added", n)
		}
	}
	return nil
}
