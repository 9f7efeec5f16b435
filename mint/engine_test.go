package mint

//go:generate mockgen -source=collab.go -destination=mocks/mocks.go -package=mocks EventSink,Settler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/admission"
	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/events"
	"github.com/bitfsorg/libmint-go/metrics"
	"github.com/bitfsorg/libmint-go/mint/mocks"
	"github.com/bitfsorg/libmint-go/phase"
	"github.com/bitfsorg/libmint-go/quota"
	"github.com/bitfsorg/libmint-go/royalty"
	"github.com/bitfsorg/libmint-go/settlement"
	"github.com/bitfsorg/libmint-go/store"
	"github.com/bitfsorg/libmint-go/token"
)

const (
	price        = 5_000_000
	settleAmount = 87_500

	preSale  = 500
	inTier1  = 1500
	inTier2  = 2500
	inTier3  = 3500
	inPublic = 4500
)

func testConfig() Config {
	return Config{
		Owner:     "owner.near",
		MaxSupply: 538,
		Policy: admission.Policy{
			Schedule: phase.Schedule{Tier1Start: 1000, Tier2Start: 2000, Tier3Start: 3000, PublicStart: 4000},
			Caps:     quota.Caps{Owner: 538, Tier1: 3, Tier2: 2, Tier3: 1, Public: 3},
			Price:    price,
		},
		Royalty: royalty.Single("platform.near", 1000),
		Template: token.Template{
			TitlePrefix:   "Token #",
			Description:   "test collection",
			MediaBase:     "https://media.example/",
			MediaExt:      ".png",
			ReferenceBase: "https://meta.example",
			ReferenceExt:  ".json",
		},
		Contract:         token.ContractMetadata{Spec: token.SpecVersion, Name: "Test", Symbol: "TST"},
		SettlementAmount: settleAmount,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =============================================================================
// Engine Test Suite
// =============================================================================

type EngineSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	sink    *mocks.MockEventSink
	settler *mocks.MockSettler
	store   store.Store
	metrics *metrics.Metrics
	now     uint64
	cfg     Config
	engine  *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.sink = mocks.NewMockEventSink(s.ctrl)
	s.settler = mocks.NewMockSettler(s.ctrl)
	s.store = store.NewMemStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.now = preSale
	s.cfg = testConfig()
	s.rebuild()
}

func (s *EngineSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *EngineSuite) rebuild() {
	e, err := New(s.store, s.cfg,
		WithClock(phase.ClockFunc(func() uint64 { return s.now })),
		WithEventSink(s.sink),
		WithSettler(s.settler),
		WithMetrics(s.metrics),
		WithLogger(quietLogger()),
	)
	s.Require().NoError(err)
	s.engine = e
}

func (s *EngineSuite) load(lists Allowlists) {
	s.Require().NoError(s.engine.LoadAllowlists(context.Background(), s.cfg.Owner, lists))
}

func (s *EngineSuite) expectEvent(owner account.ID, id token.ID) {
	s.sink.EXPECT().Emit(gomock.Any(), events.NewMint(owner, id)).Return(nil)
}

func (s *EngineSuite) anyEvents() {
	s.sink.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (s *EngineSuite) anySettlements() {
	s.settler.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(true).AnyTimes()
}

func (s *EngineSuite) list(tier allowlist.Tier) allowlist.List {
	l, err := s.engine.List(tier)
	s.Require().NoError(err)
	return l
}

func (s *EngineSuite) supply() uint64 {
	n, err := s.engine.TotalSupply()
	s.Require().NoError(err)
	return n
}

func (s *EngineSuite) owned(id account.ID) uint64 {
	n, err := s.engine.SupplyForOwner(id)
	s.Require().NoError(err)
	return n
}

func (s *EngineSuite) mint(caller account.ID, amount uint64) (*Receipt, error) {
	return s.engine.Mint(context.Background(), caller, amount)
}

// =============================================================================
// Constructor
// =============================================================================

func (s *EngineSuite) TestNew() {
	s.Run("nil store", func() {
		_, err := New(nil, testConfig())
		s.ErrorIs(err, ErrNilParam)
	})

	s.Run("invalid config", func() {
		cfg := testConfig()
		cfg.SettlementAmount = cfg.Policy.Price
		_, err := New(store.NewMemStore(), cfg)
		s.ErrorIs(err, ErrInvalidConfig)
	})

	s.Run("defaults", func() {
		e, err := New(store.NewMemStore(), testConfig())
		s.Require().NoError(err)
		s.NotNil(e.sink)
		s.NotNil(e.tracer)
		s.Equal(testConfig().Owner, e.Config().Owner)
	})
}

// =============================================================================
// Payment and phase gating
// =============================================================================

func (s *EngineSuite) TestMint_PreSaleDenied() {
	s.load(Allowlists{allowlist.TierA: {"alice.near"}})

	_, err := s.mint("alice.near", price)
	s.ErrorIs(err, admission.ErrTooEarly)
	s.Equal(CodeTooEarly, Code(err))
	s.Zero(s.supply())
	s.Equal(allowlist.List{"alice.near"}, s.list(allowlist.TierA))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Denied.WithLabelValues(CodeTooEarly)))
}

func (s *EngineSuite) TestMint_InvalidPayment() {
	s.now = inPublic
	_, err := s.mint("alice.near", price-1)
	s.ErrorIs(err, admission.ErrInvalidPayment)
	s.Zero(s.supply())
}

func (s *EngineSuite) TestMint_InvalidCaller() {
	s.now = inPublic
	_, err := s.mint("", price)
	s.Equal(CodeInvalidAccount, Code(err))
}

func (s *EngineSuite) TestMint_OwnerListBeforeSale() {
	s.load(Allowlists{allowlist.Owner: {"team.near", "team.near"}})
	s.expectEvent("team.near", 1)
	s.expectEvent("team.near", 2)

	for range 2 {
		rec, err := s.mint("team.near", 0)
		s.Require().NoError(err)
		s.Equal(allowlist.Owner, rec.Tier)
		s.Equal(phase.PreSale, rec.Phase)
	}
	s.Equal(uint64(2), s.owned("team.near"))
	s.Empty(s.list(allowlist.Owner))

	_, err := s.mint("team.near", 0)
	s.ErrorIs(err, admission.ErrTooEarly, "owner slots are exhausted")
}

func (s *EngineSuite) TestMint_OwnerListIgnoredWhenPaying() {
	s.load(Allowlists{allowlist.Owner: {"team.near"}})

	_, err := s.mint("team.near", price)
	s.ErrorIs(err, admission.ErrTooEarly)
	s.Equal(allowlist.List{"team.near"}, s.list(allowlist.Owner))
}

// =============================================================================
// Issuance
// =============================================================================

func (s *EngineSuite) TestMint_Tier1Issues() {
	s.load(Allowlists{allowlist.TierA: {"alice.near", "bob.near"}})
	s.now = inTier1
	s.expectEvent("alice.near", 1)

	rec, err := s.mint("alice.near", 0)
	s.Require().NoError(err)
	s.Equal(token.ID(1), rec.TokenID)
	s.Equal(allowlist.TierA, rec.Tier)
	s.Equal(phase.Tier1Window, rec.Phase)
	s.False(rec.SettlementQueued, "free mints are not settled")

	s.Equal(allowlist.List{"bob.near"}, s.list(allowlist.TierA))
	s.Equal(uint64(1), s.owned("alice.near"))
	s.Equal(uint64(1), s.supply())

	view, err := s.engine.Token(1)
	s.Require().NoError(err)
	s.Equal("1", view.TokenID)
	s.Equal(account.ID("alice.near"), view.OwnerID)
	s.Equal(map[account.ID]uint32{"platform.near": 1000}, view.Royalty)
	s.Empty(view.ApprovedAccountIDs)
	s.Equal("Token #1", view.Metadata.Title)
	s.Equal("https://media.example/1.png", view.Metadata.Media)
	s.Equal("https://meta.example/1.json", view.Metadata.Reference)
	s.Equal(uint64(inTier1), view.Metadata.IssuedAt)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.Minted.WithLabelValues("tier_a")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Supply))
}

func (s *EngineSuite) TestMint_PaidSubmitsSettlement() {
	s.load(Allowlists{allowlist.TierB: {"carol.near"}})
	s.now = inTier2
	s.expectEvent("carol.near", 1)

	var got settlement.Payment
	s.settler.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p settlement.Payment) bool {
			got = p
			return true
		})

	rec, err := s.mint("carol.near", price)
	s.Require().NoError(err)
	s.True(rec.SettlementQueued)
	s.Equal(token.ID(1), got.TokenID)
	s.Equal(account.ID("carol.near"), got.Payer)
	s.Equal(uint64(settleAmount), got.Amount)
	s.NotEqual([16]byte{}, [16]byte(got.ID))
}

func (s *EngineSuite) TestMint_SettlementDropDoesNotUndoMint() {
	s.now = inPublic
	s.expectEvent("dave.near", 1)
	s.settler.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(false)

	rec, err := s.mint("dave.near", price)
	s.Require().NoError(err)
	s.False(rec.SettlementQueued)
	s.Equal(uint64(1), s.supply())
}

func (s *EngineSuite) TestMint_EventFailureDoesNotUndoMint() {
	s.now = inPublic
	s.sink.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	_, err := s.mint("erin.near", 0)
	s.Require().NoError(err)
	ok, err := s.engine.TokenExists(1)
	s.Require().NoError(err)
	s.True(ok)
}

func (s *EngineSuite) TestMint_DenialEmitsNothing() {
	s.now = inTier1
	// No expectations: any Emit or Submit call fails the test.
	_, err := s.mint("stranger.near", price)
	s.ErrorIs(err, admission.ErrNotEligibleTier1)
}

// =============================================================================
// Caps and eviction
// =============================================================================

// An account at the tier cap is denied; the eviction is discarded with the
// rest of the call.
func (s *EngineSuite) TestMint_AtCapDeniedAndRolledBack() {
	s.anyEvents()
	s.load(Allowlists{
		allowlist.Owner: {"acct1.near", "acct1.near", "acct1.near"},
		allowlist.TierA: {"acct1.near", "acct2.near"},
	})
	for range 3 {
		_, err := s.mint("acct1.near", 0)
		s.Require().NoError(err)
	}
	s.Equal(uint64(3), s.owned("acct1.near"))

	s.now = inTier1
	_, err := s.mint("acct1.near", 0)
	s.ErrorIs(err, admission.ErrNotEligibleTier1)

	s.Equal(uint64(3), s.owned("acct1.near"))
	s.Equal(uint64(3), s.supply())
	s.Equal(allowlist.List{"acct1.near", "acct2.near"}, s.list(allowlist.TierA))
	s.Zero(testutil.ToFloat64(s.metrics.Evicted.WithLabelValues("tier_a")))
}

// An over-cap match in one list is evicted and the caller is admitted
// through the next list; both removals commit together.
func (s *EngineSuite) TestMint_EvictionCommitsWithAdmission() {
	s.anyEvents()
	s.cfg.Policy.Caps.Owner = 1
	s.rebuild()
	s.load(Allowlists{
		allowlist.Owner: {"x.near", "x.near"},
		allowlist.TierA: {"x.near"},
	})

	_, err := s.mint("x.near", 0)
	s.Require().NoError(err)
	s.Equal(allowlist.List{"x.near"}, s.list(allowlist.Owner))

	s.now = inTier1
	rec, err := s.mint("x.near", 0)
	s.Require().NoError(err)
	s.Equal(allowlist.TierA, rec.Tier)
	s.Require().Len(rec.Evicted, 1)
	s.Equal(allowlist.Owner, rec.Evicted[0].Tier)
	s.Empty(s.list(allowlist.Owner))
	s.Empty(s.list(allowlist.TierA))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Evicted.WithLabelValues("owner")))
}

func (s *EngineSuite) TestMint_SlotConsumedExactlyOnce() {
	s.anyEvents()
	s.anySettlements()
	s.load(Allowlists{allowlist.TierA: {"once.near"}})
	s.now = inTier1

	_, err := s.mint("once.near", price)
	s.Require().NoError(err)
	_, err = s.mint("once.near", price)
	s.ErrorIs(err, admission.ErrNotEligibleTier1)
	s.Equal(uint64(1), s.owned("once.near"))
}

func (s *EngineSuite) TestMint_Tier3FirstRegistryWins() {
	s.load(Allowlists{
		allowlist.TierC: {"c.near", "both.near"},
		allowlist.TierD: {"both.near", "d.near"},
	})
	s.now = inTier3
	s.expectEvent("both.near", 1)

	rec, err := s.mint("both.near", 0)
	s.Require().NoError(err)
	s.Equal(allowlist.TierC, rec.Tier)
	s.Equal(allowlist.List{"c.near"}, s.list(allowlist.TierC))
	s.Equal(allowlist.List{"both.near", "d.near"}, s.list(allowlist.TierD))
	s.Equal(uint64(1), s.supply())
}

func (s *EngineSuite) TestMint_Tier3SecondList() {
	s.anyEvents()
	s.load(Allowlists{allowlist.TierD: {"d.near"}})
	s.now = inTier3

	rec, err := s.mint("d.near", 0)
	s.Require().NoError(err)
	s.Equal(allowlist.TierD, rec.Tier)

	_, err = s.mint("d.near", 0)
	s.ErrorIs(err, admission.ErrNotEligibleTier3)
}

func (s *EngineSuite) TestMint_PublicCap() {
	s.anyEvents()
	s.anySettlements()
	s.now = inPublic

	for range 3 {
		_, err := s.mint("pub.near", price)
		s.Require().NoError(err)
	}
	_, err := s.mint("pub.near", price)
	s.ErrorIs(err, admission.ErrQuotaExceeded)
	s.Equal(uint64(3), s.owned("pub.near"))
}

func (s *EngineSuite) TestMint_ClosedAtGlobalCap() {
	s.anyEvents()
	s.cfg.MaxSupply = 2
	s.rebuild()
	s.load(Allowlists{
		allowlist.Owner: {"team.near"},
		allowlist.TierA: {"a.near", "b.near"},
	})
	s.now = inTier1

	_, err := s.mint("a.near", 0)
	s.Require().NoError(err)
	rec, err := s.mint("b.near", 0)
	s.Require().NoError(err)
	s.Equal(token.ID(2), rec.TokenID)

	_, err = s.mint("team.near", 0)
	s.ErrorIs(err, ErrMintingClosed)
	_, err = s.mint("anyone.near", 7)
	s.ErrorIs(err, ErrMintingClosed, "the cap check runs before payment validation")
	s.Equal(allowlist.List{"team.near"}, s.list(allowlist.Owner))
	s.Equal(uint64(2), s.supply())
}

// =============================================================================
// Privileged setup
// =============================================================================

func (s *EngineSuite) TestAppendList() {
	ctx := context.Background()

	s.Run("owner only", func() {
		err := s.engine.AppendList(ctx, "mallory.near", allowlist.TierA, []account.ID{"mallory.near"})
		s.ErrorIs(err, ErrUnauthorized)
		s.Equal(CodeUnauthorized, Code(err))
		s.Empty(s.list(allowlist.TierA))
	})

	s.Run("public has no list", func() {
		err := s.engine.AppendList(ctx, s.cfg.Owner, allowlist.Public, []account.ID{"a.near"})
		s.ErrorIs(err, allowlist.ErrNoList)
	})

	s.Run("invalid entry", func() {
		err := s.engine.AppendList(ctx, s.cfg.Owner, allowlist.TierA, []account.ID{"ok.near", "Bad Id"})
		s.ErrorIs(err, account.ErrInvalidSyntax)
		s.Empty(s.list(allowlist.TierA))
	})

	s.Run("appends keep duplicates and order", func() {
		s.Require().NoError(s.engine.AppendList(ctx, s.cfg.Owner, allowlist.TierA, []account.ID{"a.near", "b.near"}))
		s.Require().NoError(s.engine.AppendList(ctx, s.cfg.Owner, allowlist.TierA, []account.ID{"a.near"}))
		s.Equal(allowlist.List{"a.near", "b.near", "a.near"}, s.list(allowlist.TierA))
	})

	s.Run("accepted after the sale opened", func() {
		s.now = inPublic
		s.Require().NoError(s.engine.AppendList(ctx, s.cfg.Owner, allowlist.TierD, []account.ID{"late.near"}))
		s.Equal(allowlist.List{"late.near"}, s.list(allowlist.TierD))
	})
}

func (s *EngineSuite) TestLoadAllowlists_AllOrNothing() {
	err := s.engine.LoadAllowlists(context.Background(), s.cfg.Owner, Allowlists{
		allowlist.Owner:  {"team.near"},
		allowlist.TierB:  {"b.near"},
		allowlist.Public: {"p.near"},
	})
	s.ErrorIs(err, allowlist.ErrNoList)
	s.Empty(s.list(allowlist.Owner))
	s.Empty(s.list(allowlist.TierB))

	s.load(Allowlists{
		allowlist.Owner: {"team.near"},
		allowlist.TierA: {"a.near"},
		allowlist.TierB: {"b.near"},
		allowlist.TierC: {"c.near"},
		allowlist.TierD: {"d.near"},
	})
	for tier, want := range map[allowlist.Tier]account.ID{
		allowlist.Owner: "team.near",
		allowlist.TierA: "a.near",
		allowlist.TierB: "b.near",
		allowlist.TierC: "c.near",
		allowlist.TierD: "d.near",
	} {
		s.Equal(allowlist.List{want}, s.list(tier))
	}
}

// =============================================================================
// Reads
// =============================================================================

func (s *EngineSuite) TestReads() {
	s.anyEvents()
	s.now = inPublic
	_, err := s.mint("reader.near", 0)
	s.Require().NoError(err)

	ok, err := s.engine.TokenExists(1)
	s.Require().NoError(err)
	s.True(ok)
	ok, err = s.engine.TokenExists(2)
	s.Require().NoError(err)
	s.False(ok)

	_, err = s.engine.Token(2)
	s.ErrorIs(err, store.ErrTokenNotFound)
	s.Equal(CodeNotFound, Code(err))

	s.Equal("TST", s.engine.ContractMetadata().Symbol)

	_, err = s.engine.List(allowlist.Public)
	s.ErrorIs(err, allowlist.ErrNoList)

	payout, err := s.engine.Payout(1, 5_000_000, 2)
	s.Require().NoError(err)
	s.Equal(royalty.Payout{"platform.near": 500_000, "reader.near": 4_500_000}, payout)

	_, err = s.engine.Payout(1, 5_000_000, 1)
	s.Equal(CodePayoutTooLong, Code(err))

	_, err = s.engine.Payout(9, 1, 2)
	s.ErrorIs(err, store.ErrTokenNotFound)
}

func (s *EngineSuite) TestStatus() {
	s.anyEvents()
	s.load(Allowlists{allowlist.TierA: {"a.near", "b.near"}, allowlist.TierC: {"c.near"}})
	s.now = inTier1
	_, err := s.mint("a.near", 0)
	s.Require().NoError(err)

	st, err := s.engine.Status()
	s.Require().NoError(err)
	s.Equal("tier1", st.Phase)
	s.Equal(uint64(inTier1), st.Now)
	s.Equal(uint64(2000), st.NextPhaseAt)
	s.Equal(uint64(1), st.Minted)
	s.Equal(uint64(537), st.Remaining)
	s.Equal(map[string]int{"owner": 0, "tier_a": 1, "tier_b": 0, "tier_c": 1, "tier_d": 0}, st.Lists)

	s.now = inPublic
	st, err = s.engine.Status()
	s.Require().NoError(err)
	s.Equal("public", st.Phase)
	s.Zero(st.NextPhaseAt)
}

// =============================================================================
// Duplicate token invariant
// =============================================================================

// staleStore reports a minted count of zero so the next id collides.
type staleStore struct{ store.Store }

type staleTx struct{ store.Tx }

func (staleTx) Minted() (uint64, error) { return 0, nil }

func (s staleStore) Update(fn func(store.Tx) error) error {
	return s.Store.Update(func(tx store.Tx) error { return fn(staleTx{tx}) })
}

func (s *EngineSuite) TestMint_DuplicateTokenAborts() {
	s.store = staleStore{store.NewMemStore()}
	s.rebuild()
	s.load(Allowlists{allowlist.TierA: {"a.near", "b.near"}})
	s.now = inTier1
	s.expectEvent("a.near", 1)

	_, err := s.mint("a.near", 0)
	s.Require().NoError(err)

	_, err = s.mint("b.near", 0)
	s.ErrorIs(err, store.ErrDuplicateToken)
	s.Equal(CodeDuplicateToken, Code(err))
	s.False(IsDenial(err))
	s.Equal(allowlist.List{"b.near"}, s.list(allowlist.TierA), "the consumed slot is restored")
	s.Equal(uint64(0), s.owned("b.near"))

	view, err := s.engine.Token(1)
	s.Require().NoError(err)
	s.Equal(account.ID("a.near"), view.OwnerID)
}

// =============================================================================
// Plain tests
// =============================================================================

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{nil, ""},
		{admission.ErrTooEarly, CodeTooEarly},
		{admission.ErrNotEligibleTier1, CodeNotEligibleTier1},
		{admission.ErrNotEligibleTier2, CodeNotEligibleTier2},
		{admission.ErrNotEligibleTier3, CodeNotEligibleTier3},
		{admission.ErrQuotaExceeded, CodeQuotaExceeded},
		{admission.ErrInvalidPayment, CodeInvalidPayment},
		{ErrMintingClosed, CodeMintingClosed},
		{ErrUnauthorized, CodeUnauthorized},
		{store.ErrDuplicateToken, CodeDuplicateToken},
		{token.ErrInvalidID, CodeNotFound},
		{allowlist.ErrUnknownTier, CodeInvalidTier},
		{errors.New("disk full"), CodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, Code(tt.err), "%v", tt.err)
	}
	assert.True(t, IsDenial(admission.ErrQuotaExceeded))
	assert.False(t, IsDenial(errors.New("disk full")))
	assert.False(t, IsDenial(nil))
}

func TestConfigValidate(t *testing.T) {
	mutate := map[string]func(*Config){
		"owner":      func(c *Config) { c.Owner = "" },
		"max supply": func(c *Config) { c.MaxSupply = 0 },
		"schedule":   func(c *Config) { c.Policy.Schedule.Tier2Start = c.Policy.Schedule.Tier1Start },
		"caps":       func(c *Config) { c.Policy.Caps.Tier2 = 0 },
		"price":      func(c *Config) { c.Policy.Price = 0 },
		"settlement": func(c *Config) { c.SettlementAmount = c.Policy.Price + 1 },
		"royalty":    func(c *Config) { c.Royalty = royalty.Split{} },
		"template":   func(c *Config) { c.Template.MediaBase = "" },
		"contract":   func(c *Config) { c.Contract.Symbol = "" },
	}
	require.NoError(t, testConfig().Validate())
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			fn(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

// The full sale against a persisted store: ids are dense, the cap holds and
// the metadata of every token names its own id.
func TestEngine_BoltSaleInvariants(t *testing.T) {
	st, err := store.OpenBoltStore(filepath.Join(t.TempDir(), "mint.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := testConfig()
	cfg.MaxSupply = 12
	now := uint64(preSale)
	rec := &events.Recorder{}
	e, err := New(st, cfg,
		WithClock(phase.ClockFunc(func() uint64 { return now })),
		WithEventSink(rec),
		WithLogger(quietLogger()),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, e.LoadAllowlists(ctx, cfg.Owner, Allowlists{
		allowlist.Owner: {"team.near", "team.near"},
		allowlist.TierA: {"a1.near", "a2.near", "a1.near", "a1.near"},
		allowlist.TierB: {"b1.near", "b1.near", "b1.near"},
		allowlist.TierC: {"c1.near", "cd.near"},
		allowlist.TierD: {"cd.near", "d1.near"},
	}))

	callers := []account.ID{"team.near", "a1.near", "a2.near", "b1.near", "c1.near", "cd.near", "d1.near", "p1.near", "p2.near"}
	held := map[account.ID]uint64{}
	var minted uint64
	for _, at := range []uint64{preSale, inTier1, inTier2, inTier3, inPublic} {
		now = at
		for round := 0; round < 4; round++ {
			for _, c := range callers {
				for _, amount := range []uint64{0, price} {
					r, err := e.Mint(ctx, c, amount)
					if err != nil {
						assert.True(t, IsDenial(err), "%s at %d: %v", c, at, err)
						continue
					}
					minted++
					held[c]++
					assert.Equal(t, token.ID(minted), r.TokenID)
				}
			}
		}
	}

	assert.Equal(t, cfg.MaxSupply, minted)
	supply, err := e.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, minted, supply)

	for id := token.ID(1); id <= token.ID(minted); id++ {
		view, err := e.Token(id)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(view.Metadata.Media, "/"+id.String()+".png"))
		assert.True(t, strings.HasSuffix(view.Metadata.Reference, "/"+id.String()+".json"))
		assert.Equal(t, "Token #"+id.String(), view.Metadata.Title)
	}
	for c, n := range held {
		got, err := e.SupplyForOwner(c)
		require.NoError(t, err)
		assert.Equal(t, n, got, c)
	}

	evs := rec.Events()
	require.Len(t, evs, int(minted))
	data, err := evs[len(evs)-1].MintData()
	require.NoError(t, err)
	assert.Equal(t, []string{token.ID(minted).String()}, data[0].TokenIDs)
}

// =============================================================================
// Concurrent mints
// =============================================================================

func TestEngine_ConcurrentMintsRespectCaps(t *testing.T) {
	stores := map[string]func(t *testing.T) store.Store{
		"mem": func(t *testing.T) store.Store { return store.NewMemStore() },
		"bolt": func(t *testing.T) store.Store {
			st, err := store.OpenBoltStore(filepath.Join(t.TempDir(), "mint.db"), time.Second)
			require.NoError(t, err)
			t.Cleanup(func() { _ = st.Close() })
			return st
		},
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			cfg.MaxSupply = 5
			rec := &events.Recorder{}
			e, err := New(open(t), cfg,
				WithClock(phase.Fixed(inTier1)),
				WithEventSink(rec),
				WithLogger(quietLogger()),
			)
			require.NoError(t, err)

			const single account.ID = "one.near"
			tierA := []account.ID{single}
			for i := 0; i < 20; i++ {
				tierA = append(tierA, account.ID(fmt.Sprintf("u%d.near", i)))
			}
			ctx := context.Background()
			require.NoError(t, e.AppendList(ctx, cfg.Owner, allowlist.TierA, tierA))

			callers := make([]account.ID, 0, 40)
			for i := 0; i < 20; i++ {
				callers = append(callers, single, tierA[i+1])
			}

			var (
				wg        sync.WaitGroup
				successes atomic.Int32
				singleOK  atomic.Int32
			)
			for _, c := range callers {
				wg.Add(1)
				go func(c account.ID) {
					defer wg.Done()
					_, err := e.Mint(ctx, c, price)
					if err != nil {
						assert.True(t, errors.Is(err, ErrMintingClosed) || errors.Is(err, admission.ErrNotEligibleTier1),
							"%s: %v", c, err)
						return
					}
					successes.Add(1)
					if c == single {
						singleOK.Add(1)
					}
				}(c)
			}
			wg.Wait()

			assert.Equal(t, int32(cfg.MaxSupply), successes.Load())
			assert.LessOrEqual(t, singleOK.Load(), int32(1))

			supply, err := e.TotalSupply()
			require.NoError(t, err)
			assert.Equal(t, cfg.MaxSupply, supply)
			assert.Len(t, rec.Events(), int(supply))

			owned, err := e.SupplyForOwner(single)
			require.NoError(t, err)
			assert.Equal(t, uint64(singleOK.Load()), owned)

			left, err := e.List(allowlist.TierA)
			require.NoError(t, err)
			assert.Len(t, left, len(tierA)-int(supply))
		})
	}
}
