package phase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchedule() Schedule {
	return Schedule{Tier1Start: 1000, Tier2Start: 2000, Tier3Start: 3000, PublicStart: 4000}
}

func TestScheduleAt(t *testing.T) {
	s := testSchedule()
	tests := []struct {
		now  uint64
		want Phase
	}{
		{0, PreSale},
		{999, PreSale},
		{1000, Tier1Window},
		{1999, Tier1Window},
		{2000, Tier2Window},
		{2999, Tier2Window},
		{3000, Tier3Window},
		{3999, Tier3Window},
		{4000, PublicWindow},
		{^uint64(0), PublicWindow},
	}
	for _, tc := range tests {
		t.Run(tc.want.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, s.At(tc.now), "now=%d", tc.now)
		})
	}
}

func TestScheduleStartRoundTrip(t *testing.T) {
	s := testSchedule()
	for _, p := range []Phase{Tier1Window, Tier2Window, Tier3Window, PublicWindow} {
		assert.Equal(t, p, s.At(s.Start(p)))
		assert.Equal(t, p-1, s.At(s.Start(p)-1))
	}
	assert.Zero(t, s.Start(PreSale))
}

func TestScheduleValidate(t *testing.T) {
	require.NoError(t, testSchedule().Validate())

	bad := []Schedule{
		{},
		{Tier1Start: 1, Tier2Start: 1, Tier3Start: 2, PublicStart: 3},
		{Tier1Start: 1, Tier2Start: 3, Tier3Start: 2, PublicStart: 4},
		{Tier1Start: 1, Tier2Start: 2, Tier3Start: 3, PublicStart: 3},
	}
	for _, s := range bad {
		assert.ErrorIs(t, s.Validate(), ErrUnorderedSchedule)
	}
}

func TestParsePhase(t *testing.T) {
	for p := PreSale; p <= PublicWindow; p++ {
		got, err := ParsePhase(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePhase("late")
	assert.ErrorIs(t, err, ErrUnknownPhase)
	assert.Equal(t, "phase(9)", Phase(9).String())
}

func TestLedgerTimeTruncates(t *testing.T) {
	ts := time.Unix(1663851600, 999_999_999)
	assert.Equal(t, uint64(1663851600999), LedgerTime(ts))
	assert.Zero(t, LedgerTime(time.Unix(-5, 0)))
}

func TestFixedClock(t *testing.T) {
	assert.Equal(t, uint64(42), Fixed(42).Now())
	assert.NotZero(t, SystemClock{}.Now())
}
