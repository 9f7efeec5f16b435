package royalty

import (
	"fmt"
	"math/bits"

	"github.com/bitfsorg/libmint-go/account"
)

// Payout maps each receiver to the amount it is owed from a sale.
type Payout map[account.ID]uint64

// Payout splits balance for a token held by owner. Each royalty account
// receives balance*bps/FullShare rounded down; owner receives the remainder
// on top of any share of its own. maxLen caps the number of receivers.
func (s Split) Payout(owner account.ID, balance uint64, maxLen int) (Payout, error) {
	receivers := len(s)
	if _, ok := s[owner]; !ok {
		receivers++
	}
	if receivers > maxLen {
		return nil, fmt.Errorf("%w: %d receivers, limit %d", ErrTooManyEntries, receivers, maxLen)
	}
	if total := s.Total(); total > FullShare {
		return nil, fmt.Errorf("%w: %d", ErrShareOverflow, total)
	}

	out := make(Payout, receivers)
	var distributed uint64
	for _, e := range s.Entries() {
		if e.Account == owner {
			continue
		}
		amount := share(balance, e.BPS)
		out[e.Account] = amount
		distributed += amount
	}
	out[owner] = balance - distributed
	return out, nil
}

// share returns balance*bps/FullShare without overflowing.
func share(balance uint64, bps uint32) uint64 {
	hi, lo := bits.Mul64(balance, uint64(bps))
	q, _ := bits.Div64(hi, lo, FullShare)
	return q
}
