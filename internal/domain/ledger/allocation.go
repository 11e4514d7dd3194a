package ledger

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

var ErrInsufficientBalance = errors.New("insufficient balance for consumption")

// Draw is one slice of a consumption plan: how much to take from one grant.
type Draw struct {
	GrantID uuid.UUID
	Amount  Money
}

// AvailableBalance sums the remaining balance of grants that are still
// drawable as of asOf. Expired grants contribute zero regardless of their
// stored balance.
func AvailableBalance(grants []*Grant, asOf time.Time) Money {
	total := ZeroMoney()
	for _, g := range grants {
		if g.Drawable(asOf) {
			total = total.Add(g.RemainingBalance())
		}
	}
	return total
}

// PlanConsumption allocates amount across the customer's grants, oldest
// granted_at first, so the grants closest to expiry drain before newer ones.
// One logical consumption may span several grants; the caller records one
// entry per draw. The plan is all-or-nothing: when the drawable balance
// cannot cover amount, ErrInsufficientBalance is returned and nothing is
// allocated.
func PlanConsumption(grants []*Grant, amount Money, asOf time.Time) ([]Draw, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	eligible := make([]*Grant, 0, len(grants))
	for _, g := range grants {
		if g.Drawable(asOf) {
			eligible = append(eligible, g)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].GrantedAt().Before(eligible[j].GrantedAt())
	})

	remaining := amount
	draws := make([]Draw, 0, len(eligible))
	for _, g := range eligible {
		if remaining.IsZero() {
			break
		}
		take := g.RemainingBalance().Min(remaining)
		draws = append(draws, Draw{GrantID: g.ID(), Amount: take})
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		return nil, ErrInsufficientBalance
	}
	return draws, nil
}
