package queries

import (
	"context"
	"time"

	"cashback-ledger/internal/domain/ledger"
	"cashback-ledger/internal/pkg/clock"
	"cashback-ledger/internal/pkg/errs"

	"github.com/google/uuid"
)

type LedgerQueries interface {
	// CustomerBalance reports the drawable balance and per-grant breakdown,
	// evaluated against the current clock so swept-but-unexpired rows never
	// inflate the total.
	CustomerBalance(ctx context.Context, customerDocument string) (*BalanceView, error)
	GrantHistory(ctx context.Context, grantID uuid.UUID) ([]*EntryView, error)
	// ExpiringGrants lists grants with balance expiring within the window.
	ExpiringGrants(ctx context.Context, withinDays int) ([]*ExpiringGrantView, error)
}

type LedgerViewRepo interface {
	GrantsByCustomer(ctx context.Context, customerID string, asOf time.Time) ([]*GrantView, error)
	EntriesByGrant(ctx context.Context, grantID uuid.UUID) ([]*EntryView, error)
	GrantExists(ctx context.Context, grantID uuid.UUID) (bool, error)
	ExpiringBetween(ctx context.Context, from, to time.Time) ([]*ExpiringGrantView, error)
}

type ledgerQueriesImpl struct {
	repo LedgerViewRepo
	clk  clock.Clock
}

func NewLedgerQueries(repo LedgerViewRepo, clk clock.Clock) LedgerQueries {
	return &ledgerQueriesImpl{repo: repo, clk: clk}
}

func (q *ledgerQueriesImpl) CustomerBalance(ctx context.Context, customerDocument string) (*BalanceView, error) {
	customerID, err := ledger.NewCustomerID(customerDocument)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	asOf := q.clk.Now()
	grants, err := q.repo.GrantsByCustomer(ctx, customerID.String(), asOf)
	if err != nil {
		return nil, err
	}

	view := &BalanceView{
		CustomerID:       customerID.String(),
		AvailableBalance: ledger.ZeroMoney().Decimal(),
		Grants:           grants,
		AsOf:             asOf,
	}
	for _, g := range grants {
		if g.Status == string(ledger.StatusActive) {
			view.AvailableBalance = view.AvailableBalance.Add(g.RemainingBalance)
		}
	}
	return view, nil
}

func (q *ledgerQueriesImpl) GrantHistory(ctx context.Context, grantID uuid.UUID) ([]*EntryView, error) {
	exists, err := q.repo.GrantExists(ctx, grantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.ErrGrantNotFound
	}
	return q.repo.EntriesByGrant(ctx, grantID)
}

func (q *ledgerQueriesImpl) ExpiringGrants(ctx context.Context, withinDays int) ([]*ExpiringGrantView, error) {
	if withinDays <= 0 {
		return nil, errs.Mark(errs.New("within_days must be positive"), errs.ErrDomainValidation)
	}

	from := q.clk.Now()
	to := from.Add(time.Duration(withinDays) * 24 * time.Hour)
	return q.repo.ExpiringBetween(ctx, from, to)
}
