package commands

import (
	"context"
	"errors"

	"cashback-ledger/internal/domain/ledger"
	reqdto "cashback-ledger/internal/handler/dto/request"
	"cashback-ledger/internal/infra"
	"cashback-ledger/internal/pkg/clock"
	"cashback-ledger/internal/pkg/errs"
	"cashback-ledger/internal/usecase/shared"

	"github.com/google/uuid"
)

type DrawResult struct {
	GrantID uuid.UUID
	EntryID uuid.UUID
	Amount  ledger.Money
}

// ConsumeResult reports one consumption: the draws that served it, all
// sharing GroupID, and the balance left afterwards.
type ConsumeResult struct {
	GroupID          uuid.UUID
	Draws            []DrawResult
	TotalConsumed    ledger.Money
	RemainingBalance ledger.Money
}

type ReverseResult struct {
	EntryID  uuid.UUID
	GrantID  uuid.UUID
	Credited ledger.Money
}

type SweepResult struct {
	SweptGrantIDs  []uuid.UUID
	TotalForfeited ledger.Money
}

type LedgerCommands interface {
	// Consume draws amount from the customer's active grants, oldest first.
	// All-or-nothing: insufficient balance leaves the ledger untouched.
	Consume(ctx context.Context, customerDocument string, req reqdto.ConsumeCashbackRequest) (*ConsumeResult, error)
	// Reverse credits a consumption entry back to its grant, capped at the
	// grant's original amount. Each entry can be reversed once.
	Reverse(ctx context.Context, req reqdto.ReverseEntryRequest) (*ReverseResult, error)
	// SweepExpired forfeits the remaining balance of every expired grant
	// and records an expiry entry per write-off. Safe to run repeatedly.
	SweepExpired(ctx context.Context) (*SweepResult, error)
}

type ledgerUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewLedgerUseCase(uow shared.UnitOfWork, clock clock.Clock) LedgerCommands {
	return &ledgerUseCaseImpl{
		uow:   uow,
		clock: clock,
	}
}

func (l *ledgerUseCaseImpl) Consume(ctx context.Context, customerDocument string, req reqdto.ConsumeCashbackRequest) (*ConsumeResult, error) {
	customerID, err := ledger.NewCustomerID(customerDocument)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	amount, err := ledger.NewMoney(req.Amount)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	if !amount.IsPositive() {
		return nil, errs.Mark(ledger.ErrNonPositiveAmount, errs.ErrDomainValidation)
	}

	result := &ConsumeResult{GroupID: uuid.New(), TotalConsumed: amount}

	err = l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := l.clock.Now()

		grants, err := tx.Grants().LockActiveByCustomer(ctx, customerID, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		draws, err := ledger.PlanConsumption(grants, amount, now)
		if err != nil {
			if errors.Is(err, ledger.ErrInsufficientBalance) {
				return errs.Mark(err, errs.ErrInsufficientBalance)
			}
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		byID := make(map[uuid.UUID]*ledger.Grant, len(grants))
		for _, g := range grants {
			byID[g.ID()] = g
		}

		result.Draws = result.Draws[:0]
		for _, d := range draws {
			g := byID[d.GrantID]
			if err := g.Draw(d.Amount, now); err != nil {
				return errs.Mark(err, errs.ErrDomainValidation)
			}
			if err := tx.Grants().UpdateBalance(ctx, g.ID(), g.RemainingBalance()); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}

			entry, err := ledger.NewConsumptionEntry(g.ID(), d.Amount, req.AuthorizedBy, req.Reason, result.GroupID, now)
			if err != nil {
				return errs.Mark(err, errs.ErrDomainValidation)
			}
			if err := tx.Entries().Append(ctx, entry); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}

			result.Draws = append(result.Draws, DrawResult{
				GrantID: g.ID(),
				EntryID: entry.ID(),
				Amount:  d.Amount,
			})
		}

		result.RemainingBalance = ledger.AvailableBalance(grants, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *ledgerUseCaseImpl) Reverse(ctx context.Context, req reqdto.ReverseEntryRequest) (*ReverseResult, error) {
	result := &ReverseResult{}

	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := l.clock.Now()

		original, err := tx.Entries().FindByID(ctx, req.EntryID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrLedgerEntryNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		grant, err := tx.Grants().LockByID(ctx, original.GrantID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrGrantNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		credited := grant.CreditBack(original.Amount())
		reversal, err := ledger.NewReversalEntry(original, credited, req.Reason, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		if err := tx.Entries().Append(ctx, reversal); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, errs.ErrEntryAlreadyReversed)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Grants().UpdateBalance(ctx, grant.ID(), grant.RemainingBalance()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		result.EntryID = reversal.ID()
		result.GrantID = grant.ID()
		result.Credited = credited
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *ledgerUseCaseImpl) SweepExpired(ctx context.Context) (*SweepResult, error) {
	result := &SweepResult{TotalForfeited: ledger.ZeroMoney()}

	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := l.clock.Now()

		grants, err := tx.Grants().LockExpired(ctx, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		result.SweptGrantIDs = result.SweptGrantIDs[:0]
		result.TotalForfeited = ledger.ZeroMoney()
		for _, g := range grants {
			forfeited := g.Forfeit(now)
			if forfeited.IsZero() {
				continue
			}

			if err := tx.Grants().UpdateBalance(ctx, g.ID(), g.RemainingBalance()); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if err := tx.Entries().Append(ctx, ledger.NewExpiryEntry(g.ID(), forfeited, now)); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}

			result.SweptGrantIDs = append(result.SweptGrantIDs, g.ID())
			result.TotalForfeited = result.TotalForfeited.Add(forfeited)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
