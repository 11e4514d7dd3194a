package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"cashback-ledger/internal/domain/ledger"
	"cashback-ledger/internal/domain/sale"
	reqdto "cashback-ledger/internal/handler/dto/request"
	"cashback-ledger/internal/infra"
	"cashback-ledger/internal/pkg/clock"
	"cashback-ledger/internal/pkg/config"
	"cashback-ledger/internal/pkg/errs"
	"cashback-ledger/internal/usecase/queries"
	"cashback-ledger/internal/usecase/shared"

	"github.com/google/uuid"
)

const registerSaleEndpoint = "POST /api/sales"

type RegisterSaleResult struct {
	Sale       *queries.SaleView
	GrantID    uuid.UUID
	IsReplayed bool
}

type SaleCommands interface {
	// RegisterSale persists the sale and accrues its cashback grant in one
	// transaction. Replaying the same Idempotency-Key returns the original
	// sale instead of creating a second grant.
	RegisterSale(ctx context.Context, req reqdto.RegisterSaleRequest, idempotencyKey uuid.UUID) (*RegisterSaleResult, error)
}

type saleUseCaseImpl struct {
	uow         shared.UnitOfWork
	saleQueries queries.SaleQueries
	clock       clock.Clock
	ledgerCfg   config.LedgerConfig
}

func NewSaleUseCase(
	uow shared.UnitOfWork,
	saleQueries queries.SaleQueries,
	clock clock.Clock,
	ledgerCfg config.LedgerConfig,
) SaleCommands {
	return &saleUseCaseImpl{
		uow:         uow,
		saleQueries: saleQueries,
		clock:       clock,
		ledgerCfg:   ledgerCfg,
	}
}

func (s *saleUseCaseImpl) RegisterSale(ctx context.Context, req reqdto.RegisterSaleRequest, idempotencyKey uuid.UUID) (*RegisterSaleResult, error) {
	if idempotencyKey == uuid.Nil {
		return nil, errs.ErrIdempotencyKeyRequired
	}

	requestHash := calculateRequestHash(req)

	var (
		saleID     uuid.UUID
		grantID    uuid.UUID
		isReplayed bool
	)

	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := s.clock.Now()

		replayID, err := s.claimIdempotencyKey(ctx, tx, idempotencyKey, requestHash, now)
		if err != nil {
			return err
		}
		if replayID != nil {
			saleID = *replayID
			isReplayed = true
			return nil
		}

		saleEntity, err := s.buildSale(req, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		if err := tx.Sales().Create(ctx, saleEntity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		grant, err := ledger.NewGrant(
			saleEntity.CustomerID(),
			saleEntity.ID(),
			saleEntity.SaleAmount(),
			saleEntity.CashbackPercent(),
			saleEntity.SoldAt(),
			s.ledgerCfg.ValidityWindow(),
		)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		if err := tx.Grants().Create(ctx, grant); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := tx.Idempotency().UpdateStatusCompleted(ctx, idempotencyKey, saleEntity.ID()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		saleID = saleEntity.ID()
		grantID = grant.ID()
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Read-after-write through the read store so the response matches
	// what later queries will return.
	saleView, err := s.saleQueries.GetByID(ctx, saleID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return &RegisterSaleResult{
		Sale:       saleView,
		GrantID:    grantID,
		IsReplayed: isReplayed,
	}, nil
}

// claimIdempotencyKey inserts the key as processing. A duplicate key either
// replays the completed sale (non-nil result), rejects a payload mismatch,
// or reports an in-flight request.
func (s *saleUseCaseImpl) claimIdempotencyKey(ctx context.Context, tx shared.Tx, key uuid.UUID, requestHash string, now time.Time) (*uuid.UUID, error) {
	err := tx.Idempotency().TryInsert(ctx, key, registerSaleEndpoint, requestHash, now.Add(24*time.Hour))
	if err == nil {
		return nil, nil
	}
	if !infra.IsKind(err, infra.KindDuplicateKey) {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}

	existing, err := tx.Idempotency().Get(ctx, key)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}

	switch existing.Status {
	case "completed":
		if existing.ResultSaleID == nil {
			return nil, errs.Mark(errs.New("completed request missing result sale ID"), errs.ErrIdempotencyCheckFailed)
		}
		return existing.ResultSaleID, nil

	case "processing":
		if existing.RequestHash != requestHash {
			return nil, errs.Mark(errs.New("idempotency key reused with different payload"), errs.ErrIdempotencyCheckFailed)
		}
		return nil, errs.ErrIdempotencyInProgress

	default:
		return nil, errs.Mark(errs.New("invalid idempotency key status"), errs.ErrIdempotencyCheckFailed)
	}
}

func (s *saleUseCaseImpl) buildSale(req reqdto.RegisterSaleRequest, now time.Time) (*sale.Sale, error) {
	saleAmount, err := ledger.NewMoney(req.SaleAmount)
	if err != nil {
		return nil, err
	}
	if !saleAmount.IsPositive() {
		return nil, ledger.ErrNonPositiveAmount
	}

	percent, err := ledger.NewPercentage(req.CashbackPercent)
	if err != nil {
		return nil, err
	}

	return sale.NewSale(
		req.CustomerName,
		req.CustomerDocument,
		req.Model,
		saleAmount,
		percent,
		req.SoldAtOrDefault(now),
	)
}

func calculateRequestHash(req reqdto.RegisterSaleRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
