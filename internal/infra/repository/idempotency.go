package repository

import (
	"context"
	"time"

	"cashback-ledger/internal/infra"
	"cashback-ledger/internal/infra/db"
	"cashback-ledger/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: dbtx}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO idempotency_keys (key, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, 'processing', $4)`,
		key, endpoint, requestHash, expiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("idempotency key already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	row := r.db.QueryRow(ctx, `
		SELECT key, endpoint, request_hash, status, result_sale_id, expires_at
		FROM idempotency_keys
		WHERE key = $1`,
		key,
	)

	var rec shared.IdempotencyRecord
	err := row.Scan(&rec.Key, &rec.Endpoint, &rec.RequestHash, &rec.Status, &rec.ResultSaleID, &rec.ExpiresAt)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	return &rec, nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, key uuid.UUID, resultSaleID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE idempotency_keys
		SET status = 'completed', result_sale_id = $2, updated_at = now()
		WHERE key = $1`,
		key, resultSaleID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return nil
}
