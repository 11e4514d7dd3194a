package repository

import (
	"context"
	"time"

	"cashback-ledger/internal/domain/ledger"
	"cashback-ledger/internal/infra"
	"cashback-ledger/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const grantColumns = `id, customer_id, sale_id, original_amount::text, remaining_balance::text,
	granted_at, expires_at, created_at, updated_at`

type GrantRepository struct {
	db db.DBTX
}

func NewGrantRepository(dbtx db.DBTX) *GrantRepository {
	return &GrantRepository{db: dbtx}
}

func (r *GrantRepository) Create(ctx context.Context, g *ledger.Grant) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO cashback_grants
			(id, customer_id, sale_id, original_amount, remaining_balance, granted_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		g.ID(), g.CustomerID().String(), g.SaleID(),
		g.OriginalAmount().Decimal(), g.RemainingBalance().Decimal(),
		g.GrantedAt(), g.ExpiresAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("grant already exists for sale", err, infra.KindDuplicateKey)
		}
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("grant references missing sale", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create grant", err)
	}
	return nil
}

func (r *GrantRepository) LockActiveByCustomer(ctx context.Context, customerID ledger.CustomerID, asOf time.Time) ([]*ledger.Grant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+grantColumns+`
		FROM cashback_grants
		WHERE customer_id = $1
		  AND remaining_balance > 0
		  AND expires_at > $2
		ORDER BY granted_at, id
		FOR UPDATE`,
		customerID.String(), asOf,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock active grants", err)
	}
	defer rows.Close()

	return scanGrants(rows)
}

func (r *GrantRepository) LockByID(ctx context.Context, id uuid.UUID) (*ledger.Grant, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+grantColumns+`
		FROM cashback_grants
		WHERE id = $1
		FOR UPDATE`,
		id,
	)

	g, err := scanGrant(row)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("grant not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock grant", err)
	}
	return g, nil
}

func (r *GrantRepository) LockExpired(ctx context.Context, asOf time.Time) ([]*ledger.Grant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+grantColumns+`
		FROM cashback_grants
		WHERE expires_at <= $1
		  AND remaining_balance > 0
		ORDER BY expires_at, id
		FOR UPDATE`,
		asOf,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock expired grants", err)
	}
	defer rows.Close()

	return scanGrants(rows)
}

func (r *GrantRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance ledger.Money) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE cashback_grants
		SET remaining_balance = $2, updated_at = now()
		WHERE id = $1`,
		id, balance.Decimal(),
	)
	if err != nil {
		if isCheckViolation(err) {
			return infra.WrapRepoErr("grant balance out of range", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to update grant balance", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("grant not found", nil, infra.KindNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGrant(row rowScanner) (*ledger.Grant, error) {
	var (
		id, saleID                     uuid.UUID
		customerID                     string
		originalText, remainingText    string
		grantedAt, expiresAt           time.Time
		createdAt, updatedAt           time.Time
	)
	if err := row.Scan(&id, &customerID, &saleID, &originalText, &remainingText,
		&grantedAt, &expiresAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	original, err := moneyFromText(originalText)
	if err != nil {
		return nil, err
	}
	remaining, err := moneyFromText(remainingText)
	if err != nil {
		return nil, err
	}

	return ledger.ReconstructGrant(
		id, ledger.CustomerID(customerID), saleID,
		original, remaining,
		grantedAt, expiresAt, createdAt, updatedAt,
	), nil
}

func scanGrants(rows pgx.Rows) ([]*ledger.Grant, error) {
	var grants []*ledger.Grant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan grant row", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read grant rows", err)
	}
	return grants, nil
}
