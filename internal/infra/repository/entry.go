package repository

import (
	"context"
	"time"

	"cashback-ledger/internal/domain/ledger"
	"cashback-ledger/internal/infra"
	"cashback-ledger/internal/infra/db"

	"github.com/google/uuid"
)

type LedgerEntryRepository struct {
	db db.DBTX
}

func NewLedgerEntryRepository(dbtx db.DBTX) *LedgerEntryRepository {
	return &LedgerEntryRepository{db: dbtx}
}

func (r *LedgerEntryRepository) Append(ctx context.Context, e *ledger.Entry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ledger_entries
			(id, grant_id, entry_type, amount, authorized_by, reason, group_id, reverses_entry_id, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID(), e.GrantID(), string(e.Type()), e.Amount().Decimal(),
		e.AuthorizedBy(), e.Reason(), e.GroupID(), e.ReversesEntryID(), e.RecordedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("entry already reversed", err, infra.KindDuplicateKey)
		}
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("entry references missing grant", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to append ledger entry", err)
	}
	return nil
}

func (r *LedgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, grant_id, entry_type, amount::text, authorized_by, reason,
		       group_id, reverses_entry_id, recorded_at, created_at
		FROM ledger_entries
		WHERE id = $1`,
		id,
	)

	var (
		entryID, grantID, groupID uuid.UUID
		entryType                 string
		amountText                string
		authorizedBy, reason      string
		reversesEntryID           *uuid.UUID
		recordedAt, createdAt     time.Time
	)
	err := row.Scan(&entryID, &grantID, &entryType, &amountText, &authorizedBy, &reason,
		&groupID, &reversesEntryID, &recordedAt, &createdAt)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("ledger entry not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find ledger entry", err)
	}

	amount, err := moneyFromText(amountText)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to parse entry amount", err)
	}

	return ledger.ReconstructEntry(
		entryID, grantID, ledger.EntryType(entryType), amount,
		authorizedBy, reason, groupID, reversesEntryID, recordedAt, createdAt,
	), nil
}
