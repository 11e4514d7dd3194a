package readstore

import (
	"context"
	"time"

	"cashback-ledger/internal/infra"
	"cashback-ledger/internal/infra/db"
	"cashback-ledger/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LedgerReadStore struct {
	db db.DBTX
}

func NewLedgerReadStore(dbtx db.DBTX) *LedgerReadStore {
	return &LedgerReadStore{db: dbtx}
}

func (r *LedgerReadStore) GrantsByCustomer(ctx context.Context, customerID string, asOf time.Time) ([]*queries.GrantView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, sale_id, original_amount::text, remaining_balance::text,
		       CASE
		           WHEN remaining_balance > 0 AND expires_at > $2 THEN 'ACTIVE'
		           WHEN remaining_balance = 0 THEN 'CONSUMED'
		           ELSE 'EXPIRED'
		       END AS status,
		       granted_at, expires_at
		FROM cashback_grants
		WHERE customer_id = $1
		ORDER BY granted_at, id`,
		customerID, asOf,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find grants by customer", err)
	}
	defer rows.Close()

	views := []*queries.GrantView{}
	for rows.Next() {
		var (
			v                           queries.GrantView
			originalText, remainingText string
		)
		if err := rows.Scan(&v.ID, &v.SaleID, &originalText, &remainingText,
			&v.Status, &v.GrantedAt, &v.ExpiresAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan grant view", err)
		}
		if v.OriginalAmount, err = decimal.NewFromString(originalText); err != nil {
			return nil, infra.WrapRepoErr("failed to parse grant amount", err)
		}
		if v.RemainingBalance, err = decimal.NewFromString(remainingText); err != nil {
			return nil, infra.WrapRepoErr("failed to parse grant balance", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read grant views", err)
	}
	return views, nil
}

func (r *LedgerReadStore) EntriesByGrant(ctx context.Context, grantID uuid.UUID) ([]*queries.EntryView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, grant_id, entry_type, amount::text, authorized_by, reason,
		       group_id, reverses_entry_id, recorded_at
		FROM ledger_entries
		WHERE grant_id = $1
		ORDER BY recorded_at, created_at`,
		grantID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find entries by grant", err)
	}
	defer rows.Close()

	views := []*queries.EntryView{}
	for rows.Next() {
		var (
			v          queries.EntryView
			amountText string
		)
		if err := rows.Scan(&v.ID, &v.GrantID, &v.EntryType, &amountText, &v.AuthorizedBy,
			&v.Reason, &v.GroupID, &v.ReversesEntryID, &v.RecordedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan entry view", err)
		}
		if v.Amount, err = decimal.NewFromString(amountText); err != nil {
			return nil, infra.WrapRepoErr("failed to parse entry amount", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read entry views", err)
	}
	return views, nil
}

func (r *LedgerReadStore) GrantExists(ctx context.Context, grantID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM cashback_grants WHERE id = $1)`, grantID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check grant existence", err)
	}
	return exists, nil
}

func (r *LedgerReadStore) ExpiringBetween(ctx context.Context, from, to time.Time) ([]*queries.ExpiringGrantView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT g.id, g.customer_id, s.customer_name, g.remaining_balance::text, g.expires_at
		FROM cashback_grants g
		JOIN sales s ON s.id = g.sale_id
		WHERE g.remaining_balance > 0
		  AND g.expires_at > $1
		  AND g.expires_at <= $2
		ORDER BY g.expires_at, g.id`,
		from, to,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find expiring grants", err)
	}
	defer rows.Close()

	views := []*queries.ExpiringGrantView{}
	for rows.Next() {
		var (
			v           queries.ExpiringGrantView
			balanceText string
		)
		if err := rows.Scan(&v.GrantID, &v.CustomerID, &v.CustomerName, &balanceText, &v.ExpiresAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan expiring grant view", err)
		}
		if v.RemainingBalance, err = decimal.NewFromString(balanceText); err != nil {
			return nil, infra.WrapRepoErr("failed to parse expiring balance", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read expiring grant views", err)
	}
	return views, nil
}
