//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// BackdateGrant moves a grant's validity window into the past so expiry
// behavior can be exercised without waiting out the real window. Both
// timestamps move together to keep expires_at > granted_at.
func BackdateGrant(t *testing.T, db DBLike, grantID uuid.UUID, expiresAt time.Time) {
	t.Helper()

	ctx := context.Background()
	grantedAt := expiresAt.Add(-90 * 24 * time.Hour)
	tag, err := db.Exec(ctx,
		"UPDATE cashback_grants SET granted_at = $2, expires_at = $3 WHERE id = $1",
		grantID, grantedAt, expiresAt)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected(), "grant not found for backdating")
}

// CountLedgerEntries reports how many entries of the given type exist for a grant.
func CountLedgerEntries(t *testing.T, db DBLike, grantID uuid.UUID, entryType string) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM ledger_entries WHERE grant_id = $1 AND entry_type = $2",
		grantID, entryType).Scan(&count)
	require.NoError(t, err)
	return count
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between subtests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
