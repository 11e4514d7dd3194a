package shared

import (
	"context"
	"time"

	"cashback-ledger/internal/domain/ledger"
	"cashback-ledger/internal/domain/sale"
	"cashback-ledger/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Grants() GrantRepository
	Entries() LedgerEntryRepository
	Sales() SaleRepository
	Idempotency() IdempotencyRepository
	DB() db.DBTX
}

type GrantRepository interface {
	Create(ctx context.Context, g *ledger.Grant) error
	// LockActiveByCustomer locks the customer's drawable grants FOR UPDATE,
	// oldest granted_at first. The row locks are what serialize concurrent
	// consumptions against one customer's balance.
	LockActiveByCustomer(ctx context.Context, customerID ledger.CustomerID, asOf time.Time) ([]*ledger.Grant, error)
	LockByID(ctx context.Context, id uuid.UUID) (*ledger.Grant, error)
	// LockExpired locks grants past expiry that still carry balance.
	LockExpired(ctx context.Context, asOf time.Time) ([]*ledger.Grant, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance ledger.Money) error
}

type LedgerEntryRepository interface {
	Append(ctx context.Context, e *ledger.Entry) error
	FindByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error)
}

type SaleRepository interface {
	Create(ctx context.Context, s *sale.Sale) error
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) error
	Get(ctx context.Context, key uuid.UUID) (*IdempotencyRecord, error)
	UpdateStatusCompleted(ctx context.Context, key uuid.UUID, resultSaleID uuid.UUID) error
}

type IdempotencyRecord struct {
	Key          uuid.UUID
	Endpoint     string
	RequestHash  string
	Status       string
	ResultSaleID *uuid.UUID
	ExpiresAt    time.Time
}
