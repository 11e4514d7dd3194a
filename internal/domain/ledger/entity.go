package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGrantExpired    = errors.New("grant has expired")
	ErrExceedsBalance  = errors.New("draw exceeds remaining balance")
	ErrNotConsumption  = errors.New("only consumption entries can be reversed")
)

// Status is derived from balance and expiry, never stored.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusConsumed Status = "CONSUMED"
	StatusExpired  Status = "EXPIRED"
)

// EntryType classifies append-only ledger entries.
type EntryType string

const (
	EntryConsumption EntryType = "consumption"
	EntryReversal    EntryType = "reversal"
	EntryExpiry      EntryType = "expiry"
)

// Grant is one accrued cashback amount tied to a sale, with its own expiry.
// The remaining balance only moves down through Draw or the expiry sweep,
// and back up through CreditBack, capped at the original amount.
type Grant struct {
	id               uuid.UUID
	customerID       CustomerID
	saleID           uuid.UUID
	originalAmount   Money
	remainingBalance Money
	grantedAt        time.Time
	expiresAt        time.Time
	createdAt        time.Time
	updatedAt        time.Time
}

// NewGrant accrues cashback for a sale: amount = saleAmount * percentage / 100.
// A zero-percentage sale still yields a (zero-value) grant so every sale has
// exactly one grant row.
func NewGrant(
	customerID CustomerID,
	saleID uuid.UUID,
	saleAmount Money,
	percentage Percentage,
	grantedAt time.Time,
	validity time.Duration,
) (*Grant, error) {
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}

	amount := percentage.Of(saleAmount)
	return &Grant{
		id:               uuid.New(),
		customerID:       customerID,
		saleID:           saleID,
		originalAmount:   amount,
		remainingBalance: amount,
		grantedAt:        grantedAt,
		expiresAt:        grantedAt.Add(validity),
	}, nil
}

func ReconstructGrant(
	id uuid.UUID,
	customerID CustomerID,
	saleID uuid.UUID,
	originalAmount, remainingBalance Money,
	grantedAt, expiresAt, createdAt, updatedAt time.Time,
) *Grant {
	return &Grant{
		id:               id,
		customerID:       customerID,
		saleID:           saleID,
		originalAmount:   originalAmount,
		remainingBalance: remainingBalance,
		grantedAt:        grantedAt,
		expiresAt:        expiresAt,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (g *Grant) IsExpired(asOf time.Time) bool {
	return !asOf.Before(g.expiresAt)
}

// Drawable reports whether the grant may serve as a consumption source.
// Expiry is always evaluated live against asOf, even if a sweep has not
// zeroed the stored balance yet.
func (g *Grant) Drawable(asOf time.Time) bool {
	return g.remainingBalance.IsPositive() && !g.IsExpired(asOf)
}

func (g *Grant) Status(asOf time.Time) Status {
	switch {
	case g.remainingBalance.IsPositive() && !g.IsExpired(asOf):
		return StatusActive
	case g.remainingBalance.IsZero():
		return StatusConsumed
	default:
		return StatusExpired
	}
}

// Draw decrements the remaining balance by amount.
func (g *Grant) Draw(amount Money, asOf time.Time) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if g.IsExpired(asOf) {
		return ErrGrantExpired
	}
	if amount.GreaterThan(g.remainingBalance) {
		return ErrExceedsBalance
	}
	g.remainingBalance = g.remainingBalance.Sub(amount)
	return nil
}

// CreditBack restores balance from a reversal, capped so the remaining
// balance never exceeds the original amount. Returns the amount actually
// credited. Crediting an expired grant is allowed but the balance stays
// unusable because every read path filters on expiry.
func (g *Grant) CreditBack(amount Money) Money {
	headroom := g.originalAmount.Sub(g.remainingBalance)
	credited := amount.Min(headroom)
	g.remainingBalance = g.remainingBalance.Add(credited)
	return credited
}

// Forfeit zeroes the balance of an expired grant and returns the amount
// written off. Zero when there was nothing left, which is what makes the
// sweep idempotent.
func (g *Grant) Forfeit(asOf time.Time) Money {
	if !g.IsExpired(asOf) || g.remainingBalance.IsZero() {
		return ZeroMoney()
	}
	forfeited := g.remainingBalance
	g.remainingBalance = ZeroMoney()
	return forfeited
}

func (g *Grant) ID() uuid.UUID           { return g.id }
func (g *Grant) CustomerID() CustomerID  { return g.customerID }
func (g *Grant) SaleID() uuid.UUID       { return g.saleID }
func (g *Grant) OriginalAmount() Money   { return g.originalAmount }
func (g *Grant) RemainingBalance() Money { return g.remainingBalance }
func (g *Grant) GrantedAt() time.Time    { return g.grantedAt }
func (g *Grant) ExpiresAt() time.Time    { return g.expiresAt }
func (g *Grant) CreatedAt() time.Time    { return g.createdAt }
func (g *Grant) UpdatedAt() time.Time    { return g.updatedAt }

// Entry is one immutable ledger record: a draw against a grant, a reversal
// crediting one back, or a sweep write-off. Corrections append new entries,
// they never rewrite existing ones.
type Entry struct {
	id              uuid.UUID
	grantID         uuid.UUID
	entryType       EntryType
	amount          Money
	authorizedBy    string
	reason          string
	groupID         uuid.UUID
	reversesEntryID *uuid.UUID
	recordedAt      time.Time
	createdAt       time.Time
}

func NewConsumptionEntry(grantID uuid.UUID, amount Money, authorizedBy, reason string, groupID uuid.UUID, recordedAt time.Time) (*Entry, error) {
	if authorizedBy == "" {
		return nil, ErrEmptyAuthorization
	}
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	return &Entry{
		id:           uuid.New(),
		grantID:      grantID,
		entryType:    EntryConsumption,
		amount:       amount,
		authorizedBy: authorizedBy,
		reason:       reason,
		groupID:      groupID,
		recordedAt:   recordedAt,
	}, nil
}

func NewReversalEntry(original *Entry, credited Money, reason string, recordedAt time.Time) (*Entry, error) {
	if original.entryType != EntryConsumption {
		return nil, ErrNotConsumption
	}
	originalID := original.id
	return &Entry{
		id:              uuid.New(),
		grantID:         original.grantID,
		entryType:       EntryReversal,
		amount:          credited,
		authorizedBy:    original.authorizedBy,
		reason:          reason,
		groupID:         uuid.New(),
		reversesEntryID: &originalID,
		recordedAt:      recordedAt,
	}, nil
}

// NewExpiryEntry records the amount a sweep wrote off, for audit.
func NewExpiryEntry(grantID uuid.UUID, forfeited Money, recordedAt time.Time) *Entry {
	return &Entry{
		id:           uuid.New(),
		grantID:      grantID,
		entryType:    EntryExpiry,
		amount:       forfeited,
		authorizedBy: "system",
		reason:       "grant expired",
		groupID:      uuid.New(),
		recordedAt:   recordedAt,
	}
}

func ReconstructEntry(
	id, grantID uuid.UUID,
	entryType EntryType,
	amount Money,
	authorizedBy, reason string,
	groupID uuid.UUID,
	reversesEntryID *uuid.UUID,
	recordedAt, createdAt time.Time,
) *Entry {
	return &Entry{
		id:              id,
		grantID:         grantID,
		entryType:       entryType,
		amount:          amount,
		authorizedBy:    authorizedBy,
		reason:          reason,
		groupID:         groupID,
		reversesEntryID: reversesEntryID,
		recordedAt:      recordedAt,
		createdAt:       createdAt,
	}
}

func (e *Entry) ID() uuid.UUID               { return e.id }
func (e *Entry) GrantID() uuid.UUID          { return e.grantID }
func (e *Entry) Type() EntryType             { return e.entryType }
func (e *Entry) Amount() Money               { return e.amount }
func (e *Entry) AuthorizedBy() string        { return e.authorizedBy }
func (e *Entry) Reason() string              { return e.reason }
func (e *Entry) GroupID() uuid.UUID          { return e.groupID }
func (e *Entry) ReversesEntryID() *uuid.UUID { return e.reversesEntryID }
func (e *Entry) RecordedAt() time.Time       { return e.recordedAt }
func (e *Entry) CreatedAt() time.Time        { return e.createdAt }
