package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models (DTO for read side)
type GrantView struct {
	ID               uuid.UUID       `json:"id"`
	SaleID           uuid.UUID       `json:"sale_id"`
	OriginalAmount   decimal.Decimal `json:"original_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           string          `json:"status"`
	GrantedAt        time.Time       `json:"granted_at"`
	ExpiresAt        time.Time       `json:"expires_at"`
}

type BalanceView struct {
	CustomerID       string          `json:"customer_id"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	Grants           []*GrantView    `json:"grants"`
	AsOf             time.Time       `json:"as_of"`
}

type EntryView struct {
	ID              uuid.UUID       `json:"id"`
	GrantID         uuid.UUID       `json:"grant_id"`
	EntryType       string          `json:"entry_type"`
	Amount          decimal.Decimal `json:"amount"`
	AuthorizedBy    string          `json:"authorized_by"`
	Reason          string          `json:"reason,omitempty"`
	GroupID         uuid.UUID       `json:"group_id"`
	ReversesEntryID *uuid.UUID      `json:"reverses_entry_id,omitempty"`
	RecordedAt      time.Time       `json:"recorded_at"`
}

type ExpiringGrantView struct {
	GrantID          uuid.UUID       `json:"grant_id"`
	CustomerID       string          `json:"customer_id"`
	CustomerName     string          `json:"customer_name"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	ExpiresAt        time.Time       `json:"expires_at"`
}

type SaleView struct {
	ID               uuid.UUID       `json:"id"`
	CustomerName     string          `json:"customer_name"`
	CustomerDocument string          `json:"customer_document"`
	Model            string          `json:"model"`
	SaleAmount       decimal.Decimal `json:"sale_amount"`
	CashbackPercent  decimal.Decimal `json:"cashback_percent"`
	CashbackAmount   decimal.Decimal `json:"cashback_amount"`
	SoldAt           time.Time       `json:"sold_at"`
	CreatedAt        time.Time       `json:"created_at"`
}

type SummaryView struct {
	TotalSales      int64           `json:"total_sales"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalCashback   decimal.Decimal `json:"total_cashback"`
	AveragePercent  decimal.Decimal `json:"average_percent"`
}

type ModelSalesView struct {
	Model      string          `json:"model"`
	SalesCount int64           `json:"sales_count"`
	TotalValue decimal.Decimal `json:"total_value"`
}
