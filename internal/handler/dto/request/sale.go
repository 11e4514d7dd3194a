package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterSaleRequest struct {
	CustomerName     string          `json:"customer_name" binding:"required"`
	CustomerDocument string          `json:"customer_document" binding:"required"`
	Model            string          `json:"model" binding:"required"`
	SaleAmount       decimal.Decimal `json:"sale_amount" binding:"required"`
	CashbackPercent  decimal.Decimal `json:"cashback_percent"`
	SoldAt           *time.Time      `json:"sold_at,omitempty"`
}

// SoldAtOrDefault falls back to the registration time when the sale date
// is omitted.
func (r RegisterSaleRequest) SoldAtOrDefault(now time.Time) time.Time {
	if r.SoldAt != nil {
		return *r.SoldAt
	}
	return now
}
