package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ConsumeCashbackRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	AuthorizedBy string          `json:"authorized_by" binding:"required"`
	Reason       string          `json:"reason,omitempty"`
}

type ReverseEntryRequest struct {
	EntryID uuid.UUID `json:"entry_id" binding:"required"`
	Reason  string    `json:"reason" binding:"required"`
}
