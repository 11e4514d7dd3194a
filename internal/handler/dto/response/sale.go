package response

import (
	"time"

	"cashback-ledger/internal/usecase/commands"
	"cashback-ledger/internal/usecase/queries"
)

type SaleResponse struct {
	ID               string    `json:"id"`
	CustomerName     string    `json:"customer_name"`
	CustomerDocument string    `json:"customer_document"`
	Model            string    `json:"model"`
	SaleAmount       string    `json:"sale_amount"`
	CashbackPercent  string    `json:"cashback_percent"`
	CashbackAmount   string    `json:"cashback_amount"`
	SoldAt           time.Time `json:"sold_at"`
	CreatedAt        time.Time `json:"created_at"`
}

func FromSaleView(v *queries.SaleView) *SaleResponse {
	return &SaleResponse{
		ID:               v.ID.String(),
		CustomerName:     v.CustomerName,
		CustomerDocument: v.CustomerDocument,
		Model:            v.Model,
		SaleAmount:       v.SaleAmount.StringFixed(2),
		CashbackPercent:  v.CashbackPercent.String(),
		CashbackAmount:   v.CashbackAmount.StringFixed(2),
		SoldAt:           v.SoldAt,
		CreatedAt:        v.CreatedAt,
	}
}

func FromSaleList(views []*queries.SaleView) []*SaleResponse {
	res := make([]*SaleResponse, len(views))
	for i, v := range views {
		res[i] = FromSaleView(v)
	}
	return res
}

type RegisterSaleResponse struct {
	Sale     *SaleResponse `json:"sale"`
	GrantID  string        `json:"grant_id,omitempty"`
	Replayed bool          `json:"replayed"`
}

func FromRegisterSaleResult(r *commands.RegisterSaleResult) *RegisterSaleResponse {
	resp := &RegisterSaleResponse{
		Sale:     FromSaleView(r.Sale),
		Replayed: r.IsReplayed,
	}
	if !r.IsReplayed {
		resp.GrantID = r.GrantID.String()
	}
	return resp
}

type SummaryResponse struct {
	TotalSales     int64  `json:"total_sales"`
	TotalValue     string `json:"total_value"`
	TotalCashback  string `json:"total_cashback"`
	AveragePercent string `json:"average_percent"`
}

func FromSummaryView(v *queries.SummaryView) *SummaryResponse {
	return &SummaryResponse{
		TotalSales:     v.TotalSales,
		TotalValue:     v.TotalValue.StringFixed(2),
		TotalCashback:  v.TotalCashback.StringFixed(2),
		AveragePercent: v.AveragePercent.String(),
	}
}

type ModelSalesResponse struct {
	Model      string `json:"model"`
	SalesCount int64  `json:"sales_count"`
	TotalValue string `json:"total_value"`
}

func FromModelSalesList(views []*queries.ModelSalesView) []*ModelSalesResponse {
	res := make([]*ModelSalesResponse, len(views))
	for i, v := range views {
		res[i] = &ModelSalesResponse{
			Model:      v.Model,
			SalesCount: v.SalesCount,
			TotalValue: v.TotalValue.StringFixed(2),
		}
	}
	return res
}
