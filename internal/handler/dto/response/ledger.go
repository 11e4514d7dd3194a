package response

import (
	"time"

	"cashback-ledger/internal/usecase/commands"
	"cashback-ledger/internal/usecase/queries"
)

type GrantResponse struct {
	ID               string    `json:"id"`
	SaleID           string    `json:"sale_id"`
	OriginalAmount   string    `json:"original_amount"`
	RemainingBalance string    `json:"remaining_balance"`
	Status           string    `json:"status"`
	GrantedAt        time.Time `json:"granted_at"`
	ExpiresAt        time.Time `json:"expires_at"`
}

type BalanceResponse struct {
	CustomerID       string           `json:"customer_id"`
	AvailableBalance string           `json:"available_balance"`
	Grants           []*GrantResponse `json:"grants"`
	AsOf             time.Time        `json:"as_of"`
}

func FromBalanceView(v *queries.BalanceView) *BalanceResponse {
	grants := make([]*GrantResponse, len(v.Grants))
	for i, g := range v.Grants {
		grants[i] = &GrantResponse{
			ID:               g.ID.String(),
			SaleID:           g.SaleID.String(),
			OriginalAmount:   g.OriginalAmount.StringFixed(2),
			RemainingBalance: g.RemainingBalance.StringFixed(2),
			Status:           g.Status,
			GrantedAt:        g.GrantedAt,
			ExpiresAt:        g.ExpiresAt,
		}
	}
	return &BalanceResponse{
		CustomerID:       v.CustomerID,
		AvailableBalance: v.AvailableBalance.StringFixed(2),
		Grants:           grants,
		AsOf:             v.AsOf,
	}
}

type DrawResponse struct {
	GrantID string `json:"grant_id"`
	EntryID string `json:"entry_id"`
	Amount  string `json:"amount"`
}

type ConsumeResponse struct {
	GroupID          string          `json:"group_id"`
	TotalConsumed    string          `json:"total_consumed"`
	RemainingBalance string          `json:"remaining_balance"`
	Draws            []*DrawResponse `json:"draws"`
}

func FromConsumeResult(r *commands.ConsumeResult) *ConsumeResponse {
	draws := make([]*DrawResponse, len(r.Draws))
	for i, d := range r.Draws {
		draws[i] = &DrawResponse{
			GrantID: d.GrantID.String(),
			EntryID: d.EntryID.String(),
			Amount:  d.Amount.String(),
		}
	}
	return &ConsumeResponse{
		GroupID:          r.GroupID.String(),
		TotalConsumed:    r.TotalConsumed.String(),
		RemainingBalance: r.RemainingBalance.String(),
		Draws:            draws,
	}
}

type ReverseResponse struct {
	EntryID  string `json:"entry_id"`
	GrantID  string `json:"grant_id"`
	Credited string `json:"credited"`
}

func FromReverseResult(r *commands.ReverseResult) *ReverseResponse {
	return &ReverseResponse{
		EntryID:  r.EntryID.String(),
		GrantID:  r.GrantID.String(),
		Credited: r.Credited.String(),
	}
}

type SweepResponse struct {
	SweptGrants    int      `json:"swept_grants"`
	SweptGrantIDs  []string `json:"swept_grant_ids"`
	TotalForfeited string   `json:"total_forfeited"`
}

func FromSweepResult(r *commands.SweepResult) *SweepResponse {
	ids := make([]string, len(r.SweptGrantIDs))
	for i, id := range r.SweptGrantIDs {
		ids[i] = id.String()
	}
	return &SweepResponse{
		SweptGrants:    len(ids),
		SweptGrantIDs:  ids,
		TotalForfeited: r.TotalForfeited.String(),
	}
}

type EntryResponse struct {
	ID              string    `json:"id"`
	GrantID         string    `json:"grant_id"`
	EntryType       string    `json:"entry_type"`
	Amount          string    `json:"amount"`
	AuthorizedBy    string    `json:"authorized_by"`
	Reason          string    `json:"reason,omitempty"`
	GroupID         string    `json:"group_id"`
	ReversesEntryID string    `json:"reverses_entry_id,omitempty"`
	RecordedAt      time.Time `json:"recorded_at"`
}

func FromEntryList(views []*queries.EntryView) []*EntryResponse {
	res := make([]*EntryResponse, len(views))
	for i, v := range views {
		e := &EntryResponse{
			ID:           v.ID.String(),
			GrantID:      v.GrantID.String(),
			EntryType:    v.EntryType,
			Amount:       v.Amount.StringFixed(2),
			AuthorizedBy: v.AuthorizedBy,
			Reason:       v.Reason,
			GroupID:      v.GroupID.String(),
			RecordedAt:   v.RecordedAt,
		}
		if v.ReversesEntryID != nil {
			e.ReversesEntryID = v.ReversesEntryID.String()
		}
		res[i] = e
	}
	return res
}

type ExpiringGrantResponse struct {
	GrantID          string    `json:"grant_id"`
	CustomerID       string    `json:"customer_id"`
	CustomerName     string    `json:"customer_name"`
	RemainingBalance string    `json:"remaining_balance"`
	ExpiresAt        time.Time `json:"expires_at"`
}

func FromExpiringGrantList(views []*queries.ExpiringGrantView) []*ExpiringGrantResponse {
	res := make([]*ExpiringGrantResponse, len(views))
	for i, v := range views {
		res[i] = &ExpiringGrantResponse{
			GrantID:          v.GrantID.String(),
			CustomerID:       v.CustomerID,
			CustomerName:     v.CustomerName,
			RemainingBalance: v.RemainingBalance.StringFixed(2),
			ExpiresAt:        v.ExpiresAt,
		}
	}
	return res
}
