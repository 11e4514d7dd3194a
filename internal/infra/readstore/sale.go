package readstore

import (
	"context"
	"errors"

	"cashback-ledger/internal/infra"
	"cashback-ledger/internal/infra/db"
	"cashback-ledger/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const saleViewColumns = `id, customer_name, customer_document, model,
	sale_amount::text, cashback_percent::text,
	(sale_amount * cashback_percent / 100)::numeric(14,2)::text AS cashback_amount,
	sold_at, created_at`

type SaleReadStore struct {
	db db.DBTX
}

func NewSaleReadStore(dbtx db.DBTX) *SaleReadStore {
	return &SaleReadStore{db: dbtx}
}

func (r *SaleReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.SaleView, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+saleViewColumns+` FROM sales WHERE id = $1`, id)

	view, err := scanSaleView(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("sale not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find sale by ID", err)
	}
	return view, nil
}

func (r *SaleReadStore) FindByCustomerDocument(ctx context.Context, document string) ([]*queries.SaleView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+saleViewColumns+` FROM sales WHERE customer_document = $1 ORDER BY sold_at DESC, created_at DESC`,
		document)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find sales by document", err)
	}
	defer rows.Close()

	return collectSaleViews(rows)
}

func (r *SaleReadStore) FindByCustomerName(ctx context.Context, name string) ([]*queries.SaleView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+saleViewColumns+` FROM sales WHERE lower(customer_name) LIKE lower('%' || $1 || '%') ORDER BY sold_at DESC, created_at DESC`,
		name)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find sales by name", err)
	}
	defer rows.Close()

	return collectSaleViews(rows)
}

func (r *SaleReadStore) Summary(ctx context.Context) (*queries.SummaryView, error) {
	row := r.db.QueryRow(ctx, `
		SELECT count(*),
		       COALESCE(sum(sale_amount), 0)::text,
		       COALESCE(sum((sale_amount * cashback_percent / 100)::numeric(14,2)), 0)::text,
		       COALESCE(avg(cashback_percent), 0)::numeric(5,2)::text
		FROM sales`)

	var (
		view                                 queries.SummaryView
		valueText, cashbackText, percentText string
	)
	if err := row.Scan(&view.TotalSales, &valueText, &cashbackText, &percentText); err != nil {
		return nil, infra.WrapRepoErr("failed to load sales summary", err)
	}

	var err error
	if view.TotalValue, err = decimal.NewFromString(valueText); err != nil {
		return nil, infra.WrapRepoErr("failed to parse summary value", err)
	}
	if view.TotalCashback, err = decimal.NewFromString(cashbackText); err != nil {
		return nil, infra.WrapRepoErr("failed to parse summary cashback", err)
	}
	if view.AveragePercent, err = decimal.NewFromString(percentText); err != nil {
		return nil, infra.WrapRepoErr("failed to parse summary percent", err)
	}
	return &view, nil
}

func (r *SaleReadStore) SalesByModel(ctx context.Context) ([]*queries.ModelSalesView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT model, count(*), COALESCE(sum(sale_amount), 0)::text
		FROM sales
		GROUP BY model
		ORDER BY count(*) DESC, model`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load sales by model", err)
	}
	defer rows.Close()

	views := []*queries.ModelSalesView{}
	for rows.Next() {
		var (
			v         queries.ModelSalesView
			valueText string
		)
		if err := rows.Scan(&v.Model, &v.SalesCount, &valueText); err != nil {
			return nil, infra.WrapRepoErr("failed to scan model sales view", err)
		}
		if v.TotalValue, err = decimal.NewFromString(valueText); err != nil {
			return nil, infra.WrapRepoErr("failed to parse model sales value", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read model sales views", err)
	}
	return views, nil
}

func scanSaleView(scan func(dest ...any) error) (*queries.SaleView, error) {
	var (
		v                                   queries.SaleView
		amountText, percentText, cashbackText string
	)
	if err := scan(&v.ID, &v.CustomerName, &v.CustomerDocument, &v.Model,
		&amountText, &percentText, &cashbackText, &v.SoldAt, &v.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if v.SaleAmount, err = decimal.NewFromString(amountText); err != nil {
		return nil, err
	}
	if v.CashbackPercent, err = decimal.NewFromString(percentText); err != nil {
		return nil, err
	}
	if v.CashbackAmount, err = decimal.NewFromString(cashbackText); err != nil {
		return nil, err
	}
	return &v, nil
}

func collectSaleViews(rows pgx.Rows) ([]*queries.SaleView, error) {
	views := []*queries.SaleView{}
	for rows.Next() {
		v, err := scanSaleView(rows.Scan)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan sale view", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read sale views", err)
	}
	return views, nil
}
