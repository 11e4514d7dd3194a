package repository

import (
	"context"

	"cashback-ledger/internal/domain/sale"
	"cashback-ledger/internal/infra"
	"cashback-ledger/internal/infra/db"
)

type SaleRepository struct {
	db db.DBTX
}

func NewSaleRepository(dbtx db.DBTX) *SaleRepository {
	return &SaleRepository{db: dbtx}
}

func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sales
			(id, customer_name, customer_document, model, sale_amount, cashback_percent, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID(), s.CustomerName(), s.CustomerID().String(), s.Model(),
		s.SaleAmount().Decimal(), s.CashbackPercent().Decimal(), s.SoldAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("sale already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create sale", err)
	}
	return nil
}
