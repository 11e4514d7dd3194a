package queries

import (
	"context"
	"strings"

	"cashback-ledger/internal/infra"
	"cashback-ledger/internal/pkg/cpf"
	"cashback-ledger/internal/pkg/errs"

	"github.com/google/uuid"
)

type SaleQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SaleView, error)
	// SearchByCustomer accepts a CPF (with or without punctuation) or a
	// partial customer name, case-insensitive.
	SearchByCustomer(ctx context.Context, query string) ([]*SaleView, error)
	Summary(ctx context.Context) (*SummaryView, error)
	SalesByModel(ctx context.Context) ([]*ModelSalesView, error)
}

type SaleViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SaleView, error)
	FindByCustomerDocument(ctx context.Context, document string) ([]*SaleView, error)
	FindByCustomerName(ctx context.Context, name string) ([]*SaleView, error)
	Summary(ctx context.Context) (*SummaryView, error)
	SalesByModel(ctx context.Context) ([]*ModelSalesView, error)
}

type saleQueriesImpl struct {
	repo SaleViewRepo
}

func NewSaleQueries(repo SaleViewRepo) SaleQueries {
	return &saleQueriesImpl{repo: repo}
}

func (q *saleQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*SaleView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrSaleNotFound)
		}
		return nil, err
	}
	return view, nil
}

func (q *saleQueriesImpl) SearchByCustomer(ctx context.Context, query string) ([]*SaleView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errs.Mark(errs.New("search query is required"), errs.ErrDomainValidation)
	}

	if document, err := cpf.Normalize(query); err == nil {
		return q.repo.FindByCustomerDocument(ctx, document)
	}
	return q.repo.FindByCustomerName(ctx, query)
}

func (q *saleQueriesImpl) Summary(ctx context.Context) (*SummaryView, error) {
	return q.repo.Summary(ctx)
}

func (q *saleQueriesImpl) SalesByModel(ctx context.Context) ([]*ModelSalesView, error) {
	return q.repo.SalesByModel(ctx)
}
