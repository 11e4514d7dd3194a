package sale

import (
	"errors"
	"strings"
	"time"

	"cashback-ledger/internal/domain/ledger"

	"github.com/google/uuid"
)

var (
	ErrEmptyCustomerName = errors.New("customer name is required")
	ErrUnknownModel      = errors.New("unknown car model")
	ErrInvalidTier       = errors.New("cashback percentage is not an allowed tier")
)

// Models sold by the dealership.
var Models = []string{"Onix", "Onix Plus", "Tracker", "Spin", "Montana", "S10", "Blazer"}

// CashbackTiers are the percentages the sales desk may grant. The ledger
// itself accepts any percentage in range; the tier set is a sales policy.
var CashbackTiers = []int{0, 5, 10, 15, 20}

// Sale records one car sale. Registering a sale accrues exactly one cashback
// grant; the grant keeps its own lifecycle and never rewrites the sale value.
type Sale struct {
	id              uuid.UUID
	customerName    string
	customerID      ledger.CustomerID
	model           string
	saleAmount      ledger.Money
	cashbackPercent ledger.Percentage
	soldAt          time.Time
	createdAt       time.Time
}

func NewSale(
	customerName, customerDocument, model string,
	saleAmount ledger.Money,
	cashbackPercent ledger.Percentage,
	soldAt time.Time,
) (*Sale, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, ErrEmptyCustomerName
	}

	customerID, err := ledger.NewCustomerID(customerDocument)
	if err != nil {
		return nil, err
	}

	if !validModel(model) {
		return nil, ErrUnknownModel
	}
	if !validTier(cashbackPercent) {
		return nil, ErrInvalidTier
	}

	return &Sale{
		id:              uuid.New(),
		customerName:    customerName,
		customerID:      customerID,
		model:           model,
		saleAmount:      saleAmount,
		cashbackPercent: cashbackPercent,
		soldAt:          soldAt,
	}, nil
}

func ReconstructSale(
	id uuid.UUID,
	customerName string,
	customerID ledger.CustomerID,
	model string,
	saleAmount ledger.Money,
	cashbackPercent ledger.Percentage,
	soldAt, createdAt time.Time,
) *Sale {
	return &Sale{
		id:              id,
		customerName:    customerName,
		customerID:      customerID,
		model:           model,
		saleAmount:      saleAmount,
		cashbackPercent: cashbackPercent,
		soldAt:          soldAt,
		createdAt:       createdAt,
	}
}

// CashbackAmount is the value accrued to the customer for this sale.
func (s *Sale) CashbackAmount() ledger.Money {
	return s.cashbackPercent.Of(s.saleAmount)
}

func (s *Sale) ID() uuid.UUID                       { return s.id }
func (s *Sale) CustomerName() string                { return s.customerName }
func (s *Sale) CustomerID() ledger.CustomerID       { return s.customerID }
func (s *Sale) Model() string                       { return s.model }
func (s *Sale) SaleAmount() ledger.Money            { return s.saleAmount }
func (s *Sale) CashbackPercent() ledger.Percentage  { return s.cashbackPercent }
func (s *Sale) SoldAt() time.Time                   { return s.soldAt }
func (s *Sale) CreatedAt() time.Time                { return s.createdAt }

func validModel(model string) bool {
	for _, m := range Models {
		if m == model {
			return true
		}
	}
	return false
}

func validTier(p ledger.Percentage) bool {
	for _, t := range CashbackTiers {
		if p.Decimal().IsInteger() && p.Decimal().IntPart() == int64(t) {
			return true
		}
	}
	return false
}
