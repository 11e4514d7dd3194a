//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"cashback-ledger/internal/domain/ledger"
	"cashback-ledger/internal/domain/sale"
	reqdto "cashback-ledger/internal/handler/dto/request"
	"cashback-ledger/internal/infra"
	"cashback-ledger/internal/pkg/clock"
	"cashback-ledger/internal/pkg/config"
	"cashback-ledger/internal/pkg/errs"
	"cashback-ledger/internal/usecase/commands"
	"cashback-ledger/internal/usecase/queries"
	"cashback-ledger/internal/usecase/shared"
	queriesmock "cashback-ledger/tests/mock/queries"
	sharedmock "cashback-ledger/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SaleCommandsTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockUoW         *sharedmock.MockUnitOfWork
	mockTx          *sharedmock.MockTx
	mockGrants      *sharedmock.MockGrantRepository
	mockSales       *sharedmock.MockSaleRepository
	mockIdempotency *sharedmock.MockIdempotencyRepository
	mockSaleQueries *queriesmock.MockSaleQueries
	clk             *clock.MockClock
	uc              commands.SaleCommands
}

func (s *SaleCommandsTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUoW = sharedmock.NewMockUnitOfWork(s.mockCtrl)
	s.mockTx = sharedmock.NewMockTx(s.mockCtrl)
	s.mockGrants = sharedmock.NewMockGrantRepository(s.mockCtrl)
	s.mockSales = sharedmock.NewMockSaleRepository(s.mockCtrl)
	s.mockIdempotency = sharedmock.NewMockIdempotencyRepository(s.mockCtrl)
	s.mockSaleQueries = queriesmock.NewMockSaleQueries(s.mockCtrl)

	s.mockTx.EXPECT().Grants().Return(s.mockGrants).AnyTimes()
	s.mockTx.EXPECT().Sales().Return(s.mockSales).AnyTimes()
	s.mockTx.EXPECT().Idempotency().Return(s.mockIdempotency).AnyTimes()

	s.clk = clock.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	s.uc = commands.NewSaleUseCase(s.mockUoW, s.mockSaleQueries, s.clk, config.LedgerConfig{
		ValidityDays: 90,
		AlertDays:    7,
	})
}

func (s *SaleCommandsTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSaleCommandsSuite(t *testing.T) {
	suite.Run(t, new(SaleCommandsTestSuite))
}

func (s *SaleCommandsTestSuite) expectWithin() {
	s.mockUoW.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, s.mockTx)
		})
}

func validRequest() reqdto.RegisterSaleRequest {
	return reqdto.RegisterSaleRequest{
		CustomerName:     "Maria Souza",
		CustomerDocument: "529.982.247-25",
		Model:            "Onix",
		SaleAmount:       decimal.RequireFromString("85000.00"),
		CashbackPercent:  decimal.NewFromInt(10),
	}
}

func (s *SaleCommandsTestSuite) TestRegisterSaleAccruesGrant() {
	key := uuid.New()

	s.expectWithin()
	s.mockIdempotency.EXPECT().
		TryInsert(gomock.Any(), key, "POST /api/sales", gomock.Any(), gomock.Any()).
		Return(nil)

	var createdSale *sale.Sale
	s.mockSales.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, se *sale.Sale) error {
			createdSale = se
			return nil
		})

	var createdGrant *ledger.Grant
	s.mockGrants.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *ledger.Grant) error {
			createdGrant = g
			return nil
		})

	s.mockIdempotency.EXPECT().
		UpdateStatusCompleted(gomock.Any(), key, gomock.Any()).
		Return(nil)

	s.mockSaleQueries.EXPECT().
		GetByID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID) (*queries.SaleView, error) {
			return &queries.SaleView{ID: id, Model: "Onix"}, nil
		})

	result, err := s.uc.RegisterSale(context.Background(), validRequest(), key)
	s.Require().NoError(err)
	s.False(result.IsReplayed)

	s.Require().NotNil(createdSale)
	s.Equal("52998224725", createdSale.CustomerID().String())

	s.Require().NotNil(createdGrant)
	s.Equal(createdSale.ID(), createdGrant.SaleID())
	s.True(createdGrant.OriginalAmount().Equal(ledger.MustMoneyFromString("8500.00")))
	s.Equal(createdGrant.GrantedAt().AddDate(0, 0, 90), createdGrant.ExpiresAt())
	s.Equal(createdSale.ID(), result.Sale.ID)
}

func (s *SaleCommandsTestSuite) TestRegisterSaleReplaysCompletedKey() {
	key := uuid.New()
	existingSaleID := uuid.New()

	s.expectWithin()
	s.mockIdempotency.EXPECT().
		TryInsert(gomock.Any(), key, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(infra.WrapRepoErr("idempotency key already exists", errs.New("duplicate"), infra.KindDuplicateKey))
	s.mockIdempotency.EXPECT().
		Get(gomock.Any(), key).
		Return(&shared.IdempotencyRecord{
			Key:          key,
			Status:       "completed",
			ResultSaleID: &existingSaleID,
		}, nil)

	s.mockSaleQueries.EXPECT().
		GetByID(gomock.Any(), existingSaleID).
		Return(&queries.SaleView{ID: existingSaleID}, nil)

	result, err := s.uc.RegisterSale(context.Background(), validRequest(), key)
	s.Require().NoError(err)
	s.True(result.IsReplayed)
	s.Equal(existingSaleID, result.Sale.ID)
}

func (s *SaleCommandsTestSuite) TestRegisterSaleRejectsReusedKeyWithDifferentPayload() {
	key := uuid.New()

	s.expectWithin()
	s.mockIdempotency.EXPECT().
		TryInsert(gomock.Any(), key, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(infra.WrapRepoErr("idempotency key already exists", errs.New("duplicate"), infra.KindDuplicateKey))
	s.mockIdempotency.EXPECT().
		Get(gomock.Any(), key).
		Return(&shared.IdempotencyRecord{
			Key:         key,
			Status:      "processing",
			RequestHash: "some-other-hash",
		}, nil)

	_, err := s.uc.RegisterSale(context.Background(), validRequest(), key)
	s.Require().ErrorIs(err, errs.ErrIdempotencyCheckFailed)
}

func (s *SaleCommandsTestSuite) TestRegisterSaleRequiresIdempotencyKey() {
	_, err := s.uc.RegisterSale(context.Background(), validRequest(), uuid.Nil)
	s.Require().ErrorIs(err, errs.ErrIdempotencyKeyRequired)
}

func (s *SaleCommandsTestSuite) TestRegisterSaleRejectsUnknownModel() {
	key := uuid.New()
	req := validRequest()
	req.Model = "Fusca"

	s.expectWithin()
	s.mockIdempotency.EXPECT().
		TryInsert(gomock.Any(), key, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	_, err := s.uc.RegisterSale(context.Background(), req, key)
	s.Require().ErrorIs(err, errs.ErrDomainValidation)
}

func (s *SaleCommandsTestSuite) TestRegisterSaleRejectsOffTierPercentage() {
	key := uuid.New()
	req := validRequest()
	req.CashbackPercent = decimal.NewFromInt(12)

	s.expectWithin()
	s.mockIdempotency.EXPECT().
		TryInsert(gomock.Any(), key, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	_, err := s.uc.RegisterSale(context.Background(), req, key)
	s.Require().ErrorIs(err, errs.ErrDomainValidation)
}
