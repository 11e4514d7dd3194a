//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"cashback-ledger/internal/domain/ledger"
	"cashback-ledger/internal/handler/api"
	reqdto "cashback-ledger/internal/handler/dto/request"
	resdto "cashback-ledger/internal/handler/dto/response"
	"cashback-ledger/internal/pkg/errs"
	"cashback-ledger/internal/usecase/commands"
	"cashback-ledger/internal/usecase/queries"
	"cashback-ledger/tests/common/httptest"
	"cashback-ledger/tests/common/testutil"
	commandsmock "cashback-ledger/tests/mock/commands"
	queriesmock "cashback-ledger/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const (
	testCPF       = "52998224725"
	testAlertDays = 7
)

type LedgerHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockLedgerCommands
	mockQueries  *queriesmock.MockLedgerQueries
	handler      *api.LedgerHandler
}

func (s *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockLedgerCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockLedgerQueries(s.mockCtrl)
	s.handler = api.NewLedgerHandler(s.mockCommands, s.mockQueries, testAlertDays)

	s.router.GET("/api/customers/:cpf/cashback", s.handler.GetBalance)
	s.router.POST("/api/customers/:cpf/cashback/consumptions", s.handler.Consume)
	s.router.POST("/api/cashback/reversals", s.handler.Reverse)
	s.router.POST("/api/cashback/sweeps", s.handler.Sweep)
	s.router.GET("/api/cashback/expiring", s.handler.Expiring)
	s.router.GET("/api/cashback/grants/:id/entries", s.handler.GrantHistory)
}

func (s *LedgerHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestLedgerHandlerSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}

// ================================================================================
// TestGetBalance
// ================================================================================

func (s *LedgerHandlerTestSuite) TestGetBalance() {
	url := "/api/customers/" + testCPF + "/cashback"

	returnView := &queries.BalanceView{
		CustomerID:       testCPF,
		AvailableBalance: decimal.RequireFromString("150.00"),
		Grants: []*queries.GrantView{
			{
				ID:               uuid.New(),
				SaleID:           uuid.New(),
				OriginalAmount:   decimal.RequireFromString("100.00"),
				RemainingBalance: decimal.RequireFromString("100.00"),
				Status:           string(ledger.StatusActive),
				GrantedAt:        time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
				ExpiresAt:        time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC),
			},
			{
				ID:               uuid.New(),
				SaleID:           uuid.New(),
				OriginalAmount:   decimal.RequireFromString("50.00"),
				RemainingBalance: decimal.RequireFromString("50.00"),
				Status:           string(ledger.StatusActive),
				GrantedAt:        time.Date(2025, 2, 15, 10, 0, 0, 0, time.UTC),
				ExpiresAt:        time.Date(2025, 5, 16, 10, 0, 0, 0, time.UTC),
			},
		},
		AsOf: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	s.Run("success: returns 200 OK with BalanceResponse", func() {
		s.mockQueries.EXPECT().CustomerBalance(gomock.Any(), testCPF).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, nil)

		var response resdto.BalanceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(testCPF, response.CustomerID)
		s.Equal("150.00", response.AvailableBalance)
		s.Len(response.Grants, 2)
		s.Equal("100.00", response.Grants[0].RemainingBalance)
	})

	s.Run("error: 400 Bad Request for invalid CPF", func() {
		s.mockQueries.EXPECT().CustomerBalance(gomock.Any(), "11111111111").
			Return(nil, errs.ErrDomainValidation).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/customers/11111111111/cashback", nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid CPF")
	})

	s.Run("error: 500 on query failure", func() {
		s.mockQueries.EXPECT().CustomerBalance(gomock.Any(), testCPF).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestConsume
// ================================================================================

func (s *LedgerHandlerTestSuite) TestConsume() {
	url := "/api/customers/" + testCPF + "/cashback/consumptions"

	reqBody := reqdto.ConsumeCashbackRequest{
		Amount:       decimal.RequireFromString("120.00"),
		AuthorizedBy: "joao.gerente",
		Reason:       "revisao dos 10 mil km",
	}

	groupID := uuid.New()
	returnResult := &commands.ConsumeResult{
		GroupID: groupID,
		Draws: []commands.DrawResult{
			{GrantID: uuid.New(), EntryID: uuid.New(), Amount: ledger.MustMoneyFromString("100.00")},
			{GrantID: uuid.New(), EntryID: uuid.New(), Amount: ledger.MustMoneyFromString("20.00")},
		},
		TotalConsumed:    ledger.MustMoneyFromString("120.00"),
		RemainingBalance: ledger.MustMoneyFromString("30.00"),
	}

	s.Run("success: returns 201 Created with per-grant draws", func() {
		s.mockCommands.EXPECT().Consume(gomock.Any(), testCPF, gomock.Any()).
			Return(returnResult, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, nil)

		var response resdto.ConsumeResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(groupID.String(), response.GroupID)
		s.Equal("120.00", response.TotalConsumed)
		s.Equal("30.00", response.RemainingBalance)
		s.Len(response.Draws, 2)
		s.Equal("100.00", response.Draws[0].Amount)
		s.Equal("20.00", response.Draws[1].Amount)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: amount (required)", mutate: testutil.Field("amount", nil)},
			{name: "missing field: authorized_by (required)", mutate: testutil.Field("authorized_by", nil)},
			{name: "malformed amount", mutate: testutil.Field("amount", "lots")},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, nil)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "invalid document or amount",
				commandsError:  errs.ErrDomainValidation,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid consumption request",
			},
			{
				name:           "insufficient balance",
				commandsError:  errs.ErrInsufficientBalance,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Insufficient cashback balance",
			},
			{
				name:           "concurrent conflict after retries",
				commandsError:  errs.ErrConcurrentConflict,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Concurrent balance update",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Consume(gomock.Any(), testCPF, gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, nil)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestReverse
// ================================================================================

func (s *LedgerHandlerTestSuite) TestReverse() {
	url := "/api/cashback/reversals"

	entryID := uuid.New()
	grantID := uuid.New()
	reqBody := reqdto.ReverseEntryRequest{
		EntryID: entryID,
		Reason:  "cliente desistiu do servico",
	}

	s.Run("success: returns 201 Created with credited amount", func() {
		s.mockCommands.EXPECT().Reverse(gomock.Any(), reqBody).
			Return(&commands.ReverseResult{
				EntryID:  entryID,
				GrantID:  grantID,
				Credited: ledger.MustMoneyFromString("40.00"),
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, nil)

		var response resdto.ReverseResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(entryID.String(), response.EntryID)
		s.Equal(grantID.String(), response.GrantID)
		s.Equal("40.00", response.Credited)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: entry_id (required)", mutate: testutil.Field("entry_id", nil)},
			{name: "missing field: reason (required)", mutate: testutil.Field("reason", nil)},
			{name: "malformed entry_id", mutate: testutil.Field("entry_id", "not-a-uuid")},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, nil)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "entry not found",
				commandsError:  errs.ErrLedgerEntryNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Ledger entry not found",
			},
			{
				name:           "grant gone",
				commandsError:  errs.ErrGrantNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Ledger entry not found",
			},
			{
				name:           "already reversed",
				commandsError:  errs.ErrEntryAlreadyReversed,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Entry already reversed",
			},
			{
				name:           "not a consumption entry",
				commandsError:  errs.ErrDomainValidation,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Only consumption entries can be reversed",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Reverse(gomock.Any(), reqBody).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, nil)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestSweep
// ================================================================================

func (s *LedgerHandlerTestSuite) TestSweep() {
	url := "/api/cashback/sweeps"

	s.Run("success: returns 200 OK with swept grant ids and totals", func() {
		sweptIDs := []uuid.UUID{uuid.New(), uuid.New()}
		s.mockCommands.EXPECT().SweepExpired(gomock.Any()).
			Return(&commands.SweepResult{
				SweptGrantIDs:  sweptIDs,
				TotalForfeited: ledger.MustMoneyFromString("75.50"),
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, nil)

		var response resdto.SweepResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(2, response.SweptGrants)
		s.Equal([]string{sweptIDs[0].String(), sweptIDs[1].String()}, response.SweptGrantIDs)
		s.Equal("75.50", response.TotalForfeited)
	})

	s.Run("success: repeated sweep reports nothing to forfeit", func() {
		s.mockCommands.EXPECT().SweepExpired(gomock.Any()).
			Return(&commands.SweepResult{TotalForfeited: ledger.ZeroMoney()}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, nil)

		var response resdto.SweepResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(0, response.SweptGrants)
		s.Empty(response.SweptGrantIDs)
		s.Equal("0.00", response.TotalForfeited)
	})

	s.Run("error: 500 on command failure", func() {
		s.mockCommands.EXPECT().SweepExpired(gomock.Any()).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestExpiring
// ================================================================================

func (s *LedgerHandlerTestSuite) TestExpiring() {
	url := "/api/cashback/expiring"

	views := []*queries.ExpiringGrantView{
		{
			GrantID:          uuid.New(),
			CustomerID:       testCPF,
			CustomerName:     "Maria Souza",
			RemainingBalance: decimal.RequireFromString("30.00"),
			ExpiresAt:        time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC),
		},
	}

	s.Run("success: uses configured alert window by default", func() {
		s.mockQueries.EXPECT().ExpiringGrants(gomock.Any(), testAlertDays).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, nil)

		var response []*resdto.ExpiringGrantResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 1)
		s.Equal("Maria Souza", response[0].CustomerName)
		s.Equal("30.00", response[0].RemainingBalance)
	})

	s.Run("success: honors within_days override", func() {
		s.mockQueries.EXPECT().ExpiringGrants(gomock.Any(), 30).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?within_days=30", nil, nil)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request for non-numeric within_days", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?within_days=soon", nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid within_days")
	})

	s.Run("error: 400 Bad Request for non-positive within_days", func() {
		s.mockQueries.EXPECT().ExpiringGrants(gomock.Any(), 0).
			Return(nil, errs.ErrDomainValidation).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?within_days=0", nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid within_days")
	})
}

// ================================================================================
// TestGrantHistory
// ================================================================================

func (s *LedgerHandlerTestSuite) TestGrantHistory() {
	grantID := uuid.New()
	url := "/api/cashback/grants/" + grantID.String() + "/entries"

	groupID := uuid.New()
	views := []*queries.EntryView{
		{
			ID:           uuid.New(),
			GrantID:      grantID,
			EntryType:    string(ledger.EntryConsumption),
			Amount:       decimal.RequireFromString("100.00"),
			AuthorizedBy: "joao.gerente",
			GroupID:      groupID,
			RecordedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	s.Run("success: returns 200 OK with entry list", func() {
		s.mockQueries.EXPECT().GrantHistory(gomock.Any(), grantID).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, nil)

		var response []*resdto.EntryResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 1)
		s.Equal(grantID.String(), response[0].GrantID)
		s.Equal(string(ledger.EntryConsumption), response[0].EntryType)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/cashback/grants/invalid-uuid/entries", nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid grant ID")
	})

	s.Run("error: 404 Not Found for missing grant", func() {
		s.mockQueries.EXPECT().GrantHistory(gomock.Any(), grantID).
			Return(nil, errs.ErrGrantNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Grant not found")
	})
}
