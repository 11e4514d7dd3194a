//go:build e2e

package ledger_test

import (
	"net/http"
	"testing"
	"time"

	"cashback-ledger/internal/handler/dto/request"
	"cashback-ledger/internal/handler/dto/response"
	"cashback-ledger/tests/common/dbtest"
	"cashback-ledger/tests/common/httptest"
	"cashback-ledger/tests/e2e"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	salesURL     = "/api/sales"
	sweepsURL    = "/api/cashback/sweeps"
	reversalsURL = "/api/cashback/reversals"
	expiringURL  = "/api/cashback/expiring"

	mariaCPF = "52998224725"
	pedroCPF = "11144477735"
)

type LedgerSuite struct {
	e2e.SharedSuite
}

func TestLedgerSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(LedgerSuite))
}

func balanceURL(cpf string) string {
	return "/api/customers/" + cpf + "/cashback"
}

func consumptionsURL(cpf string) string {
	return "/api/customers/" + cpf + "/cashback/consumptions"
}

func (s *LedgerSuite) registerSale(cpf, model string, amount, percent string, soldAt time.Time) response.RegisterSaleResponse {
	t := s.T()

	reqBody := request.RegisterSaleRequest{
		CustomerName:     "Cliente Teste",
		CustomerDocument: cpf,
		Model:            model,
		SaleAmount:       decimal.RequireFromString(amount),
		CashbackPercent:  decimal.RequireFromString(percent),
		SoldAt:           &soldAt,
	}

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, salesURL, reqBody,
		map[string]string{"Idempotency-Key": uuid.New().String()})
	require.Equal(t, http.StatusCreated, w.Code, "sale registration should succeed: %s", w.Body.String())

	var created response.RegisterSaleResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
	require.NotEmpty(t, created.GrantID)
	return created
}

func (s *LedgerSuite) consume(cpf, amount, authorizedBy string) (*response.ConsumeResponse, int) {
	t := s.T()

	reqBody := request.ConsumeCashbackRequest{
		Amount:       decimal.RequireFromString(amount),
		AuthorizedBy: authorizedBy,
	}
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, consumptionsURL(cpf), reqBody, nil)
	if w.Code != http.StatusCreated {
		return nil, w.Code
	}

	var res response.ConsumeResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return &res, w.Code
}

func (s *LedgerSuite) balance(cpf string) response.BalanceResponse {
	t := s.T()

	w := httptest.PerformRequest(t, s.Router, http.MethodGet, balanceURL(cpf), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res response.BalanceResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return res
}

// =============================================================================
// TestSaleAccrual - sale registration accrues a cashback grant
// =============================================================================

func (s *LedgerSuite) TestSaleAccrual() {
	s.Run("Normal case: registering a sale accrues proportional cashback", func() {
		created := s.registerSale(mariaCPF, "Onix", "85000.00", "10", time.Now())

		s.Equal("8500.00", created.Sale.CashbackAmount)
		s.Equal(mariaCPF, created.Sale.CustomerDocument)
		s.False(created.Replayed)

		bal := s.balance(mariaCPF)
		s.Equal("8500.00", bal.AvailableBalance)
		s.Len(bal.Grants, 1)
		s.Equal("ACTIVE", bal.Grants[0].Status)
	})

	s.Run("Normal case: replaying the same idempotency key returns the original sale", func() {
		key := uuid.New().String()
		soldAt := time.Now()
		reqBody := request.RegisterSaleRequest{
			CustomerName:     "Cliente Teste",
			CustomerDocument: mariaCPF,
			Model:            "Onix",
			SaleAmount:       decimal.RequireFromString("85000.00"),
			CashbackPercent:  decimal.RequireFromString("10"),
			SoldAt:           &soldAt,
		}
		headers := map[string]string{"Idempotency-Key": key}

		w1 := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, salesURL, reqBody, headers)
		require.Equal(s.T(), http.StatusCreated, w1.Code)
		var first response.RegisterSaleResponse
		require.NoError(s.T(), httptest.DecodeResponseBody(s.T(), w1.Body, &first))

		w2 := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, salesURL, reqBody, headers)
		require.Equal(s.T(), http.StatusOK, w2.Code)
		var second response.RegisterSaleResponse
		require.NoError(s.T(), httptest.DecodeResponseBody(s.T(), w2.Body, &second))

		s.True(second.Replayed)
		s.Equal(first.Sale.ID, second.Sale.ID)

		// Only one grant was accrued
		bal := s.balance(mariaCPF)
		s.Len(bal.Grants, 1)
	})

	s.Run("Error case: reusing a key with a different payload is rejected", func() {
		key := uuid.New().String()
		soldAt := time.Now()
		reqBody := request.RegisterSaleRequest{
			CustomerName:     "Cliente Teste",
			CustomerDocument: mariaCPF,
			Model:            "Onix",
			SaleAmount:       decimal.RequireFromString("85000.00"),
			CashbackPercent:  decimal.RequireFromString("10"),
			SoldAt:           &soldAt,
		}
		headers := map[string]string{"Idempotency-Key": key}

		w1 := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, salesURL, reqBody, headers)
		require.Equal(s.T(), http.StatusCreated, w1.Code)

		reqBody.SaleAmount = decimal.RequireFromString("90000.00")
		w2 := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, salesURL, reqBody, headers)
		httptest.AssertErrorResponse(s.T(), w2, http.StatusConflict, "different payload")
	})

	s.Run("Error case: off-tier cashback percent is rejected", func() {
		soldAt := time.Now()
		reqBody := request.RegisterSaleRequest{
			CustomerName:     "Cliente Teste",
			CustomerDocument: mariaCPF,
			Model:            "Onix",
			SaleAmount:       decimal.RequireFromString("85000.00"),
			CashbackPercent:  decimal.RequireFromString("12"),
			SoldAt:           &soldAt,
		}
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, salesURL, reqBody,
			map[string]string{"Idempotency-Key": uuid.New().String()})
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "Invalid sale data")
	})
}

// =============================================================================
// TestConsumption - oldest-grant-first draws, all or nothing
// =============================================================================

func (s *LedgerSuite) TestConsumption() {
	s.Run("Normal case: consumption drains the oldest grant first", func() {
		now := time.Now()
		older := s.registerSale(mariaCPF, "Onix", "1000.00", "10", now.AddDate(0, 0, -20))
		newer := s.registerSale(mariaCPF, "Tracker", "500.00", "10", now.AddDate(0, 0, -5))

		res, code := s.consume(mariaCPF, "120.00", "joao.gerente")
		require.Equal(s.T(), http.StatusCreated, code)

		s.Equal("120.00", res.TotalConsumed)
		s.Equal("30.00", res.RemainingBalance)
		require.Len(s.T(), res.Draws, 2)
		s.Equal(older.GrantID, res.Draws[0].GrantID)
		s.Equal("100.00", res.Draws[0].Amount)
		s.Equal(newer.GrantID, res.Draws[1].GrantID)
		s.Equal("20.00", res.Draws[1].Amount)

		bal := s.balance(mariaCPF)
		s.Equal("30.00", bal.AvailableBalance)
	})

	s.Run("Error case: insufficient balance leaves the ledger untouched", func() {
		s.registerSale(mariaCPF, "Onix", "1000.00", "10", time.Now())

		_, code := s.consume(mariaCPF, "150.00", "joao.gerente")
		s.Equal(http.StatusUnprocessableEntity, code)

		bal := s.balance(mariaCPF)
		s.Equal("100.00", bal.AvailableBalance)
		s.Equal("100.00", bal.Grants[0].RemainingBalance)
	})

	s.Run("Normal case: concurrent consumes never overdraw the balance", func() {
		s.registerSale(mariaCPF, "Onix", "1000.00", "10", time.Now())

		const workers = 4
		codes := make(chan int, workers)
		for range workers {
			go func() {
				reqBody := request.ConsumeCashbackRequest{
					Amount:       decimal.RequireFromString("100.00"),
					AuthorizedBy: "joao.gerente",
				}
				w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, consumptionsURL(mariaCPF), reqBody, nil)
				codes <- w.Code
			}()
		}

		succeeded := 0
		for range workers {
			switch <-codes {
			case http.StatusCreated:
				succeeded++
			case http.StatusUnprocessableEntity, http.StatusConflict:
			default:
				s.Fail("unexpected status from concurrent consume")
			}
		}

		s.Equal(1, succeeded, "exactly one concurrent consume should win")
		s.Equal("0.00", s.balance(mariaCPF).AvailableBalance)
	})

	s.Run("Normal case: balances are isolated per customer", func() {
		s.registerSale(mariaCPF, "Onix", "1000.00", "10", time.Now())
		s.registerSale(pedroCPF, "Tracker", "500.00", "10", time.Now())

		res, code := s.consume(pedroCPF, "50.00", "joao.gerente")
		require.Equal(s.T(), http.StatusCreated, code)
		s.Equal("0.00", res.RemainingBalance)

		s.Equal("100.00", s.balance(mariaCPF).AvailableBalance)
	})
}

// =============================================================================
// TestReversal - consumption entries credit back once each
// =============================================================================

func (s *LedgerSuite) TestReversal() {
	s.Run("Normal case: reversing a consumption restores the balance", func() {
		created := s.registerSale(mariaCPF, "Onix", "1000.00", "10", time.Now())

		res, code := s.consume(mariaCPF, "40.00", "joao.gerente")
		require.Equal(s.T(), http.StatusCreated, code)
		require.Len(s.T(), res.Draws, 1)

		entryID, err := uuid.Parse(res.Draws[0].EntryID)
		require.NoError(s.T(), err)

		reqBody := request.ReverseEntryRequest{EntryID: entryID, Reason: "cliente desistiu do servico"}
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reversalsURL, reqBody, nil)
		require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())

		var rev response.ReverseResponse
		require.NoError(s.T(), httptest.DecodeResponseBody(s.T(), w.Body, &rev))
		s.Equal("40.00", rev.Credited)
		s.Equal(created.GrantID, rev.GrantID)

		s.Equal("100.00", s.balance(mariaCPF).AvailableBalance)
	})

	s.Run("Error case: an entry can be reversed only once", func() {
		s.registerSale(mariaCPF, "Onix", "1000.00", "10", time.Now())

		res, code := s.consume(mariaCPF, "40.00", "joao.gerente")
		require.Equal(s.T(), http.StatusCreated, code)
		entryID, err := uuid.Parse(res.Draws[0].EntryID)
		require.NoError(s.T(), err)

		reqBody := request.ReverseEntryRequest{EntryID: entryID, Reason: "estorno"}
		w1 := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reversalsURL, reqBody, nil)
		require.Equal(s.T(), http.StatusCreated, w1.Code)

		w2 := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reversalsURL, reqBody, nil)
		httptest.AssertErrorResponse(s.T(), w2, http.StatusConflict, "already reversed")
	})

	s.Run("Error case: unknown entry returns 404", func() {
		reqBody := request.ReverseEntryRequest{EntryID: uuid.New(), Reason: "estorno"}
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reversalsURL, reqBody, nil)
		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "not found")
	})
}

// =============================================================================
// TestExpiry - sweep forfeits expired balances, alerts list upcoming ones
// =============================================================================

func (s *LedgerSuite) TestExpiry() {
	s.Run("Normal case: sweep forfeits expired grants and is idempotent", func() {
		created := s.registerSale(mariaCPF, "Onix", "1000.00", "10", time.Now())
		grantID, err := uuid.Parse(created.GrantID)
		require.NoError(s.T(), err)

		dbtest.BackdateGrant(s.T(), s.DB, grantID, time.Now().Add(-time.Hour))

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, sweepsURL, nil, nil)
		require.Equal(s.T(), http.StatusOK, w.Code)

		var swept response.SweepResponse
		require.NoError(s.T(), httptest.DecodeResponseBody(s.T(), w.Body, &swept))
		s.Equal(1, swept.SweptGrants)
		s.Equal([]string{created.GrantID}, swept.SweptGrantIDs)
		s.Equal("100.00", swept.TotalForfeited)

		s.Equal("0.00", s.balance(mariaCPF).AvailableBalance)
		s.Equal(1, dbtest.CountLedgerEntries(s.T(), s.DB, grantID, "expiry"))

		// Running again forfeits nothing and records no extra entries
		w2 := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, sweepsURL, nil, nil)
		require.Equal(s.T(), http.StatusOK, w2.Code)

		var second response.SweepResponse
		require.NoError(s.T(), httptest.DecodeResponseBody(s.T(), w2.Body, &second))
		s.Equal(0, second.SweptGrants)
		s.Empty(second.SweptGrantIDs)
		s.Equal(1, dbtest.CountLedgerEntries(s.T(), s.DB, grantID, "expiry"))
	})

	s.Run("Normal case: expired balance is excluded before the sweep runs", func() {
		created := s.registerSale(mariaCPF, "Onix", "1000.00", "10", time.Now())
		grantID, err := uuid.Parse(created.GrantID)
		require.NoError(s.T(), err)

		dbtest.BackdateGrant(s.T(), s.DB, grantID, time.Now().Add(-time.Hour))

		bal := s.balance(mariaCPF)
		s.Equal("0.00", bal.AvailableBalance)
		s.Equal("EXPIRED", bal.Grants[0].Status)

		_, code := s.consume(mariaCPF, "10.00", "joao.gerente")
		s.Equal(http.StatusUnprocessableEntity, code)
	})

	s.Run("Normal case: expiring endpoint lists grants inside the alert window", func() {
		created := s.registerSale(mariaCPF, "Onix", "1000.00", "10", time.Now())
		grantID, err := uuid.Parse(created.GrantID)
		require.NoError(s.T(), err)

		dbtest.BackdateGrant(s.T(), s.DB, grantID, time.Now().AddDate(0, 0, 3))
		// Second grant expires far outside the window
		s.registerSale(pedroCPF, "Tracker", "500.00", "10", time.Now())

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, expiringURL, nil, nil)
		require.Equal(s.T(), http.StatusOK, w.Code)

		var alerts []*response.ExpiringGrantResponse
		require.NoError(s.T(), httptest.DecodeResponseBody(s.T(), w.Body, &alerts))
		require.Len(s.T(), alerts, 1)
		s.Equal(created.GrantID, alerts[0].GrantID)
		s.Equal(mariaCPF, alerts[0].CustomerID)
		s.Equal("100.00", alerts[0].RemainingBalance)
	})
}
