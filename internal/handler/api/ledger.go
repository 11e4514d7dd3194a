package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "cashback-ledger/internal/handler/dto/request"
	resdto "cashback-ledger/internal/handler/dto/response"
	"cashback-ledger/internal/handler/httperr"
	"cashback-ledger/internal/pkg/errs"
	"cashback-ledger/internal/usecase/commands"
	"cashback-ledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LedgerHandler struct {
	cmds      commands.LedgerCommands
	q         queries.LedgerQueries
	alertDays int
}

func NewLedgerHandler(cmds commands.LedgerCommands, q queries.LedgerQueries, alertDays int) *LedgerHandler {
	return &LedgerHandler{cmds: cmds, q: q, alertDays: alertDays}
}

// @Summary Get customer cashback balance
// @Description Available balance and per-grant breakdown for a customer CPF
// @Tags cashback
// @Produce json
// @Param cpf path string true "Customer CPF"
// @Success 200 {object} resdto.BalanceResponse
// @Failure 400 {object} map[string]string
// @Router /customers/{cpf}/cashback [get]
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	view, err := h.q.CustomerBalance(c.Request.Context(), c.Param("cpf"))
	if err != nil {
		if errors.Is(err, errs.ErrDomainValidation) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid CPF", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBalanceView(view))
}

// @Summary Consume cashback
// @Description Draw an amount from the customer's active grants, oldest first
// @Tags cashback
// @Accept json
// @Produce json
// @Param cpf path string true "Customer CPF"
// @Param request body reqdto.ConsumeCashbackRequest true "Consumption request"
// @Success 201 {object} resdto.ConsumeResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /customers/{cpf}/cashback/consumptions [post]
func (h *LedgerHandler) Consume(c *gin.Context) {
	var req reqdto.ConsumeCashbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.cmds.Consume(c.Request.Context(), c.Param("cpf"), req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid consumption request", nil)
		case errors.Is(err, errs.ErrInsufficientBalance):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Insufficient cashback balance", nil)
		case errors.Is(err, errs.ErrConcurrentConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "Concurrent balance update, retry", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusCreated, resdto.FromConsumeResult(result))
}

// @Summary Reverse a consumption
// @Description Credit a consumption entry back to its grant, once per entry
// @Tags cashback
// @Accept json
// @Produce json
// @Param request body reqdto.ReverseEntryRequest true "Reversal request"
// @Success 201 {object} resdto.ReverseResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /cashback/reversals [post]
func (h *LedgerHandler) Reverse(c *gin.Context) {
	var req reqdto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.cmds.Reverse(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrLedgerEntryNotFound), errors.Is(err, errs.ErrGrantNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Ledger entry not found", nil)
		case errors.Is(err, errs.ErrEntryAlreadyReversed):
			httperr.AbortWithError(c, http.StatusConflict, err, "Entry already reversed", nil)
		case errors.Is(err, errs.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Only consumption entries can be reversed", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusCreated, resdto.FromReverseResult(result))
}

// @Summary Sweep expired grants
// @Description Forfeit remaining balances of expired grants, idempotent
// @Tags cashback
// @Produce json
// @Success 200 {object} resdto.SweepResponse
// @Router /cashback/sweeps [post]
func (h *LedgerHandler) Sweep(c *gin.Context) {
	result, err := h.cmds.SweepExpired(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSweepResult(result))
}

// @Summary List grants expiring soon
// @Description Grants with balance expiring within the given window
// @Tags cashback
// @Produce json
// @Param within_days query int false "Window in days"
// @Success 200 {array} resdto.ExpiringGrantResponse
// @Failure 400 {object} map[string]string
// @Router /cashback/expiring [get]
func (h *LedgerHandler) Expiring(c *gin.Context) {
	withinDays := h.alertDays
	if raw := c.Query("within_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid within_days", nil)
			return
		}
		withinDays = parsed
	}

	views, err := h.q.ExpiringGrants(c.Request.Context(), withinDays)
	if err != nil {
		if errors.Is(err, errs.ErrDomainValidation) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid within_days", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromExpiringGrantList(views))
}

// @Summary Grant ledger history
// @Description Append-only entries recorded against one grant
// @Tags cashback
// @Produce json
// @Param id path string true "Grant ID"
// @Success 200 {array} resdto.EntryResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cashback/grants/{id}/entries [get]
func (h *LedgerHandler) GrantHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid grant ID format", nil)
		return
	}

	views, err := h.q.GrantHistory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrGrantNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Grant not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromEntryList(views))
}
