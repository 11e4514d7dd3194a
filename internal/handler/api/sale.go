package api

import (
	"errors"
	"net/http"

	reqdto "cashback-ledger/internal/handler/dto/request"
	resdto "cashback-ledger/internal/handler/dto/response"
	"cashback-ledger/internal/handler/httperr"
	"cashback-ledger/internal/pkg/errs"
	"cashback-ledger/internal/usecase/commands"
	"cashback-ledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SaleHandler struct {
	cmds commands.SaleCommands
	q    queries.SaleQueries
}

func NewSaleHandler(cmds commands.SaleCommands, q queries.SaleQueries) *SaleHandler {
	return &SaleHandler{cmds: cmds, q: q}
}

// @Summary Register sale
// @Description Register a car sale and accrue its cashback grant
// @Tags sales
// @Accept json
// @Produce json
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.RegisterSaleRequest true "Sale request"
// @Success 201 {object} resdto.RegisterSaleResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /sales [post]
func (h *SaleHandler) RegisterSale(c *gin.Context) {
	idempotencyKey, err := h.getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	var req reqdto.RegisterSaleRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.cmds.RegisterSale(c.Request.Context(), req, idempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid sale data", nil)
		case errors.Is(err, errs.ErrIdempotencyInProgress):
			httperr.AbortWithError(c, http.StatusConflict, err, "Sale registration is currently being processed", nil)
		case errors.Is(err, errs.ErrIdempotencyCheckFailed):
			httperr.AbortWithError(c, http.StatusConflict, err, "Idempotency key reused with different payload", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromRegisterSaleResult(result))
}

// @Summary Get sale
// @Description Get sale by ID
// @Tags sales
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} resdto.SaleResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid sale ID format", nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrSaleNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Sale not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSaleView(view))
}

// @Summary Search sales
// @Description Search sales by customer CPF or partial name
// @Tags sales
// @Produce json
// @Param customer query string true "CPF or partial customer name"
// @Success 200 {array} resdto.SaleResponse
// @Failure 400 {object} map[string]string
// @Router /sales [get]
func (h *SaleHandler) SearchSales(c *gin.Context) {
	views, err := h.q.SearchByCustomer(c.Request.Context(), c.Query("customer"))
	if err != nil {
		if errors.Is(err, errs.ErrDomainValidation) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "customer query parameter is required", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSaleList(views))
}

// @Summary Sales summary
// @Description Dealership totals: sales count, value and cashback granted
// @Tags reports
// @Produce json
// @Success 200 {object} resdto.SummaryResponse
// @Router /reports/summary [get]
func (h *SaleHandler) Summary(c *gin.Context) {
	view, err := h.q.Summary(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSummaryView(view))
}

// @Summary Sales by model
// @Description Sales count and value grouped by car model
// @Tags reports
// @Produce json
// @Success 200 {array} resdto.ModelSalesResponse
// @Router /reports/sales-by-model [get]
func (h *SaleHandler) SalesByModel(c *gin.Context) {
	views, err := h.q.SalesByModel(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromModelSalesList(views))
}

func (h *SaleHandler) getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errs.ErrIdempotencyKeyRequired
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}
