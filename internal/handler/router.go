package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cashback-ledger/internal/handler/api"
	"cashback-ledger/internal/handler/middleware"
	"cashback-ledger/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, saleHandler *api.SaleHandler, ledgerHandler *api.LedgerHandler) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, saleHandler, ledgerHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, saleHandler *api.SaleHandler, ledgerHandler *api.LedgerHandler) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		sales := apiGroup.Group("/sales")
		{
			addRoutes(sales, []route{
				{Method: http.MethodPost, Path: "", Handler: saleHandler.RegisterSale},
				{Method: http.MethodGet, Path: "", Handler: saleHandler.SearchSales},
				{Method: http.MethodGet, Path: "/:id", Handler: saleHandler.GetSale},
			})
		}

		customers := apiGroup.Group("/customers")
		{
			addRoutes(customers, []route{
				{Method: http.MethodGet, Path: "/:cpf/cashback", Handler: ledgerHandler.GetBalance},
				{Method: http.MethodPost, Path: "/:cpf/cashback/consumptions", Handler: ledgerHandler.Consume},
			})
		}

		cashback := apiGroup.Group("/cashback")
		{
			addRoutes(cashback, []route{
				{Method: http.MethodPost, Path: "/reversals", Handler: ledgerHandler.Reverse},
				{Method: http.MethodPost, Path: "/sweeps", Handler: ledgerHandler.Sweep},
				{Method: http.MethodGet, Path: "/expiring", Handler: ledgerHandler.Expiring},
				{Method: http.MethodGet, Path: "/grants/:id/entries", Handler: ledgerHandler.GrantHistory},
			})
		}

		reports := apiGroup.Group("/reports")
		{
			addRoutes(reports, []route{
				{Method: http.MethodGet, Path: "/summary", Handler: saleHandler.Summary},
				{Method: http.MethodGet, Path: "/sales-by-model", Handler: saleHandler.SalesByModel},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
