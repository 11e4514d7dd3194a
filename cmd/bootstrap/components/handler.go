package components

import (
	"cashback-ledger/internal/handler"
	"cashback-ledger/internal/handler/api"
	"cashback-ledger/internal/pkg/config"
	"cashback-ledger/internal/usecase/commands"
	"cashback-ledger/internal/usecase/queries"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSaleHandler,
		NewLedgerHandler,
	),
	fx.Invoke(handler.NewRouter),
)

func NewLedgerHandler(cmds commands.LedgerCommands, q queries.LedgerQueries, cfg config.Config) *api.LedgerHandler {
	return api.NewLedgerHandler(cmds, q, cfg.Ledger.AlertDays)
}
