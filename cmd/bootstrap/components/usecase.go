package components

import (
	"cashback-ledger/internal/pkg/clock"
	"cashback-ledger/internal/pkg/config"
	"cashback-ledger/internal/usecase/commands"
	"cashback-ledger/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.LedgerConfig {
		return cfg.Ledger
	},
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewLedgerQueries,
		queries.NewSaleQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewLedgerUseCase,
		commands.NewSaleUseCase,
	),
)
