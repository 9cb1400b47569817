package order

import (
	"database/sql"

	"go.uber.org/zap"

	cartrepo "platefast/internal/cart/repository"
	"platefast/internal/config"
	"platefast/internal/order/controller"
	"platefast/internal/order/usecase"
	"platefast/internal/store"
)

func NewModule(db *sql.DB, orderStore store.Store, cfg *config.Config, logger *zap.Logger) *controller.OrderController {
	cartRepo := cartrepo.NewMySQLCartRepository(db)

	submitUC := usecase.NewSubmitOrderUseCase(
		orderStore,
		cartRepo,
		logger,
		cfg.Order.DeliveryFee,
	)

	return controller.NewOrderController(submitUC, orderStore, logger)
}
