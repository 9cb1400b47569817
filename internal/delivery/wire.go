package delivery

import (
	"go.uber.org/zap"

	"platefast/internal/store"
)

func NewModule(orderStore store.Store, logger *zap.Logger) *Controller {
	verifier := NewVerifier(orderStore, logger)
	return NewController(orderStore, verifier, logger)
}
