package delivery

import (
	"context"

	"go.uber.org/zap"

	"platefast/internal/domain"
	apperrors "platefast/internal/errors"
)

type VerificationStore interface {
	VerifyDeliveryCode(ctx context.Context, orderID, code string) (bool, error)
	UpdateOrderStatus(ctx context.Context, orderID string, requested domain.Status) (*domain.Order, error)
}

// Verifier runs the delivery-completion handshake: the code the customer
// hands over in person must match before the order may become DELIVERED.
type Verifier struct {
	store  VerificationStore
	logger *zap.Logger
}

func NewVerifier(store VerificationStore, logger *zap.Logger) *Verifier {
	return &Verifier{store: store, logger: logger}
}

// Verify compares the presented code with the stored one. A mismatch is
// a plain false, not an error; unknown orders are a NotFoundError.
func (v *Verifier) Verify(ctx context.Context, orderID, code string) (bool, error) {
	return v.store.VerifyDeliveryCode(ctx, orderID, code)
}

// CompleteDelivery verifies first and transitions only on a match. A
// wrong code must never advance state.
func (v *Verifier) CompleteDelivery(ctx context.Context, orderID, code string) (*domain.Order, error) {
	ok, err := v.Verify(ctx, orderID, code)
	if err != nil {
		return nil, err
	}

	if !ok {
		v.logger.Warn("delivery code mismatch", zap.String("orderId", orderID))
		return nil, apperrors.NewVerificationError(orderID)
	}

	order, err := v.store.UpdateOrderStatus(ctx, orderID, domain.StatusDelivered)
	if err != nil {
		return nil, err
	}

	v.logger.Info("delivery completed", zap.String("orderId", orderID))

	return order, nil
}
