package usecase

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"go.uber.org/zap"

	"platefast/internal/domain"
	"platefast/internal/dto"
	apperrors "platefast/internal/errors"
	"platefast/internal/store"
)

// Cart is the external cart collaborator. The cart is cleared only after
// the order is confirmed persisted.
type Cart interface {
	GetCart(ctx context.Context, customerID string) ([]dto.CartItem, error)
	ClearCart(ctx context.Context, customerID string) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, input store.CreateOrderInput) (*domain.Order, error)
}

type SubmitOrderUseCase struct {
	store       OrderStore
	cart        Cart
	logger      *zap.Logger
	deliveryFee float64
}

func NewSubmitOrderUseCase(orderStore OrderStore, cart Cart, logger *zap.Logger, deliveryFee float64) *SubmitOrderUseCase {
	return &SubmitOrderUseCase{
		store:       orderStore,
		cart:        cart,
		logger:      logger,
		deliveryFee: deliveryFee,
	}
}

// SubmitOrder turns the customer's cart into a persisted PENDING order.
// Totals come from the server-side price snapshot on each cart line,
// never from client state.
func (uc *SubmitOrderUseCase) SubmitOrder(ctx context.Context, req dto.SubmitOrderRequest) (*domain.Order, error) {
	if req.DeliveryAddress == "" {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "deliveryAddress",
			Message: "deliveryAddress is required",
		})
	}

	items, err := uc.cart.GetCart(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, apperrors.NewEmptyCartError()
	}

	restaurantID := items[0].RestaurantID
	totalAmount := 0.0
	for _, item := range items {
		if item.RestaurantID != restaurantID {
			return nil, apperrors.NewMixedRestaurantError()
		}
		totalAmount += item.UnitPrice * float64(item.Quantity)
	}
	totalAmount += uc.deliveryFee

	code, err := generateDeliveryCode()
	if err != nil {
		return nil, err
	}

	order, err := uc.store.CreateOrder(ctx, store.CreateOrderInput{
		CustomerID:          req.CustomerID,
		RestaurantID:        restaurantID,
		Items:               items,
		TotalAmount:         totalAmount,
		DeliveryFee:         uc.deliveryFee,
		DeliveryAddress:     req.DeliveryAddress,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
		DeliveryCode:        code,
	})
	if err != nil {
		// Cart stays untouched; the customer can retry.
		return nil, err
	}

	if err := uc.cart.ClearCart(ctx, req.CustomerID); err != nil {
		// The order is already persisted; a stale cart is recoverable.
		uc.logger.Warn("clearing cart after submission failed",
			zap.String("orderId", order.ID),
			zap.String("customerId", req.CustomerID),
			zap.Error(err),
		)
	}

	uc.logger.Info("order submitted",
		zap.String("orderId", order.ID),
		zap.String("customerId", req.CustomerID),
		zap.String("restaurantId", restaurantID),
		zap.Float64("totalAmount", totalAmount),
	)

	return order, nil
}

// generateDeliveryCode draws a uniform 6-digit code from 100000-999999.
func generateDeliveryCode() (string, error) {
	n, err := crand.Int(crand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generating delivery code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
