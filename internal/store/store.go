// Package store defines the order-store contract shared by submission,
// verification and the polling observers. The store owns the canonical
// status field and is the only component allowed to uphold the atomicity
// guarantees: status writes gated by the lifecycle rules and
// claim-and-assign as a single operation.
package store

import (
	"context"

	"platefast/internal/domain"
	"platefast/internal/dto"
)

type CreateOrderInput struct {
	CustomerID          string
	RestaurantID        string
	Items               []dto.CartItem
	TotalAmount         float64
	DeliveryFee         float64
	DeliveryAddress     string
	PaymentMethod       string
	SpecialInstructions *string
	DeliveryCode        string
}

type Store interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)

	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	GetOrdersByRestaurant(ctx context.Context, restaurantID string) ([]domain.Order, error)
	GetOrdersByDeliveryPerson(ctx context.Context, deliveryPersonID string) ([]domain.Order, error)

	// GetOrdersAvailableForDelivery lists orders that have reached a
	// restaurant-accepted state and have no assigned delivery person.
	GetOrdersAvailableForDelivery(ctx context.Context) ([]domain.Order, error)

	// UpdateOrderStatus applies a lifecycle-gated status write. Illegal
	// requests return an IllegalTransitionError, never a silent no-op.
	UpdateOrderStatus(ctx context.Context, orderID string, requested domain.Status) (*domain.Order, error)

	// ClaimOrder assigns the delivery person and moves the order to
	// ACCEPTED_BY_DELIVERY as one atomic operation. When two delivery
	// people race, exactly one wins; the loser gets a ConflictError.
	ClaimOrder(ctx context.Context, orderID, deliveryPersonID string) (*domain.Order, error)

	// StartDelivery moves the order to OUT_FOR_DELIVERY, rejecting
	// callers other than the assigned delivery person.
	StartDelivery(ctx context.Context, orderID, deliveryPersonID string) (*domain.Order, error)

	// VerifyDeliveryCode compares the presented code with the stored
	// one. A mismatch is a false result, not an error.
	VerifyDeliveryCode(ctx context.Context, orderID, code string) (bool, error)
}
