package observer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"platefast/internal/domain"
)

type DeliveryStore interface {
	GetOrdersByDeliveryPerson(ctx context.Context, deliveryPersonID string) ([]domain.Order, error)
	GetOrdersAvailableForDelivery(ctx context.Context) ([]domain.Order, error)
	ClaimOrder(ctx context.Context, orderID, deliveryPersonID string) (*domain.Order, error)
	StartDelivery(ctx context.Context, orderID, deliveryPersonID string) (*domain.Order, error)
}

// Completer runs the verify-then-transition completion handshake.
type Completer interface {
	CompleteDelivery(ctx context.Context, orderID, code string) (*domain.Order, error)
}

// DeliveryObserver gives one delivery person two lists: orders assigned
// to them and orders still unclaimed. Both are refreshed on the same
// tick so a claim by another courier and a newly surfaced order are
// observed with the same latency bound.
type DeliveryObserver struct {
	store            DeliveryStore
	completer        Completer
	deliveryPersonID string
	interval         time.Duration
	logger           *zap.Logger

	mu        sync.Mutex
	assigned  []domain.Order
	available []domain.Order
}

func NewDeliveryObserver(store DeliveryStore, completer Completer, deliveryPersonID string, interval time.Duration, logger *zap.Logger) *DeliveryObserver {
	return &DeliveryObserver{
		store:            store,
		completer:        completer,
		deliveryPersonID: deliveryPersonID,
		interval:         interval,
		logger:           logger,
	}
}

// Run polls until ctx is cancelled, refreshing once immediately. The
// ticker drops ticks while a refresh is in flight, so at most one poll
// runs at a time.
func (o *DeliveryObserver) Run(ctx context.Context) {
	o.refresh(ctx)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.refresh(ctx)
		}
	}
}

// refresh fetches both lists; if either fetch fails the previous
// snapshot of both is kept, so the two views never drift apart.
func (o *DeliveryObserver) refresh(ctx context.Context) {
	assigned, err := o.store.GetOrdersByDeliveryPerson(ctx, o.deliveryPersonID)
	if err != nil {
		o.logger.Warn("assigned-orders poll failed, keeping last known lists",
			zap.String("deliveryPersonId", o.deliveryPersonID),
			zap.Error(err),
		)
		return
	}

	available, err := o.store.GetOrdersAvailableForDelivery(ctx)
	if err != nil {
		o.logger.Warn("available-orders poll failed, keeping last known lists",
			zap.String("deliveryPersonId", o.deliveryPersonID),
			zap.Error(err),
		)
		return
	}

	if ctx.Err() != nil {
		return
	}

	o.mu.Lock()
	o.assigned = assigned
	o.available = available
	o.mu.Unlock()
}

func (o *DeliveryObserver) Assigned() []domain.Order {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]domain.Order, len(o.assigned))
	copy(out, o.assigned)
	return out
}

func (o *DeliveryObserver) Available() []domain.Order {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]domain.Order, len(o.available))
	copy(out, o.available)
	return out
}

// AcceptOrder attempts the atomic claim. The store guarantees that of
// two racing couriers exactly one wins; the loser gets a ConflictError.
// Both lists are re-synchronized after the attempt, win or lose.
func (o *DeliveryObserver) AcceptOrder(ctx context.Context, orderID string) error {
	_, err := o.store.ClaimOrder(ctx, orderID, o.deliveryPersonID)
	if err != nil {
		o.logger.Warn("claim attempt failed",
			zap.String("orderId", orderID),
			zap.String("deliveryPersonId", o.deliveryPersonID),
			zap.Error(err),
		)
	}

	o.refresh(ctx)
	return err
}

// StartDelivery requests the OUT_FOR_DELIVERY transition. Ownership is
// checked by the store, not re-derived here.
func (o *DeliveryObserver) StartDelivery(ctx context.Context, orderID string) error {
	updated, err := o.store.StartDelivery(ctx, orderID, o.deliveryPersonID)
	if err != nil {
		return err
	}

	o.applyAssigned(updated)
	return nil
}

// CompleteDelivery delegates to the verification handshake. A code
// mismatch surfaces as a VerificationError and the cache stays put.
func (o *DeliveryObserver) CompleteDelivery(ctx context.Context, orderID, code string) error {
	updated, err := o.completer.CompleteDelivery(ctx, orderID, code)
	if err != nil {
		return err
	}

	o.applyAssigned(updated)
	return nil
}

func (o *DeliveryObserver) applyAssigned(updated *domain.Order) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := range o.assigned {
		if o.assigned[i].ID == updated.ID {
			o.assigned[i] = *updated
			return
		}
	}
}
