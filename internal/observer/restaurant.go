// Package observer holds the three polling views onto the order store:
// restaurant, delivery person and customer tracking. Each observer owns
// a private cached snapshot, refreshes it on its own ticker, and applies
// optimistic updates after successful actions. The next poll is always
// the authority and overwrites optimistic state; any failure leaves the
// last known-good snapshot in place.
package observer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"platefast/internal/domain"
)

type RestaurantStore interface {
	GetOrdersByRestaurant(ctx context.Context, restaurantID string) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, requested domain.Status) (*domain.Order, error)
}

// RestaurantObserver gives one restaurant a continuously refreshed view
// of its own orders plus the two actions it may perform.
type RestaurantObserver struct {
	store        RestaurantStore
	restaurantID string
	interval     time.Duration
	logger       *zap.Logger

	mu     sync.Mutex
	orders []domain.Order
}

func NewRestaurantObserver(store RestaurantStore, restaurantID string, interval time.Duration, logger *zap.Logger) *RestaurantObserver {
	return &RestaurantObserver{
		store:        store,
		restaurantID: restaurantID,
		interval:     interval,
		logger:       logger,
	}
}

// Run polls until ctx is cancelled, refreshing once immediately. All
// polling happens on this goroutine; a slow poll makes the ticker drop
// ticks, so at most one poll is ever in flight.
func (o *RestaurantObserver) Run(ctx context.Context) {
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

func (o *RestaurantObserver) refresh(ctx context.Context) {
	orders, err := o.store.GetOrdersByRestaurant(ctx, o.restaurantID)
	if err != nil {
		o.logger.Warn("restaurant poll failed, keeping last known orders",
			zap.String("restaurantId", o.restaurantID),
			zap.Error(err),
		)
		return
	}

	// No cache writes once the observer is stopped.
	if ctx.Err() != nil {
		return
	}

	o.mu.Lock()
	o.orders = orders
	o.mu.Unlock()
}

// Orders returns a copy of the last successfully polled list.
func (o *RestaurantObserver) Orders() []domain.Order {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]domain.Order, len(o.orders))
	copy(out, o.orders)
	return out
}

// AcceptOrder requests PENDING -> ACCEPTED_BY_RESTAURANT. A rejection,
// for instance after a customer cancelled in the interim, leaves the
// cached list untouched.
func (o *RestaurantObserver) AcceptOrder(ctx context.Context, orderID string) error {
	updated, err := o.store.UpdateOrderStatus(ctx, orderID, domain.StatusAcceptedByRestaurant)
	if err != nil {
		return err
	}

	o.applyLocal(updated)
	return nil
}

// SetPreparing requests the PREPARING transition. Preparing may start
// before or after a delivery person has claimed the order.
func (o *RestaurantObserver) SetPreparing(ctx context.Context, orderID string) error {
	updated, err := o.store.UpdateOrderStatus(ctx, orderID, domain.StatusPreparing)
	if err != nil {
		return err
	}

	o.applyLocal(updated)
	return nil
}

// applyLocal reconciles the cache after a successful action. The next
// poll overwrites this optimistic state either way.
func (o *RestaurantObserver) applyLocal(updated *domain.Order) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := range o.orders {
		if o.orders[i].ID == updated.ID {
			o.orders[i] = *updated
			return
		}
	}
}
