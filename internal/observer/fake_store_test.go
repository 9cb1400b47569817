package observer

import (
	"context"
	"fmt"
	"sync"

	"platefast/internal/domain"
	apperrors "platefast/internal/errors"
)

// fakeStore is an in-memory order store honoring the same contracts as
// the MySQL store: lifecycle-gated status writes and an atomic claim.
type fakeStore struct {
	mu     sync.Mutex
	orders map[string]*domain.Order

	// failNext makes every read fail with this error until cleared.
	failNext error
	polls    int
}

func newFakeStore(orders ...*domain.Order) *fakeStore {
	s := &fakeStore{orders: map[string]*domain.Order{}}
	for _, o := range orders {
		cp := *o
		s.orders[o.ID] = &cp
	}
	return s
}

func (s *fakeStore) setFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

func (s *fakeStore) pollCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polls
}

func (s *fakeStore) get(orderID string) *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[orderID]; ok {
		cp := *o
		return &cp
	}
	return nil
}

func (s *fakeStore) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls++

	if s.failNext != nil {
		return nil, s.failNext
	}

	o, ok := s.orders[orderID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", orderID))
	}
	cp := *o
	return &cp, nil
}

func (s *fakeStore) GetOrdersByRestaurant(ctx context.Context, restaurantID string) ([]domain.Order, error) {
	return s.listWhere(func(o *domain.Order) bool {
		return o.RestaurantID == restaurantID
	})
}

func (s *fakeStore) GetOrdersByDeliveryPerson(ctx context.Context, deliveryPersonID string) ([]domain.Order, error) {
	return s.listWhere(func(o *domain.Order) bool {
		return o.DeliveryPersonID != nil && *o.DeliveryPersonID == deliveryPersonID
	})
}

func (s *fakeStore) GetOrdersAvailableForDelivery(ctx context.Context) ([]domain.Order, error) {
	return s.listWhere(func(o *domain.Order) bool {
		accepted := o.Status == domain.StatusAcceptedByRestaurant || o.Status == domain.StatusPreparing
		return accepted && !o.Assigned()
	})
}

func (s *fakeStore) listWhere(keep func(*domain.Order) bool) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls++

	if s.failNext != nil {
		return nil, s.failNext
	}

	out := []domain.Order{}
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateOrderStatus(ctx context.Context, orderID string, requested domain.Status) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", orderID))
	}

	if err := domain.CheckTransition(o.Status, requested); err != nil {
		return nil, err
	}

	o.Status = requested
	cp := *o
	return &cp, nil
}

func (s *fakeStore) ClaimOrder(ctx context.Context, orderID, deliveryPersonID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", orderID))
	}

	if o.Assigned() {
		return nil, apperrors.NewConflictError(fmt.Sprintf("order %s already assigned", orderID))
	}

	if err := domain.CheckTransition(o.Status, domain.StatusAcceptedByDelivery); err != nil {
		return nil, err
	}

	owner := deliveryPersonID
	o.DeliveryPersonID = &owner
	o.Status = domain.StatusAcceptedByDelivery
	cp := *o
	return &cp, nil
}

func (s *fakeStore) StartDelivery(ctx context.Context, orderID, deliveryPersonID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", orderID))
	}

	if o.DeliveryPersonID == nil || *o.DeliveryPersonID != deliveryPersonID {
		return nil, apperrors.NewForbiddenError(fmt.Sprintf("order %s is not assigned to this delivery person", orderID))
	}

	if err := domain.CheckTransition(o.Status, domain.StatusOutForDelivery); err != nil {
		return nil, err
	}

	o.Status = domain.StatusOutForDelivery
	cp := *o
	return &cp, nil
}

func (s *fakeStore) VerifyDeliveryCode(ctx context.Context, orderID, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return false, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", orderID))
	}
	return o.DeliveryCode == code, nil
}
