package mysql

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"platefast/internal/domain"
	"platefast/internal/errors"
	"platefast/internal/store"
)

const txTimeout = 5 * time.Second

// Store is the MySQL-backed order store. All lifecycle-gated writes run
// under row locks so the legality check and the write see one status.
type Store struct {
	db     *sql.DB
	orders *MySQLOrderRepository
	items  *MySQLOrderItemRepository
	logger *zap.Logger
}

var _ store.Store = (*Store)(nil)

func New(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		orders: NewMySQLOrderRepository(db),
		items:  NewMySQLOrderItemRepository(db),
		logger: logger,
	}
}

func (s *Store) CreateOrder(ctx context.Context, input store.CreateOrderInput) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	// MySQL ignores rollback after a commit.
	defer tx.Rollback()

	order := &domain.Order{
		ID:                  uuid.New().String(),
		CustomerID:          input.CustomerID,
		RestaurantID:        input.RestaurantID,
		Status:              domain.StatusPending,
		TotalAmount:         input.TotalAmount,
		DeliveryFee:         input.DeliveryFee,
		DeliveryAddress:     input.DeliveryAddress,
		SpecialInstructions: input.SpecialInstructions,
		DeliveryCode:        input.DeliveryCode,
	}

	if err := s.orders.Insert(txCtx, tx, order, input.PaymentMethod); err != nil {
		return nil, err
	}

	for _, line := range input.Items {
		item := domain.OrderItem{
			OrderID:      order.ID,
			DishID:       line.DishID,
			MenuID:       line.MenuID,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			Instructions: line.Instructions,
		}
		if _, err := s.items.Insert(txCtx, tx, item); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing order creation: %w", err)
	}

	s.logger.Info("order created",
		zap.String("orderId", order.ID),
		zap.String("restaurantId", order.RestaurantID),
		zap.Int("itemCount", len(input.Items)),
	)

	return s.GetOrder(ctx, order.ID)
}

func (s *Store) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := s.items.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (s *Store) GetOrdersByRestaurant(ctx context.Context, restaurantID string) ([]domain.Order, error) {
	orders, err := s.orders.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

func (s *Store) GetOrdersByDeliveryPerson(ctx context.Context, deliveryPersonID string) ([]domain.Order, error) {
	orders, err := s.orders.ListByDeliveryPerson(ctx, deliveryPersonID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

func (s *Store) GetOrdersAvailableForDelivery(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.ListAvailableForDelivery(ctx)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

func (s *Store) attachItems(ctx context.Context, orders []domain.Order) ([]domain.Order, error) {
	for i := range orders {
		items, err := s.items.ListByOrder(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, requested domain.Status) (*domain.Order, error) {
	err := s.withDeadlockRetry(ctx, func() error {
		return s.transition(ctx, orderID, requested, nil)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orderID)
}

func (s *Store) ClaimOrder(ctx context.Context, orderID, deliveryPersonID string) (*domain.Order, error) {
	err := s.withDeadlockRetry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, txTimeout)
		defer cancel()

		tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		order, err := s.orders.FindByIDForUpdate(txCtx, tx, orderID)
		if err != nil {
			return err
		}

		if order.Assigned() {
			return errors.NewConflictError(fmt.Sprintf("order %s already assigned", orderID))
		}

		if err := domain.CheckTransition(order.Status, domain.StatusAcceptedByDelivery); err != nil {
			return err
		}

		if err := s.orders.Claim(txCtx, tx, orderID, deliveryPersonID); err != nil {
			return err
		}

		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order claimed",
		zap.String("orderId", orderID),
		zap.String("deliveryPersonId", deliveryPersonID),
	)

	return s.GetOrder(ctx, orderID)
}

func (s *Store) StartDelivery(ctx context.Context, orderID, deliveryPersonID string) (*domain.Order, error) {
	err := s.withDeadlockRetry(ctx, func() error {
		return s.transition(ctx, orderID, domain.StatusOutForDelivery, &deliveryPersonID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orderID)
}

// transition runs a lifecycle-gated status write. When owner is set the
// order must be assigned to that delivery person.
func (s *Store) transition(ctx context.Context, orderID string, requested domain.Status, owner *string) error {
	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.orders.FindByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return err
	}

	if owner != nil {
		if order.DeliveryPersonID == nil || *order.DeliveryPersonID != *owner {
			return errors.NewForbiddenError(fmt.Sprintf("order %s is not assigned to this delivery person", orderID))
		}
	}

	if err := domain.CheckTransition(order.Status, requested); err != nil {
		s.logger.Warn("illegal transition rejected",
			zap.String("orderId", orderID),
			zap.String("current", string(order.Status)),
			zap.String("requested", string(requested)),
		)
		return err
	}

	if err := s.orders.UpdateStatus(txCtx, tx, orderID, requested); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) VerifyDeliveryCode(ctx context.Context, orderID, code string) (bool, error) {
	stored, err := s.orders.DeliveryCode(ctx, orderID)
	if err != nil {
		return false, err
	}

	// Exact string equality, no normalization.
	return stored == code, nil
}

// withDeadlockRetry retries lock-contention failures with a short
// jittered backoff. Claim races on hot orders are the expected trigger.
func (s *Store) withDeadlockRetry(ctx context.Context, fn func() error) error {
	const maxAttempts = 3
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil || !isDeadlockError(lastErr) {
			return lastErr
		}

		if attempt < maxAttempts {
			jitter := time.Duration(float64(backoffs[attempt]) * (0.8 + rand.Float64()*0.4))
			s.logger.Warn("deadlock detected, retrying",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", maxAttempts),
			)
			select {
			case <-time.After(jitter):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return errors.NewInternalError("max deadlock retries exceeded", lastErr)
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if stderrors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
