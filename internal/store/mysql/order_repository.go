package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"platefast/internal/domain"
	"platefast/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, customerId, restaurantId, deliveryPersonId, status,
       totalAmount, deliveryFee, deliveryAddress, specialInstructions,
       deliveryCode, createdAt, updatedAt`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.CustomerID, &order.RestaurantID, &order.DeliveryPersonID,
		&order.Status, &order.TotalAmount, &order.DeliveryFee, &order.DeliveryAddress,
		&order.SpecialInstructions, &order.DeliveryCode,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Insert persists a new order. The payment method token is stored for
// the downstream payment flow but never surfaced on order reads.
func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order *domain.Order, paymentMethod string) error {
	query := `
		INSERT INTO Orders (id, customerId, restaurantId, status, totalAmount,
		                    deliveryFee, deliveryAddress, specialInstructions,
		                    paymentMethod, deliveryCode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		order.ID, order.CustomerID, order.RestaurantID, order.Status,
		order.TotalAmount, order.DeliveryFee, order.DeliveryAddress,
		order.SpecialInstructions, paymentMethod, order.DeliveryCode,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM Orders WHERE id = ?`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

// FindByIDForUpdate takes a row lock so that the legality check and the
// subsequent status write observe the same status.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM Orders WHERE id = ? FOR UPDATE`, orderColumns)

	order, err := scanOrder(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order for update: %w", err)
	}

	return order, nil
}

func (r *MySQLOrderRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM Orders WHERE restaurantId = ? ORDER BY createdAt DESC`, orderColumns)
	return r.list(ctx, query, restaurantID)
}

func (r *MySQLOrderRepository) ListByDeliveryPerson(ctx context.Context, deliveryPersonID string) ([]domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM Orders WHERE deliveryPersonId = ? ORDER BY createdAt DESC`, orderColumns)
	return r.list(ctx, query, deliveryPersonID)
}

func (r *MySQLOrderRepository) ListAvailableForDelivery(ctx context.Context) ([]domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM Orders
		WHERE deliveryPersonId IS NULL AND status IN (?, ?)
		ORDER BY createdAt ASC
	`, orderColumns)
	return r.list(ctx, query, domain.StatusAcceptedByRestaurant, domain.StatusPreparing)
}

func (r *MySQLOrderRepository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status domain.Status) error {
	query := `UPDATE Orders SET status = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}

	return nil
}

// Claim assigns the delivery person and advances the status in a single
// conditional write. Zero rows affected means the order was claimed by
// someone else between the read and this write.
func (r *MySQLOrderRepository) Claim(ctx context.Context, tx *sql.Tx, id, deliveryPersonID string) error {
	query := `
		UPDATE Orders SET deliveryPersonId = ?, status = ?
		WHERE id = ? AND deliveryPersonId IS NULL
	`

	result, err := tx.ExecContext(ctx, query, deliveryPersonID, domain.StatusAcceptedByDelivery, id)
	if err != nil {
		return fmt.Errorf("claiming order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewConflictError(fmt.Sprintf("order %s already assigned", id))
	}

	return nil
}

func (r *MySQLOrderRepository) DeliveryCode(ctx context.Context, id string) (string, error) {
	query := `SELECT deliveryCode FROM Orders WHERE id = ?`

	var code string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&code)
	if err == sql.ErrNoRows {
		return "", errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return "", fmt.Errorf("querying delivery code: %w", err)
	}

	return code, nil
}
