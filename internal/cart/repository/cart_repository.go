package repository

import (
	"context"
	"database/sql"
	"fmt"

	"platefast/internal/dto"
)

// MySQLCartRepository is the server-side cart backing the submission
// flow. Prices on cart lines are the authoritative snapshot taken when
// the line was added.
type MySQLCartRepository struct {
	db *sql.DB
}

func NewMySQLCartRepository(db *sql.DB) *MySQLCartRepository {
	return &MySQLCartRepository{db: db}
}

func (r *MySQLCartRepository) GetCart(ctx context.Context, customerID string) ([]dto.CartItem, error) {
	query := `
		SELECT dishId, menuId, restaurantId, quantity, unitPrice, instructions
		FROM CartItems
		WHERE customerId = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("querying cart: %w", err)
	}
	defer rows.Close()

	items := []dto.CartItem{}
	for rows.Next() {
		var item dto.CartItem
		err := rows.Scan(
			&item.DishID, &item.MenuID, &item.RestaurantID,
			&item.Quantity, &item.UnitPrice, &item.Instructions,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning cart row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cart rows: %w", err)
	}

	return items, nil
}

func (r *MySQLCartRepository) ClearCart(ctx context.Context, customerID string) error {
	query := `DELETE FROM CartItems WHERE customerId = ?`

	if _, err := r.db.ExecContext(ctx, query, customerID); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}

	return nil
}
