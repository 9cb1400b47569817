package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platefast/internal/testutil"
)

func TestCartRepository_GetCart_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLCartRepository(db)

	items, err := repo.GetCart(context.Background(), "customer-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartRepository_GetCart_ReturnsLinesInInsertionOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	_, err := db.Exec(`
		INSERT INTO CartItems (customerId, dishId, restaurantId, quantity, unitPrice, instructions)
		VALUES ('customer-1', 'dish-1', 'restaurant-1', 1, 8.99, NULL),
		       ('customer-1', 'dish-2', 'restaurant-1', 2, 4.99, 'extra sauce'),
		       ('customer-2', 'dish-3', 'restaurant-2', 1, 3.50, NULL)
	`)
	require.NoError(t, err)

	repo := NewMySQLCartRepository(db)

	items, err := repo.GetCart(context.Background(), "customer-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "dish-1", *items[0].DishID)
	assert.Equal(t, "dish-2", *items[1].DishID)
	assert.Equal(t, 2, items[1].Quantity)
	assert.InDelta(t, 4.99, items[1].UnitPrice, 0.001)
	assert.Equal(t, "extra sauce", *items[1].Instructions)
}

func TestCartRepository_ClearCart_OnlyThisCustomer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	_, err := db.Exec(`
		INSERT INTO CartItems (customerId, dishId, restaurantId, quantity, unitPrice)
		VALUES ('customer-1', 'dish-1', 'restaurant-1', 1, 8.99),
		       ('customer-2', 'dish-2', 'restaurant-2', 1, 4.99)
	`)
	require.NoError(t, err)

	repo := NewMySQLCartRepository(db)

	require.NoError(t, repo.ClearCart(context.Background(), "customer-1"))

	items, err := repo.GetCart(context.Background(), "customer-1")
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = repo.GetCart(context.Background(), "customer-2")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
