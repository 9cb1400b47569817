package mysql

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"platefast/internal/domain"
	"platefast/internal/dto"
	apperrors "platefast/internal/errors"
	"platefast/internal/store"
	"platefast/internal/testutil"
)

func strPtr(s string) *string {
	return &s
}

func createInput() store.CreateOrderInput {
	return store.CreateOrderInput{
		CustomerID:   "customer-1",
		RestaurantID: "restaurant-1",
		Items: []dto.CartItem{
			{DishID: strPtr("dish-1"), RestaurantID: "restaurant-1", Quantity: 1, UnitPrice: 8.99},
			{DishID: strPtr("dish-2"), RestaurantID: "restaurant-1", Quantity: 2, UnitPrice: 4.99, Instructions: strPtr("extra sauce")},
		},
		TotalAmount:     21.96,
		DeliveryFee:     2.99,
		DeliveryAddress: "123 Main St",
		PaymentMethod:   "pm-token",
		DeliveryCode:    "482913",
	}
}

// Integration tests; skipped when the test database is unreachable.

func TestStore_CreateOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	s := New(db, zap.NewNop())

	order, err := s.CreateOrder(context.Background(), createInput())
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, "customer-1", order.CustomerID)
	assert.Equal(t, "restaurant-1", order.RestaurantID)
	assert.Nil(t, order.DeliveryPersonID)
	assert.InDelta(t, 21.96, order.TotalAmount, 0.001)
	assert.InDelta(t, 2.99, order.DeliveryFee, 0.001)
	assert.Equal(t, "482913", order.DeliveryCode)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[1].Quantity)
	assert.Equal(t, "extra sauce", *order.Items[1].Instructions)
}

func TestStore_GetOrder_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	s := New(db, zap.NewNop())

	_, err := s.GetOrder(context.Background(), "missing")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestStore_UpdateOrderStatus_LegalPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	s := New(db, zap.NewNop())
	order, err := s.CreateOrder(context.Background(), createInput())
	require.NoError(t, err)

	updated, err := s.UpdateOrderStatus(context.Background(), order.ID, domain.StatusAcceptedByRestaurant)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAcceptedByRestaurant, updated.Status)

	updated, err = s.UpdateOrderStatus(context.Background(), order.ID, domain.StatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, updated.Status)
}

func TestStore_UpdateOrderStatus_IllegalTransitionRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	s := New(db, zap.NewNop())
	order, err := s.CreateOrder(context.Background(), createInput())
	require.NoError(t, err)

	_, err = s.UpdateOrderStatus(context.Background(), order.ID, domain.StatusDelivered)
	ite, ok := apperrors.IsIllegalTransitionError(err)
	require.True(t, ok)
	assert.Equal(t, string(domain.StatusPending), ite.Current)
	assert.Equal(t, string(domain.StatusDelivered), ite.Requested)

	// A rejected request must not touch the stored status.
	current, err := s.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, current.Status)
}

func TestStore_ClaimOrder_RaceHasOneWinner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	s := New(db, zap.NewNop())
	order, err := s.CreateOrder(context.Background(), createInput())
	require.NoError(t, err)
	_, err = s.UpdateOrderStatus(context.Background(), order.ID, domain.StatusAcceptedByRestaurant)
	require.NoError(t, err)

	couriers := []string{"courier-1", "courier-2"}
	results := make([]error, len(couriers))

	var wg sync.WaitGroup
	for i, courier := range couriers {
		wg.Add(1)
		go func(i int, courier string) {
			defer wg.Done()
			_, results[i] = s.ClaimOrder(context.Background(), order.ID, courier)
		}(i, courier)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			_, ok := apperrors.IsConflictError(err)
			assert.True(t, ok, "loser must get a conflict, got %v", err)
		}
	}
	assert.Equal(t, 1, winners)

	claimed, err := s.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, claimed.DeliveryPersonID)
	assert.Equal(t, domain.StatusAcceptedByDelivery, claimed.Status)
}

func TestStore_ClaimOrder_VanishesFromAvailableList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	s := New(db, zap.NewNop())
	order, err := s.CreateOrder(context.Background(), createInput())
	require.NoError(t, err)
	_, err = s.UpdateOrderStatus(context.Background(), order.ID, domain.StatusAcceptedByRestaurant)
	require.NoError(t, err)

	available, err := s.GetOrdersAvailableForDelivery(context.Background())
	require.NoError(t, err)
	require.Len(t, available, 1)

	_, err = s.ClaimOrder(context.Background(), order.ID, "courier-1")
	require.NoError(t, err)

	available, err = s.GetOrdersAvailableForDelivery(context.Background())
	require.NoError(t, err)
	assert.Empty(t, available)

	assigned, err := s.GetOrdersByDeliveryPerson(context.Background(), "courier-1")
	require.NoError(t, err)
	assert.Len(t, assigned, 1)
}

func TestStore_StartDelivery_OwnershipEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	s := New(db, zap.NewNop())
	order, err := s.CreateOrder(context.Background(), createInput())
	require.NoError(t, err)
	_, err = s.UpdateOrderStatus(context.Background(), order.ID, domain.StatusAcceptedByRestaurant)
	require.NoError(t, err)
	_, err = s.ClaimOrder(context.Background(), order.ID, "courier-1")
	require.NoError(t, err)

	_, err = s.StartDelivery(context.Background(), order.ID, "courier-2")
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok)

	started, err := s.StartDelivery(context.Background(), order.ID, "courier-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOutForDelivery, started.Status)
}

func TestStore_VerifyDeliveryCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	s := New(db, zap.NewNop())
	order, err := s.CreateOrder(context.Background(), createInput())
	require.NoError(t, err)

	ok, err := s.VerifyDeliveryCode(context.Background(), order.ID, "482913")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.VerifyDeliveryCode(context.Background(), order.ID, "000000")
	require.NoError(t, err)
	assert.False(t, ok, "mismatch is a negative result, not an error")

	_, err = s.VerifyDeliveryCode(context.Background(), "missing", "482913")
	_, notFound := apperrors.IsNotFoundError(err)
	assert.True(t, notFound)
}

func TestStore_GetOrdersByRestaurant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	s := New(db, zap.NewNop())

	_, err := s.CreateOrder(context.Background(), createInput())
	require.NoError(t, err)

	other := createInput()
	other.RestaurantID = "restaurant-2"
	other.Items = []dto.CartItem{
		{DishID: strPtr("dish-9"), RestaurantID: "restaurant-2", Quantity: 1, UnitPrice: 5.00},
	}
	_, err = s.CreateOrder(context.Background(), other)
	require.NoError(t, err)

	orders, err := s.GetOrdersByRestaurant(context.Background(), "restaurant-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "restaurant-1", orders[0].RestaurantID)
	assert.Len(t, orders[0].Items, 2)
}
