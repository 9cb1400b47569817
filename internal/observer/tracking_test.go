package observer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"platefast/internal/domain"
)

func trackedOrder(status domain.Status) *domain.Order {
	return &domain.Order{
		ID:           "order-1",
		CustomerID:   "customer-1",
		RestaurantID: "restaurant-1",
		Status:       status,
		CreatedAt:    time.Now().Add(-10 * time.Minute),
	}
}

func TestTrackingObserver_ProgressOnHappyPath(t *testing.T) {
	tests := []struct {
		status domain.Status
		stage  int
	}{
		{domain.StatusPending, 0},
		{domain.StatusAcceptedByRestaurant, 1},
		{domain.StatusPreparing, 2},
		{domain.StatusAcceptedByDelivery, 3},
		{domain.StatusOutForDelivery, 4},
		{domain.StatusDelivered, 5},
	}

	for _, tt := range tests {
		store := newFakeStore(trackedOrder(tt.status))
		o := NewTrackingObserver(store, "order-1", time.Second, zap.NewNop())
		o.refresh(context.Background())

		p, ok := o.Progress()
		require.True(t, ok, "status %s", tt.status)
		assert.Equal(t, tt.stage, p.Stage, "status %s", tt.status)
		assert.Equal(t, 6, p.Stages)
		assert.False(t, p.Cancelled)
	}
}

func TestTrackingObserver_CancelledIsItsOwnBranch(t *testing.T) {
	store := newFakeStore(trackedOrder(domain.StatusCancelled))
	o := NewTrackingObserver(store, "order-1", time.Second, zap.NewNop())
	o.refresh(context.Background())

	p, ok := o.Progress()
	require.True(t, ok)
	assert.True(t, p.Cancelled)
	assert.Equal(t, 0, p.Stage, "cancellation is not a position on the happy path")
}

func TestTrackingObserver_NoStateBeforeFirstPoll(t *testing.T) {
	store := newFakeStore()
	o := NewTrackingObserver(store, "order-1", time.Second, zap.NewNop())

	assert.Nil(t, o.Order())
	_, ok := o.Progress()
	assert.False(t, ok)
	_, ok = o.Elapsed()
	assert.False(t, ok)
}

func TestTrackingObserver_OrderNotYetExisting(t *testing.T) {
	store := newFakeStore()
	o := NewTrackingObserver(store, "order-1", time.Second, zap.NewNop())

	// Polling an order the store does not know yet is tolerated.
	o.refresh(context.Background())
	assert.Nil(t, o.Order())
}

func TestTrackingObserver_StaleButPresent(t *testing.T) {
	store := newFakeStore(trackedOrder(domain.StatusPreparing))
	o := NewTrackingObserver(store, "order-1", time.Second, zap.NewNop())
	o.refresh(context.Background())
	require.NotNil(t, o.Order())

	store.setFailure(errors.New("network error"))
	o.refresh(context.Background())

	order := o.Order()
	require.NotNil(t, order, "transient failure keeps the last observed state")
	assert.Equal(t, domain.StatusPreparing, order.Status)
}

func TestTrackingObserver_Elapsed(t *testing.T) {
	store := newFakeStore(trackedOrder(domain.StatusPreparing))
	o := NewTrackingObserver(store, "order-1", time.Second, zap.NewNop())
	o.refresh(context.Background())

	elapsed, ok := o.Elapsed()
	require.True(t, ok)
	assert.Greater(t, elapsed, 9*time.Minute)
}

func TestTrackingObserver_RunStopsOnCancel(t *testing.T) {
	store := newFakeStore(trackedOrder(domain.StatusPending))
	o := NewTrackingObserver(store, "order-1", 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		o.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("observer did not stop after cancellation")
	}

	polls := store.pollCount()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, polls, store.pollCount())
}
