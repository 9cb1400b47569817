package observer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"platefast/internal/domain"
)

type TrackingStore interface {
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
}

// Progress is the customer-facing position of an order. Stage indexes
// the canonical forward sequence; a cancelled order has no stage and is
// rendered as its own terminal branch, never as a regression.
type Progress struct {
	Status    domain.Status
	Stage     int
	Stages    int
	Cancelled bool
}

// TrackingObserver polls a single order for the customer. It holds no
// mutation rights; a transient fetch failure or a not-yet-visible order
// keeps the last successfully observed state (stale beats blank).
type TrackingObserver struct {
	store    TrackingStore
	orderID  string
	interval time.Duration
	logger   *zap.Logger

	mu    sync.Mutex
	order *domain.Order
}

func NewTrackingObserver(store TrackingStore, orderID string, interval time.Duration, logger *zap.Logger) *TrackingObserver {
	return &TrackingObserver{
		store:    store,
		orderID:  orderID,
		interval: interval,
		logger:   logger,
	}
}

func (o *TrackingObserver) Run(ctx context.Context) {
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

func (o *TrackingObserver) refresh(ctx context.Context) {
	order, err := o.store.GetOrder(ctx, o.orderID)
	if err != nil {
		o.logger.Debug("tracking poll failed, keeping last observed state",
			zap.String("orderId", o.orderID),
			zap.Error(err),
		)
		return
	}

	if ctx.Err() != nil {
		return
	}

	o.mu.Lock()
	o.order = order
	o.mu.Unlock()
}

// Order returns a copy of the last observed order, or nil before the
// first successful poll.
func (o *TrackingObserver) Order() *domain.Order {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.order == nil {
		return nil
	}
	cp := *o.order
	return &cp
}

// Progress reports the observed lifecycle position. ok is false before
// the first successful poll.
func (o *TrackingObserver) Progress() (Progress, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.order == nil {
		return Progress{}, false
	}

	p := Progress{
		Status: o.order.Status,
		Stages: domain.ProgressStages(),
	}

	stage, onPath := domain.ProgressIndex(o.order.Status)
	if onPath {
		p.Stage = stage
	} else {
		p.Cancelled = o.order.Status == domain.StatusCancelled
	}

	return p, true
}

// Elapsed is the wall-clock time since the order was placed, computed
// against the already-fetched creation timestamp so it can be re-read
// on a faster cadence than the data poll.
func (o *TrackingObserver) Elapsed() (time.Duration, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.order == nil {
		return 0, false
	}
	return time.Since(o.order.CreatedAt), true
}
