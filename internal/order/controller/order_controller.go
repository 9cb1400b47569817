package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"platefast/internal/domain"
	"platefast/internal/dto"
	apperrors "platefast/internal/errors"
)

type SubmitOrderUseCase interface {
	SubmitOrder(ctx context.Context, req dto.SubmitOrderRequest) (*domain.Order, error)
}

type OrderStore interface {
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	GetOrdersByRestaurant(ctx context.Context, restaurantID string) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, requested domain.Status) (*domain.Order, error)
}

// OrderController serves the customer submission/tracking endpoints and
// the two restaurant actions.
type OrderController struct {
	submit SubmitOrderUseCase
	store  OrderStore
	logger *zap.Logger
}

func NewOrderController(submit SubmitOrderUseCase, store OrderStore, logger *zap.Logger) *OrderController {
	return &OrderController{
		submit: submit,
		store:  store,
		logger: logger,
	}
}

func (c *OrderController) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON", logger)
		return
	}

	if req.CustomerID == "" {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "customerId is required", logger)
		return
	}

	order, err := c.submit.SubmitOrder(r.Context(), req)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.OrderResponseFrom(order))
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	order, err := c.store.GetOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderResponseFrom(order))
}

func (c *OrderController) GetOrderProgress(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	order, err := c.store.GetOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.ProgressResponseFrom(order))
}

func (c *OrderController) ListRestaurantOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orders, err := c.store.GetOrdersByRestaurant(r.Context(), chi.URLParam(r, "restaurantId"))
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderListResponseFrom(orders))
}

// AcceptOrder is the restaurant accepting a PENDING order.
func (c *OrderController) AcceptOrder(w http.ResponseWriter, r *http.Request) {
	c.updateStatus(w, r, domain.StatusAcceptedByRestaurant)
}

// SetPreparing marks the order as being prepared.
func (c *OrderController) SetPreparing(w http.ResponseWriter, r *http.Request) {
	c.updateStatus(w, r, domain.StatusPreparing)
}

// CancelOrder cancels any non-terminal order.
func (c *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	c.updateStatus(w, r, domain.StatusCancelled)
}

func (c *OrderController) updateStatus(w http.ResponseWriter, r *http.Request, requested domain.Status) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	order, err := c.store.UpdateOrderStatus(r.Context(), chi.URLParam(r, "orderId"), requested)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderResponseFrom(order))
}

func (c *OrderController) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeError(w, traceID, http.StatusBadRequest, ve.Code, ve.Message, logger)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsIllegalTransitionError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "ILLEGAL_TRANSITION", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "CONFLICT", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsForbiddenError(err); ok {
		c.writeError(w, traceID, http.StatusForbidden, "FORBIDDEN", err.Error(), logger)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", logger)
}

func (c *OrderController) writeError(w http.ResponseWriter, traceID string, status int, code, message string, logger *zap.Logger) {
	response := dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	c.writeJSON(w, status, response)
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
