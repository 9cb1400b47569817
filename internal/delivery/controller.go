package delivery

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

type DeliveryStore interface {
	GetOrdersByDeliveryPerson(ctx context.Context, deliveryPersonID string) ([]domain.Order, error)
	GetOrdersAvailableForDelivery(ctx context.Context) ([]domain.Order, error)
	ClaimOrder(ctx context.Context, orderID, deliveryPersonID string) (*domain.Order, error)
	StartDelivery(ctx context.Context, orderID, deliveryPersonID string) (*domain.Order, error)
}

// Controller serves the delivery-person endpoints: the two lists and
// the claim/start/complete actions.
type Controller struct {
	store    DeliveryStore
	verifier *Verifier
	logger   *zap.Logger
}

func NewController(store DeliveryStore, verifier *Verifier, logger *zap.Logger) *Controller {
	return &Controller{
		store:    store,
		verifier: verifier,
		logger:   logger,
	}
}

func (c *Controller) ListAssignedOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orders, err := c.store.GetOrdersByDeliveryPerson(r.Context(), chi.URLParam(r, "deliveryPersonId"))
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderListResponseFrom(orders))
}

func (c *Controller) ListAvailableOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orders, err := c.store.GetOrdersAvailableForDelivery(r.Context())
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderListResponseFrom(orders))
}

// ClaimOrder assigns the caller and advances the order in one atomic
// store operation. Of two racing couriers exactly one gets 200; the
// other gets 409.
func (c *Controller) ClaimOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.ClaimOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON", logger)
		return
	}
	if req.DeliveryPersonID == "" {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "deliveryPersonId is required", logger)
		return
	}

	order, err := c.store.ClaimOrder(r.Context(), chi.URLParam(r, "orderId"), req.DeliveryPersonID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderResponseFrom(order))
}

func (c *Controller) StartDelivery(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.StartDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON", logger)
		return
	}
	if req.DeliveryPersonID == "" {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "deliveryPersonId is required", logger)
		return
	}

	order, err := c.store.StartDelivery(r.Context(), chi.URLParam(r, "orderId"), req.DeliveryPersonID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderResponseFrom(order))
}

// CompleteDelivery runs the verification handshake. A wrong code gets
// 422 and never advances the order.
func (c *Controller) CompleteDelivery(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CompleteDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON", logger)
		return
	}
	if req.DeliveryCode == "" {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "deliveryCode is required", logger)
		return
	}

	order, err := c.verifier.CompleteDelivery(r.Context(), chi.URLParam(r, "orderId"), req.DeliveryCode)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderResponseFrom(order))
}

func (c *Controller) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
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

	if _, ok := apperrors.IsVerificationError(err); ok {
		c.writeError(w, traceID, http.StatusUnprocessableEntity, "INVALID_VERIFICATION_CODE", err.Error(), logger)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", logger)
}

func (c *Controller) writeError(w http.ResponseWriter, traceID string, status int, code, message string, logger *zap.Logger) {
	response := dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	c.writeJSON(w, status, response)
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
