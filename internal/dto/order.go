package dto

import "time"

type SubmitOrderRequest struct {
	CustomerID          string  `json:"customerId"`
	DeliveryAddress     string  `json:"deliveryAddress"`
	PaymentMethod       string  `json:"paymentMethod"`
	SpecialInstructions *string `json:"specialInstructions,omitempty"`
}

type ClaimOrderRequest struct {
	DeliveryPersonID string `json:"deliveryPersonId"`
}

type StartDeliveryRequest struct {
	DeliveryPersonID string `json:"deliveryPersonId"`
}

type CompleteDeliveryRequest struct {
	DeliveryCode string `json:"deliveryCode"`
}

type OrderItemResponse struct {
	DishID       *string `json:"dishId,omitempty"`
	MenuID       *string `json:"menuId,omitempty"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	Instructions *string `json:"instructions,omitempty"`
}

// OrderResponse never carries the delivery code. The code reaches the
// delivery person out-of-band, from the customer at hand-off.
type OrderResponse struct {
	OrderID             string              `json:"orderId"`
	CustomerID          string              `json:"customerId"`
	RestaurantID        string              `json:"restaurantId"`
	DeliveryPersonID    *string             `json:"deliveryPersonId,omitempty"`
	Status              string              `json:"status"`
	Items               []OrderItemResponse `json:"items"`
	TotalAmount         float64             `json:"totalAmount"`
	DeliveryFee         float64             `json:"deliveryFee"`
	DeliveryAddress     string              `json:"deliveryAddress"`
	SpecialInstructions *string             `json:"specialInstructions,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type ProgressResponse struct {
	OrderID   string `json:"orderId"`
	Status    string `json:"status"`
	Stage     int    `json:"stage"`
	Stages    int    `json:"stages"`
	Cancelled bool   `json:"cancelled"`
}

type ErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
