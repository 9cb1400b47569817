package domain

import "time"

// Status is the single source of truth for where an order sits in its
// lifecycle. Orders are never deleted; they terminate in DELIVERED or
// CANCELLED.
type Status string

const (
	StatusPending              Status = "PENDING"
	StatusAcceptedByRestaurant Status = "ACCEPTED_BY_RESTAURANT"
	StatusPreparing            Status = "PREPARING"
	StatusAcceptedByDelivery   Status = "ACCEPTED_BY_DELIVERY"
	StatusOutForDelivery       Status = "OUT_FOR_DELIVERY"
	StatusDelivered            Status = "DELIVERED"
	StatusCancelled            Status = "CANCELLED"
)

type Order struct {
	ID                  string
	CustomerID          string
	RestaurantID        string
	DeliveryPersonID    *string
	Status              Status
	Items               []OrderItem
	TotalAmount         float64
	DeliveryFee         float64
	DeliveryAddress     string
	SpecialInstructions *string
	// DeliveryCode is set exactly once at creation and exchanged
	// out-of-band at hand-off. It never travels to the delivery
	// person through this API.
	DeliveryCode string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem is one cart line frozen at submission time. Exactly one of
// DishID and MenuID is set; UnitPrice is the authoritative server-side
// price snapshot.
type OrderItem struct {
	ID           uint
	OrderID      string
	DishID       *string
	MenuID       *string
	Quantity     int
	UnitPrice    float64
	Instructions *string
}

// Assigned reports whether a delivery person has claimed the order.
func (o *Order) Assigned() bool {
	return o.DeliveryPersonID != nil && *o.DeliveryPersonID != ""
}
