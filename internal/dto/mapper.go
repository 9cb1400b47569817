package dto

import "platefast/internal/domain"

func OrderResponseFrom(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			DishID:       item.DishID,
			MenuID:       item.MenuID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Instructions: item.Instructions,
		}
	}

	return OrderResponse{
		OrderID:             order.ID,
		CustomerID:          order.CustomerID,
		RestaurantID:        order.RestaurantID,
		DeliveryPersonID:    order.DeliveryPersonID,
		Status:              string(order.Status),
		Items:               items,
		TotalAmount:         order.TotalAmount,
		DeliveryFee:         order.DeliveryFee,
		DeliveryAddress:     order.DeliveryAddress,
		SpecialInstructions: order.SpecialInstructions,
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
	}
}

func OrderListResponseFrom(orders []domain.Order) OrderListResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = OrderResponseFrom(&orders[i])
	}
	return OrderListResponse{Orders: out}
}

func ProgressResponseFrom(order *domain.Order) ProgressResponse {
	resp := ProgressResponse{
		OrderID: order.ID,
		Status:  string(order.Status),
		Stages:  domain.ProgressStages(),
	}

	stage, onPath := domain.ProgressIndex(order.Status)
	if onPath {
		resp.Stage = stage
	} else {
		resp.Cancelled = order.Status == domain.StatusCancelled
	}

	return resp
}
