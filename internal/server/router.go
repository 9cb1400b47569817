package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"platefast/internal/delivery"
	"platefast/internal/order/controller"
)

func NewRouter(orderCtrl *controller.OrderController, deliveryCtrl *delivery.Controller, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		// Customer
		r.Post("/orders", orderCtrl.SubmitOrder)
		r.Get("/orders/{orderId}", orderCtrl.GetOrder)
		r.Get("/orders/{orderId}/progress", orderCtrl.GetOrderProgress)
		r.Post("/orders/{orderId}/cancel", orderCtrl.CancelOrder)

		// Restaurant
		r.Get("/restaurants/{restaurantId}/orders", orderCtrl.ListRestaurantOrders)
		r.Post("/orders/{orderId}/accept", orderCtrl.AcceptOrder)
		r.Post("/orders/{orderId}/prepare", orderCtrl.SetPreparing)

		// Delivery person
		r.Get("/delivery-persons/{deliveryPersonId}/orders", deliveryCtrl.ListAssignedOrders)
		r.Get("/delivery/available-orders", deliveryCtrl.ListAvailableOrders)
		r.Post("/orders/{orderId}/claim", deliveryCtrl.ClaimOrder)
		r.Post("/orders/{orderId}/start", deliveryCtrl.StartDelivery)
		r.Post("/orders/{orderId}/complete", deliveryCtrl.CompleteDelivery)
	})

	return r
}
