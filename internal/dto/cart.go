package dto

// CartItem is one line of a customer's cart as handed over by the cart
// collaborator. RestaurantID rides on every line; submission rejects
// carts whose lines span restaurants.
type CartItem struct {
	DishID       *string
	MenuID       *string
	RestaurantID string
	Quantity     int
	UnitPrice    float64
	Instructions *string
}
