package routes

import (
	"net/http"

	"checkout-service/controllers"
	"checkout-service/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the HTTP surface. Everything except the health probe
// sits behind the auth middleware.
func RegisterRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	cartController *controllers.CartController,
	checkoutController *controllers.CheckoutController,
	orderController *controllers.OrderController,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(jwtSecret))

	cart := auth.Group("/cart")
	cart.GET("", cartController.GetCart)
	cart.POST("/items/:item_id", cartController.AddItem)
	cart.DELETE("/items/:id", cartController.RemoveItem)

	auth.POST("/checkout", checkoutController.CreateOrder)

	orders := auth.Group("/orders")
	orders.GET("", orderController.GetOrders)
	orders.GET("/:id", orderController.GetOrderByID)
}
