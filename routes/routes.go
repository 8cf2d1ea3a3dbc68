package routes

import (
	"ahara/controllers"
	"ahara/entity"
	"ahara/middlewares"
	"ahara/ws"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	JWTSecret string

	Auth       *controllers.AuthController
	Restaurant *controllers.RestaurantController
	Menu       *controllers.MenuController
	Apps       *controllers.RestaurantApplicationController
	Order      *controllers.OrderController
	Payment    *controllers.PaymentController
	Delivery   *controllers.DeliveryController
	Admin      *controllers.AdminController
	Review     *controllers.ReviewController
	Hub        *ws.OrderHub
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	auth := func(roles ...string) gin.HandlerFunc { return middlewares.AuthMiddleware(d.JWTSecret, roles...) }
	api := r.Group("/api")

	// Auth
	a := api.Group("/auth")
	{
		a.POST("/signup", d.Auth.Register)
		a.POST("/login", d.Auth.Login)
		a.POST("/restaurant/signup", d.Apps.Apply)
		a.POST("/restaurant/login", d.Auth.LoginRestaurant)
		a.GET("/me", auth(), d.Auth.Me)
	}

	// Catalog (public)
	api.GET("/restaurants", d.Restaurant.List)
	api.GET("/restaurants/:id", d.Restaurant.Get)
	api.GET("/restaurants/:id/menu", d.Restaurant.Menu)

	// Restaurant owner
	me := api.Group("/restaurants/me", auth(entity.RoleRestaurant))
	{
		me.GET("/profile", d.Restaurant.MyProfile)
		me.PUT("/profile", d.Restaurant.UpdateProfile)
	}
	menu := api.Group("/menu", auth(entity.RoleRestaurant))
	{
		menu.GET("/my-menu", d.Menu.MyMenu)
		menu.POST("", d.Menu.Create)
		menu.PUT("/:item_id", d.Menu.Update)
		menu.DELETE("/:item_id", d.Menu.Delete)
		menu.PATCH("/:item_id/toggle-availability", d.Menu.ToggleAvailability)
	}

	// Addresses
	addr := api.Group("/addresses", auth(entity.RoleCustomer))
	{
		addr.POST("", d.Restaurant.AddAddress)
		addr.GET("", d.Restaurant.Addresses)
		addr.PUT("/:id", d.Restaurant.UpdateAddress)
		addr.DELETE("/:id", d.Restaurant.DeleteAddress)
	}

	// Orders (customer)
	cust := api.Group("/orders", auth(entity.RoleCustomer))
	{
		cust.POST("/create", d.Order.Create)
		cust.POST("/payment/create", d.Payment.Create)
		cust.POST("/payment/verify", d.Payment.Verify)
		cust.GET("/my-orders", d.Order.MyOrders)
	}

	// Orders (restaurant owner)
	owner := api.Group("/orders", auth(entity.RoleRestaurant))
	{
		owner.GET("/restaurant/orders", d.Order.RestaurantOrders)
		owner.PATCH("/:id/status", d.Order.UpdateStatus)
	}

	// Order detail, visibility checked per role in the service
	api.GET("/orders/:id", auth(), d.Order.Detail)

	// Delivery partner
	api.POST("/delivery/signup", d.Auth.RegisterPartner)
	dp := api.Group("/delivery", auth(entity.RoleDeliveryPartner))
	{
		dp.PATCH("/toggle-availability", d.Delivery.ToggleAvailability)
		dp.GET("/available-orders", d.Delivery.AvailableOrders)
		dp.POST("/orders/:id/accept", d.Order.Accept)
		dp.PATCH("/orders/:id/status", d.Order.UpdateStatus)
		dp.GET("/my-deliveries", d.Delivery.MyDeliveries)
		dp.GET("/history", d.Delivery.History)
		dp.GET("/stats", d.Delivery.Stats)
	}

	// Admin
	admin := api.Group("/admin", auth(entity.RoleAdmin))
	{
		admin.GET("/stats", d.Admin.Stats)
		admin.GET("/restaurants", d.Apps.List)
		admin.PATCH("/restaurants/:id/approve", d.Apps.Approve)
		admin.PATCH("/restaurants/:id/deactivate", d.Apps.Deactivate)
		admin.GET("/orders", d.Admin.Orders)
		admin.GET("/customers", d.Admin.Customers)
		admin.GET("/delivery-partners", d.Admin.Partners)
		admin.PATCH("/delivery-partners/:id/approve", d.Admin.ApprovePartner)
		admin.PATCH("/delivery-partners/:id/deactivate", d.Admin.DeactivatePartner)
		admin.DELETE("/users/:id", d.Admin.DeleteUser)
	}

	// Reviews
	api.GET("/reviews/restaurant/:id", d.Review.RestaurantReviews)
	api.GET("/reviews/delivery-partner/:id", d.Review.PartnerReviews)
	rv := api.Group("/reviews", auth(entity.RoleCustomer))
	{
		rv.POST("", d.Review.Submit)
		rv.PUT("/:id", d.Review.Update)
		rv.DELETE("/:id", d.Review.Delete)
		rv.GET("/my-reviews", d.Review.MyReviews)
		rv.GET("/can-review/:orderId", d.Review.CanReview)
	}

	// Live order tracking
	r.GET("/ws/orders/:id", middlewares.WSAuthMiddleware(d.JWTSecret), d.Hub.HandleWebSocket)
}
