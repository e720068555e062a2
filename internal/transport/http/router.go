package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/pistanero/storefront/internal/handlers"
	authmw "github.com/pistanero/storefront/internal/middleware/auth"
	"github.com/pistanero/storefront/internal/middleware/ratelim"
)

type Deps struct {
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	SearchHandler   *handlers.SearchHandler
	CartHandler     *handlers.CartHandler
	CheckoutHandler *handlers.CheckoutHandler
	OrderHandler    *handlers.OrderHandler
	EventHandler    *handlers.EventHandler
	UserHandler     *handlers.UserHandler
	UploadHandler   *handlers.UploadHandler
	Tokens          *authmw.TokenService
	LoginLimiter    *ratelim.RateLimiter
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register, d.LoginLimiter.Middleware)
	v1.POST("/login", d.AuthHandler.Login, d.LoginLimiter.Middleware)
	v1.POST("/logout", d.AuthHandler.LogOut)

	v1.GET("/products", d.ProductHandler.ListProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)
	v1.GET("/search", d.SearchHandler.Search)
	v1.GET("/events", d.EventHandler.ListEvents)

	me := v1.Group("/me", d.Tokens.RequireUser)
	me.GET("", d.AuthHandler.Me)
	me.DELETE("", d.AuthHandler.DeleteAccount)

	cart := v1.Group("/cart", d.Tokens.RequireUser)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("/:id", d.CartHandler.UpdateQuantity)
	cart.DELETE("/:id", d.CartHandler.RemoveFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)

	co := v1.Group("/checkout", d.Tokens.RequireUser)
	co.POST("", d.CheckoutHandler.Begin)
	co.GET("", d.CheckoutHandler.Get)
	co.PUT("/delivery", d.CheckoutHandler.SetDelivery)
	co.PUT("/transaction", d.CheckoutHandler.SetTransaction)
	co.POST("/back", d.CheckoutHandler.BackToCart)
	co.POST("/submit", d.CheckoutHandler.Submit)
	co.DELETE("", d.CheckoutHandler.Abandon)

	v1.GET("/orders", d.OrderHandler.MyOrders, d.Tokens.RequireUser)

	admin := v1.Group("/admin", d.Tokens.RequireAdmin)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.UpdateProduct)
	admin.POST("/products/:id/featured", d.ProductHandler.ToggleFeatured)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	admin.GET("/orders", d.OrderHandler.ListAll)
	admin.PATCH("/orders/:id/status", d.OrderHandler.SetStatus)
	admin.GET("/stats", d.OrderHandler.Stats)

	admin.POST("/events", d.EventHandler.CreateEvent)
	admin.PATCH("/events/:id", d.EventHandler.UpdateEvent)
	admin.DELETE("/events/:id", d.EventHandler.DeleteEvent)

	admin.GET("/users", d.UserHandler.ListUsers)
	admin.GET("/users/:id/orders", d.UserHandler.UserOrders)

	admin.POST("/uploads", d.UploadHandler.UploadImages)
}
