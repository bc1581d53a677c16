package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/electronics_store/internal/middleware/auth"
	"github.com/Skotchmaster/electronics_store/pkg/logging"
)

type Deps struct {
	Auth       *AuthHTTP
	Users      *UserHTTP
	Categories *CategoryHTTP
	Products   *ProductHTTP
	Carts      *CartHTTP
	Orders     *OrderHTTP

	JWTSecret []byte
	// Ready reports whether the backing store is reachable.
	Ready func(ctx context.Context) error
}

// Register mounts every route with its role requirement. The bearer filter
// runs for all of them; RequireRoles does the rejecting.
func Register(e *echo.Echo, d *Deps) {
	e.Validator = NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Error("readiness_failed", "error", err)
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("", auth.Bearer(d.JWTSecret))
	self := auth.RequireSelfOrAdmin("id")

	a := api.Group("/auth")
	a.POST("/login", d.Auth.Login)
	a.POST("/login-with-google", d.Auth.LoginWithGoogle)
	a.POST("/regenerate-jwt-token", d.Auth.Regenerate)

	u := api.Group("/users")
	u.POST("", d.Users.Create)
	u.GET("", d.Users.List, auth.AdminOnly)
	u.GET("/search/:keyword", d.Users.Search, auth.AdminOnly)
	u.GET("/email/:email", d.Users.GetByEmail)
	u.GET("/image/:id", d.Users.ServeImage)
	u.POST("/image/:id", d.Users.UploadImage, auth.AnyAccount, self)
	u.GET("/:id", d.Users.Get)
	u.PUT("/:id", d.Users.Update, auth.AnyAccount, self)
	u.DELETE("/:id", d.Users.Delete, auth.AdminOnly)

	c := api.Group("/categories")
	c.GET("", d.Categories.List)
	c.GET("/search/:keyword", d.Categories.Search)
	c.GET("/image/:id", d.Categories.ServeImage)
	c.GET("/:id", d.Categories.Get)
	c.GET("/:id/products", d.Categories.ListProducts)
	c.POST("", d.Categories.Create, auth.AdminOnly)
	c.PUT("/:id", d.Categories.Update, auth.AdminOnly)
	c.DELETE("/:id", d.Categories.Delete, auth.AdminOnly)
	c.POST("/image/:id", d.Categories.UploadImage, auth.AdminOnly)
	c.POST("/:id/products", d.Categories.CreateProduct, auth.AdminOnly)
	c.PUT("/:id/products/:productId", d.Categories.AssignProduct, auth.AdminOnly)

	p := api.Group("/products")
	p.GET("", d.Products.List)
	p.GET("/live", d.Products.ListLive)
	p.GET("/search/:keyword", d.Products.Search)
	p.GET("/image/:id", d.Products.ServeImage)
	p.GET("/:id", d.Products.Get)
	p.POST("", d.Products.Create, auth.AdminOnly)
	p.PUT("/:id", d.Products.Update, auth.AdminOnly)
	p.DELETE("/:id", d.Products.Delete, auth.AdminOnly)
	p.POST("/image/:id", d.Products.UploadImage, auth.AdminOnly)

	ct := api.Group("/carts", auth.AnyAccount)
	ct.GET("/user/:id", d.Carts.Get, self)
	ct.POST("/user/:id", d.Carts.AddItem, self)
	ct.DELETE("/user/:id", d.Carts.Clear, self)
	ct.DELETE("/cart-item/:id", d.Carts.RemoveItem)

	o := api.Group("/orders")
	o.POST("", d.Orders.Create, auth.AnyAccount)
	o.GET("/user/:id", d.Orders.ListByUser, auth.AnyAccount, self)
	o.GET("", d.Orders.List, auth.AdminOnly)
	o.DELETE("/:id", d.Orders.Delete, auth.AdminOnly)
}
