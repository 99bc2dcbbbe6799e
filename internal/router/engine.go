package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	cartapp "github.com/qkartio/cart-service/internal/cart/app"
	catalogapp "github.com/qkartio/cart-service/internal/catalog/app"
	userapp "github.com/qkartio/cart-service/internal/user/app"
)

// New builds the HTTP surface. Authentication happens upstream; requests
// arrive with the caller's identity in the X-User-Email header and the
// Identity middleware refuses anything without it.
func New(log *slog.Logger, carts *cartapp.Service, users *userapp.Service, catalog *catalogapp.Service) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))

	h := &Handlers{
		log:     log,
		carts:   carts,
		users:   users,
		catalog: catalog,
	}

	r.GET("/healthz", h.health)

	v1 := r.Group("/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.POST("/products", h.createProduct)
	}

	auth := v1.Group("", Identity())
	{
		auth.GET("/cart", h.getCart)
		auth.POST("/cart", h.addProduct)
		auth.PUT("/cart", h.updateProduct)
		auth.DELETE("/cart/:productId", h.removeProduct)
		auth.PUT("/cart/checkout", h.checkout)
		auth.GET("/cart/quote", h.quote)

		auth.GET("/users/:userId", h.getUser)
		auth.PUT("/users/:userId", h.setAddress)
	}

	return r
}
