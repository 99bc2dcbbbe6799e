package router

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qkartio/cart-service/internal/apperr"
	cartapp "github.com/qkartio/cart-service/internal/cart/app"
	catalogapp "github.com/qkartio/cart-service/internal/catalog/app"
	userapp "github.com/qkartio/cart-service/internal/user/app"
)

type Handlers struct {
	log     *slog.Logger
	carts   *cartapp.Service
	users   *userapp.Service
	catalog *catalogapp.Service
}

func (h *Handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

type addProductRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity"`
}

type updateProductRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
}

type setAddressRequest struct {
	Address string `json:"address" binding:"required"`
}

type createProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Currency    string `json:"currency" binding:"required"`
	Cost        int64  `json:"cost" binding:"required"`
}

func (h *Handlers) getCart(c *gin.Context) {
	cart, err := h.carts.GetCart(c.Request.Context(), ownerFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *Handlers) addProduct(c *gin.Context) {
	var req addProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperr.New(apperr.CodeInvalidRequest, "productId is required"))
		return
	}

	// Omitted quantity means one of the product.
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.carts.AddProduct(c.Request.Context(), ownerFrom(c), req.ProductID, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCartResponse(cart))
}

func (h *Handlers) updateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperr.New(apperr.CodeInvalidRequest, "productId and quantity are required"))
		return
	}

	cart, err := h.carts.UpdateProduct(c.Request.Context(), ownerFrom(c), req.ProductID, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *Handlers) removeProduct(c *gin.Context) {
	err := h.carts.RemoveProduct(c.Request.Context(), ownerFrom(c), c.Param("productId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) checkout(c *gin.Context) {
	cart, err := h.carts.Checkout(c.Request.Context(), ownerFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *Handlers) quote(c *gin.Context) {
	quote, err := h.carts.Quote(c.Request.Context(), ownerFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

func (h *Handlers) getUser(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), ownerFrom(c), c.Param("userId"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	if c.Query("q") == "address" {
		c.JSON(http.StatusOK, gin.H{"address": user.Address})
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handlers) setAddress(c *gin.Context) {
	var req setAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperr.New(apperr.CodeInvalidRequest, "address is required"))
		return
	}

	address, err := h.users.SetAddress(c.Request.Context(), ownerFrom(c), c.Param("userId"), req.Address)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": address})
}

func (h *Handlers) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperr.New(apperr.CodeInvalidRequest, "name, currency and cost are required"))
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), req.Name, req.Description, req.Currency, req.Cost)
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product))
}

func (h *Handlers) getProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *Handlers) listProducts(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		// Bad limits fall back to the service default.
		_ = scanInt(v, &limit)
	}

	products, nextCursor, err := h.catalog.ListProducts(c.Request.Context(), c.Query("query"), limit, c.Query("cursor"))
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out, "nextCursor": nextCursor})
}

// The catalog service reports plain sentinels; translate them at the edge.
func (h *Handlers) writeCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalogapp.ErrInvalidInput):
		h.writeError(c, apperr.New(apperr.CodeInvalidRequest, "Invalid product input"))
	case errors.Is(err, catalogapp.ErrNotFound):
		h.writeError(c, apperr.New(apperr.CodeNotFound, "Product not found"))
	default:
		h.writeError(c, err)
	}
}
