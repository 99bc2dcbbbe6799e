package router

import (
	"strconv"
	"time"

	cartapp "github.com/qkartio/cart-service/internal/cart/app"
	cartdomain "github.com/qkartio/cart-service/internal/cart/domain"
	catalogdomain "github.com/qkartio/cart-service/internal/catalog/domain"
	userdomain "github.com/qkartio/cart-service/internal/user/domain"
)

type productResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Currency    string `json:"currency"`
	Cost        int64  `json:"cost"`
}

type cartLineResponse struct {
	Product  productResponse `json:"product"`
	Quantity int64           `json:"quantity"`
}

type cartResponse struct {
	Email     string             `json:"email"`
	CartItems []cartLineResponse `json:"cartItems"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type userResponse struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	WalletMoney int64  `json:"walletMoney"`
	Address     string `json:"address"`
}

type quoteLineResponse struct {
	ProductID     string `json:"productId"`
	Name          string `json:"name"`
	Quantity      int64  `json:"quantity"`
	Currency      string `json:"currency"`
	SnapshotPrice int64  `json:"snapshotPrice"`
	CurrentPrice  int64  `json:"currentPrice"`
	LineTotal     int64  `json:"lineTotal"`
}

type quoteResponse struct {
	Lines         []quoteLineResponse `json:"lines"`
	Currency      string              `json:"currency"`
	SnapshotTotal int64               `json:"snapshotTotal"`
	CurrentTotal  int64               `json:"currentTotal"`
}

func toProductResponse(p catalogdomain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Currency:    p.Price.Currency,
		Cost:        p.Price.Amount,
	}
}

func toSnapshotResponse(p cartdomain.ProductSnapshot) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Currency:    p.Price.Currency,
		Cost:        p.Price.Amount,
	}
}

func toCartResponse(cart cartdomain.Cart) cartResponse {
	items := make([]cartLineResponse, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, cartLineResponse{
			Product:  toSnapshotResponse(line.Product),
			Quantity: line.Quantity,
		})
	}

	return cartResponse{
		Email:     cart.Owner,
		CartItems: items,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
}

func toUserResponse(u userdomain.User) userResponse {
	return userResponse{
		Email:       u.Email,
		Name:        u.Name,
		WalletMoney: u.WalletMoney,
		Address:     u.Address,
	}
}

func toQuoteResponse(q cartapp.Quote) quoteResponse {
	lines := make([]quoteLineResponse, 0, len(q.Lines))
	for _, line := range q.Lines {
		lines = append(lines, quoteLineResponse{
			ProductID:     line.ProductID,
			Name:          line.Name,
			Quantity:      line.Quantity,
			Currency:      line.CurrentPrice.Currency,
			SnapshotPrice: line.SnapshotPrice.Amount,
			CurrentPrice:  line.CurrentPrice.Amount,
			LineTotal:     line.LineTotal.Amount,
		})
	}

	return quoteResponse{
		Lines:         lines,
		Currency:      q.CurrentTotal.Currency,
		SnapshotTotal: q.SnapshotTotal.Amount,
		CurrentTotal:  q.CurrentTotal.Amount,
	}
}

func scanInt(s string, dst *int) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}
