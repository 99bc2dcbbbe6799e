package domain

import (
	"errors"
	"time"
)

type Money struct {
	Currency string
	Amount   int64
}

// ProductSnapshot is a copy of the product captured when the line was added.
// Catalog price changes never reach an existing line; replacing the line is
// the only way to re-price it.
type ProductSnapshot struct {
	ID          string
	Name        string
	Description string
	Price       Money
}

type CartLine struct {
	Product  ProductSnapshot
	Quantity int64
}

// Cart holds one user's lines in insertion order. At most one cart exists
// per owner key.
type Cart struct {
	Owner     string
	Lines     []CartLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

var ErrMixedCurrencies = errors.New("cart lines have mixed currencies")

// LineIndex returns the position of the line for productID, or -1.
func (c Cart) LineIndex(productID string) int {
	for i, line := range c.Lines {
		if line.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total sums price x quantity over all lines at the snapshot prices.
func (c Cart) Total() (Money, error) {
	var total Money
	for i, line := range c.Lines {
		if i == 0 {
			total.Currency = line.Product.Price.Currency
		} else if line.Product.Price.Currency != total.Currency {
			return Money{}, ErrMixedCurrencies
		}
		total.Amount += line.Product.Price.Amount * line.Quantity
	}
	return total, nil
}
