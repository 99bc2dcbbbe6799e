package domain

import "time"

// Money is an amount in the currency's smallest unit.
type Money struct {
	Currency string
	Amount   int64
}

type Product struct {
	ID          string
	Name        string
	Description string
	Price       Money
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
