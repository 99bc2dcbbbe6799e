package domain

import "time"

// DefaultAddress is the sentinel for "no address yet". Checkout refuses to
// run until the user has replaced it.
const DefaultAddress = "ADDRESS_NOT_SET"

// DefaultWalletMoney is the starting balance of a newly registered user, in
// the currency's smallest unit.
const DefaultWalletMoney int64 = 500

type User struct {
	Email       string
	Name        string
	WalletMoney int64
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasSetNonDefaultAddress reports whether the user replaced the sentinel
// address with a real one.
func (u User) HasSetNonDefaultAddress() bool {
	return u.Address != DefaultAddress
}
