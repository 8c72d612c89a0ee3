package models

import "github.com/shopspring/decimal"

// AccountBalances is the externally visible state of one client's account.
type AccountBalances struct {
	Available decimal.Decimal // funds the client can use
	Held      decimal.Decimal // funds frozen by open disputes
	Total     decimal.Decimal // Available + Held
	Locked    bool            // set by a chargeback, never cleared
}

// AccountSnapshot pairs a client with its balances for sinks that need a
// concrete value rather than an iterator.
type AccountSnapshot struct {
	Client   ClientID
	Balances AccountBalances
}
