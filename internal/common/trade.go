package common

import (
	"fmt"
	"time"
)

// Trade records one fill between a bid and an ask. Immutable once
// created. Price is the resting ask's quoted price.
type Trade struct {
	ExecID      string // Execution uuid, for logs and reports only
	BuyOrderID  uint64
	SellOrderID uint64
	Price       uint64
	Quantity    uint64
	Timestamp   time.Time
}

// String renders the trade in its wire form.
func (t Trade) String() string {
	return fmt.Sprintf(
		"Trade: %d BTC @ %d USD between %d and %d",
		t.Quantity,
		t.Price,
		t.BuyOrderID,
		t.SellOrderID,
	)
}
