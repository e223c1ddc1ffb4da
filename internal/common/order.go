package common

import "fmt"

// Side is which half of the book an order belongs to.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Order is the unit the book manages. ID, Side and Price are fixed when
// the order is decoded; Quantity is the remaining unfilled amount and is
// only ever decremented by the crossing loop. Seq is the arrival
// sequence stamped by the engine and acts as the time half of
// price-time priority.
type Order struct {
	ID       uint64 // Externally assigned, assumed unique
	Side     Side   // Order side
	Price    uint64 // Tick-denominated, no decimals
	Quantity uint64 // Remaining quantity, > 0 while resting
	Seq      uint64 // Arrival sequence, assigned on accept
}

func (o Order) String() string {
	return fmt.Sprintf("%d: %s %d BTC @ %d USD", o.ID, o.Side, o.Quantity, o.Price)
}
