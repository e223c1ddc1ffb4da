package book

import (
	"errors"
	"fmt"

	"github.com/tidwall/btree"

	"matchbook/internal/common"
)

var ErrOverfill = errors.New("fill exceeds remaining quantity")

// Book holds the resting orders for one instrument: bids and asks, each
// independently ordered by price-time priority. Bids sort highest price
// first, asks lowest price first; ties on price fall back to arrival
// sequence so the earlier order matches first. The two sides never
// share a comparator.
type Book struct {
	bids *btree.BTreeG[*common.Order]
	asks *btree.BTreeG[*common.Order]

	// Some book keeping
	bidQty uint64 // Track the bid-side liquidity of the book.
	askQty uint64 // Track the ask-side liquidity of the book.
}

func New() *Book {
	// Best bid is the highest price; earlier arrival wins a tie.
	bids := btree.NewBTreeG(func(a, b *common.Order) bool {
		if a.Price != b.Price {
			return a.Price > b.Price
		}
		return a.Seq < b.Seq
	})
	// Best ask is the lowest price; earlier arrival wins a tie.
	asks := btree.NewBTreeG(func(a, b *common.Order) bool {
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.Seq < b.Seq
	})
	return &Book{
		bids: bids,
		asks: asks,
	}
}

// Insert rests an order on its own side. Orders never move between
// sides and only leave through RemoveBestBid/RemoveBestAsk.
func (b *Book) Insert(order *common.Order) {
	switch order.Side {
	case common.Buy:
		b.bids.Set(order)
		b.bidQty += order.Quantity
	case common.Sell:
		b.asks.Set(order)
		b.askQty += order.Quantity
	}
}

// BestBid returns the highest-priced resting bid without removing it.
func (b *Book) BestBid() (*common.Order, bool) {
	return b.bids.Min()
}

// BestAsk returns the lowest-priced resting ask without removing it.
func (b *Book) BestAsk() (*common.Order, bool) {
	return b.asks.Min()
}

// Fill subtracts qty from a resting order and from its side's liquidity
// total. Asking for more than the order has left is a logic defect in
// the caller, never valid input, and is reported as ErrOverfill.
func (b *Book) Fill(order *common.Order, qty uint64) error {
	if qty > order.Quantity {
		return fmt.Errorf("%w: order %d has %d, fill %d",
			ErrOverfill, order.ID, order.Quantity, qty)
	}
	order.Quantity -= qty
	switch order.Side {
	case common.Buy:
		b.bidQty -= qty
	case common.Sell:
		b.askQty -= qty
	}
	return nil
}

// RemoveBestBid discards the best bid once its quantity has reached
// zero.
func (b *Book) RemoveBestBid() {
	if order, ok := b.bids.PopMin(); ok {
		b.bidQty -= order.Quantity
	}
}

// RemoveBestAsk discards the best ask once its quantity has reached
// zero.
func (b *Book) RemoveBestAsk() {
	if order, ok := b.asks.PopMin(); ok {
		b.askQty -= order.Quantity
	}
}

// BidCount returns the number of resting bids.
func (b *Book) BidCount() int { return b.bids.Len() }

// AskCount returns the number of resting asks.
func (b *Book) AskCount() int { return b.asks.Len() }

// BidVolume returns the total unfilled quantity resting on the bid side.
func (b *Book) BidVolume() uint64 { return b.bidQty }

// AskVolume returns the total unfilled quantity resting on the ask side.
func (b *Book) AskVolume() uint64 { return b.askQty }

// Bids returns the resting bids in priority order, best first.
func (b *Book) Bids() []*common.Order {
	return items(b.bids)
}

// Asks returns the resting asks in priority order, best first.
func (b *Book) Asks() []*common.Order {
	return items(b.asks)
}

func items(side *btree.BTreeG[*common.Order]) []*common.Order {
	orders := make([]*common.Order, 0, side.Len())
	side.Scan(func(order *common.Order) bool {
		orders = append(orders, order)
		return true
	})
	return orders
}
