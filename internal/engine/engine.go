package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"matchbook/internal/book"
	"matchbook/internal/common"
	"matchbook/internal/sequence"
)

var ErrInvalidOrder = errors.New("invalid order")

// Mode selects which sides may rest liquidity in the book.
type Mode int

const (
	// TwoSided rests both bids and asks and crosses them continuously.
	TwoSided Mode = iota
	// AskResting rests only asks. Buy orders take liquidity immediately
	// on arrival and any unfilled remainder is discarded, never queued.
	AskResting
)

// Reporter receives each trade as the crossing loop produces it.
type Reporter interface {
	Report(trade common.Trade) error
}

// Engine owns the book and runs the crossing loop. It is not safe for
// concurrent use: a single session goroutine feeds it an
// already-ordered stream of orders, and each order is crossed to
// completion before the next is considered.
type Engine struct {
	mode     Mode
	book     *book.Book
	seq      *sequence.Sequencer
	reporter Reporter

	ordersAccepted uint64
	tradesReported uint64
}

func New(mode Mode, reporter Reporter) *Engine {
	return &Engine{
		mode:     mode,
		book:     book.New(),
		seq:      sequence.New(),
		reporter: reporter,
	}
}

// SetReporter swaps the trade sink. Only valid before the first Submit.
func (e *Engine) SetReporter(reporter Reporter) {
	e.reporter = reporter
}

// Book exposes the resting book for inspection.
func (e *Engine) Book() *book.Book { return e.book }

// OrdersAccepted returns how many orders have been submitted.
func (e *Engine) OrdersAccepted() uint64 { return e.ordersAccepted }

// TradesReported returns how many trades the crossing loop produced.
func (e *Engine) TradesReported() uint64 { return e.tradesReported }

// Submit stamps the order's arrival sequence, applies it to the book
// and crosses to completion. Zero or more trades are delivered to the
// reporter before Submit returns.
func (e *Engine) Submit(order common.Order) error {
	if order.Quantity == 0 {
		return fmt.Errorf("%w: order %d has zero quantity", ErrInvalidOrder, order.ID)
	}
	order.Seq = e.seq.Next()
	e.ordersAccepted++

	if e.mode == AskResting && order.Side == common.Buy {
		return e.take(&order)
	}

	e.book.Insert(&order)
	return e.Match()
}

// Match repeatedly fills the best bid against the best ask while their
// prices overlap. A spread miss unconditionally ends the loop; matching
// is re-triggered by the next Submit, so the book never rests with a
// crossable pair. Running Match again with no new input produces no
// further trades.
func (e *Engine) Match() error {
	for {
		bid, ok := e.book.BestBid()
		if !ok {
			return nil
		}
		ask, ok := e.book.BestAsk()
		if !ok {
			return nil
		}
		if ask.Price > bid.Price {
			return nil
		}

		fill := min(bid.Quantity, ask.Quantity)
		if err := e.book.Fill(bid, fill); err != nil {
			return err
		}
		if err := e.book.Fill(ask, fill); err != nil {
			return err
		}
		if err := e.report(bid.ID, ask.ID, ask.Price, fill); err != nil {
			return err
		}

		// Zero, one or both of the pair may be done in the same step.
		if bid.Quantity == 0 {
			e.book.RemoveBestBid()
		}
		if ask.Quantity == 0 {
			e.book.RemoveBestAsk()
		}
	}
}

// take matches an aggressive buy against resting asks while the prices
// overlap. The buy never rests: whatever is left once the overlap runs
// out is dropped.
func (e *Engine) take(buy *common.Order) error {
	for buy.Quantity > 0 {
		ask, ok := e.book.BestAsk()
		if !ok || ask.Price > buy.Price {
			break
		}

		fill := min(buy.Quantity, ask.Quantity)
		if err := e.book.Fill(ask, fill); err != nil {
			return err
		}
		buy.Quantity -= fill
		if err := e.report(buy.ID, ask.ID, ask.Price, fill); err != nil {
			return err
		}

		if ask.Quantity == 0 {
			e.book.RemoveBestAsk()
		}
	}

	if buy.Quantity > 0 {
		log.Debug().
			Uint64("id", buy.ID).
			Uint64("remaining", buy.Quantity).
			Msg("discarding unfilled taker remainder")
	}
	return nil
}

// report builds the trade record and hands it to the reporter. The
// trade always executes at the resting ask's quoted price.
func (e *Engine) report(buyID, sellID, price, fill uint64) error {
	trade := common.Trade{
		ExecID:      uuid.New().String(),
		BuyOrderID:  buyID,
		SellOrderID: sellID,
		Price:       price,
		Quantity:    fill,
		Timestamp:   time.Now(),
	}
	e.tradesReported++

	log.Debug().
		Str("exec", trade.ExecID).
		Uint64("buyer", buyID).
		Uint64("seller", sellID).
		Uint64("price", price).
		Uint64("qty", fill).
		Msg("trade")

	if err := e.reporter.Report(trade); err != nil {
		return fmt.Errorf("unable to report trade: %w", err)
	}
	return nil
}
