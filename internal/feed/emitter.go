package feed

import (
	"bufio"
	"fmt"
	"io"

	"matchbook/internal/common"
	"matchbook/internal/engine"
)

// Emitter is a trade reporter with an explicit end-of-input flush.
type Emitter interface {
	engine.Reporter
	Flush() error
}

// StreamEmitter writes each trade line to the sink the moment it is
// produced, interleaved with input consumption.
type StreamEmitter struct {
	w *bufio.Writer
}

func NewStreamEmitter(w io.Writer) *StreamEmitter {
	return &StreamEmitter{w: bufio.NewWriter(w)}
}

func (e *StreamEmitter) Report(trade common.Trade) error {
	if _, err := fmt.Fprintln(e.w, trade); err != nil {
		return fmt.Errorf("unable to write trade: %w", err)
	}
	return e.w.Flush()
}

// Flush drains anything still buffered. Streamed trades are flushed per
// report, so this only matters after a write error.
func (e *StreamEmitter) Flush() error {
	return e.w.Flush()
}

// BatchEmitter accumulates trades in arrival order and only writes them
// to the sink when the input stream is exhausted.
type BatchEmitter struct {
	w      io.Writer
	trades []common.Trade
}

func NewBatchEmitter(w io.Writer) *BatchEmitter {
	return &BatchEmitter{w: w}
}

func (e *BatchEmitter) Report(trade common.Trade) error {
	e.trades = append(e.trades, trade)
	return nil
}

// Flush writes the accumulated trades in arrival order and resets the
// batch.
func (e *BatchEmitter) Flush() error {
	w := bufio.NewWriter(e.w)
	for _, trade := range e.trades {
		if _, err := fmt.Fprintln(w, trade); err != nil {
			return fmt.Errorf("unable to write trade: %w", err)
		}
	}
	e.trades = nil
	return w.Flush()
}
