package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"matchbook/internal/book"
	"matchbook/internal/engine"
)

// ErrorPolicy decides what a bad input record does to the session. It
// applies uniformly to every kind of bad record: too few fields,
// unparseable integers and unknown side keywords alike.
type ErrorPolicy int

const (
	// SkipBadRecords logs and drops bad records, keeping the session
	// alive for whatever follows.
	SkipBadRecords ErrorPolicy = iota
	// FailOnBadRecords stops the session at the first bad record.
	FailOnBadRecords
)

// Session pumps order records from a text stream into the engine until
// the stream ends or an empty line is read. The empty line is a
// graceful-shutdown sentinel, not an error.
type Session struct {
	eng     *engine.Engine
	emitter Emitter
	policy  ErrorPolicy

	recordsRead    uint64
	recordsSkipped uint64
}

func NewSession(eng *engine.Engine, emitter Emitter, policy ErrorPolicy) *Session {
	return &Session{
		eng:     eng,
		emitter: emitter,
		policy:  policy,
	}
}

// RecordsRead returns how many non-empty lines the session consumed.
func (s *Session) RecordsRead() uint64 { return s.recordsRead }

// RecordsSkipped returns how many bad records were dropped under
// SkipBadRecords.
func (s *Session) RecordsSkipped() uint64 { return s.recordsSkipped }

// Run consumes records until end of stream, an empty line, a fatal
// error, or context cancellation. The emitter is flushed before Run
// returns, so a batched emitter delivers its trades even on failure.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	defer func() {
		if err := s.emitter.Flush(); err != nil {
			log.Error().Err(err).Msg("unable to flush trades")
		}
	}()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Text()
		if line == "" {
			log.Info().Msg("empty line sentinel, ending session")
			return nil
		}
		s.recordsRead++

		order, err := ParseOrder(line)
		if err != nil {
			if failed := s.handleBadRecord(err); failed != nil {
				return failed
			}
			continue
		}

		if err := s.eng.Submit(order); err != nil {
			// Overfill means the engine's own fill arithmetic went
			// wrong. No input policy can excuse that.
			if errors.Is(err, book.ErrOverfill) {
				return err
			}
			if failed := s.handleBadRecord(err); failed != nil {
				return failed
			}
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func (s *Session) handleBadRecord(err error) error {
	if s.policy == FailOnBadRecords {
		return fmt.Errorf("record %d: %w", s.recordsRead, err)
	}
	s.recordsSkipped++
	log.Warn().
		Err(err).
		Uint64("record", s.recordsRead).
		Msg("skipping bad record")
	return nil
}
