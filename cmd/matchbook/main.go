package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"matchbook/internal/config"
	"matchbook/internal/engine"
	"matchbook/internal/feed"
)

func main() {
	// Trades go to stdout; logs stay on stderr.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	var emitter feed.Emitter
	switch cfg.Emission {
	case config.EmitBatched:
		emitter = feed.NewBatchEmitter(os.Stdout)
	default:
		emitter = feed.NewStreamEmitter(os.Stdout)
	}

	mode := engine.TwoSided
	if cfg.BookMode == config.ModeAskResting {
		mode = engine.AskResting
	}
	policy := feed.SkipBadRecords
	if cfg.ErrorPolicy == config.PolicyFail {
		policy = feed.FailOnBadRecords
	}

	eng := engine.New(mode, emitter)
	session := feed.NewSession(eng, emitter, policy)

	log.Info().
		Str("mode", cfg.BookMode).
		Str("emission", cfg.Emission).
		Str("bad_records", cfg.ErrorPolicy).
		Msg("session starting")

	t, ctx := tomb.WithContext(ctx)
	t.Go(func() error {
		defer stop()
		return session.Run(ctx, os.Stdin)
	})

	if err := t.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("session failed")
		os.Exit(1)
	}

	book := eng.Book()
	log.Info().
		Uint64("records", session.RecordsRead()).
		Uint64("skipped", session.RecordsSkipped()).
		Uint64("orders", eng.OrdersAccepted()).
		Uint64("trades", eng.TradesReported()).
		Int("resting_bids", book.BidCount()).
		Int("resting_asks", book.AskCount()).
		Msg("session complete")
}
