package feed_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchbook/internal/engine"
	"matchbook/internal/feed"
)

func runSession(t *testing.T, mode engine.Mode, policy feed.ErrorPolicy, emit func(*bytes.Buffer) feed.Emitter, input string) (*feed.Session, string, error) {
	t.Helper()
	var out bytes.Buffer
	emitter := emit(&out)
	eng := engine.New(mode, emitter)
	session := feed.NewSession(eng, emitter, policy)
	err := session.Run(context.Background(), strings.NewReader(input))
	return session, out.String(), err
}

func streaming(out *bytes.Buffer) feed.Emitter { return feed.NewStreamEmitter(out) }
func batched(out *bytes.Buffer) feed.Emitter   { return feed.NewBatchEmitter(out) }

func TestSession_MatchAndEmit(t *testing.T) {
	input := "1: Sell 5 BTC @ 100\n" +
		"2: Buy 5 BTC @ 100\n"

	_, out, err := runSession(t, engine.TwoSided, feed.SkipBadRecords, streaming, input)
	require.NoError(t, err)
	assert.Equal(t, "Trade: 5 BTC @ 100 USD between 2 and 1\n", out)
}

func TestSession_BatchedEmitsSameTrades(t *testing.T) {
	input := "1: Sell 3 BTC @ 100\n" +
		"2: Sell 5 BTC @ 100\n" +
		"3: Buy 6 BTC @ 100\n"

	want := "Trade: 3 BTC @ 100 USD between 3 and 1\n" +
		"Trade: 3 BTC @ 100 USD between 3 and 2\n"

	_, streamOut, err := runSession(t, engine.TwoSided, feed.SkipBadRecords, streaming, input)
	require.NoError(t, err)
	_, batchOut, err := runSession(t, engine.TwoSided, feed.SkipBadRecords, batched, input)
	require.NoError(t, err)

	// The emission policy changes timing, never outcomes.
	assert.Equal(t, want, streamOut)
	assert.Equal(t, want, batchOut)
}

func TestSession_EmptyLineSentinel(t *testing.T) {
	input := "1: Sell 5 BTC @ 100\n" +
		"\n" +
		"2: Buy 5 BTC @ 100\n"

	session, out, err := runSession(t, engine.TwoSided, feed.SkipBadRecords, streaming, input)
	require.NoError(t, err)
	assert.Empty(t, out, "nothing after the sentinel should be processed")
	assert.Equal(t, uint64(1), session.RecordsRead())
}

func TestSession_SkipPolicy(t *testing.T) {
	input := "1: Sell 5 BTC @ 100\n" +
		"garbage\n" +
		"2: Hold 5 BTC @ 100\n" +
		"3: Buy 5 BTC @ 100\n"

	session, out, err := runSession(t, engine.TwoSided, feed.SkipBadRecords, streaming, input)
	require.NoError(t, err)
	assert.Equal(t, "Trade: 5 BTC @ 100 USD between 3 and 1\n", out)
	assert.Equal(t, uint64(2), session.RecordsSkipped())
}

func TestSession_FailPolicy(t *testing.T) {
	input := "1: Sell 5 BTC @ 100\n" +
		"garbage\n" +
		"2: Buy 5 BTC @ 100\n"

	_, out, err := runSession(t, engine.TwoSided, feed.FailOnBadRecords, streaming, input)
	assert.ErrorIs(t, err, feed.ErrTooFewFields)
	assert.Empty(t, out, "session must stop before the matching buy")
}

func TestSession_FailPolicyOnUnknownSide(t *testing.T) {
	// The side-keyword policy must track the malformed-record policy.
	input := "1: Hold 5 BTC @ 100\n"

	_, _, err := runSession(t, engine.TwoSided, feed.FailOnBadRecords, streaming, input)
	assert.ErrorIs(t, err, feed.ErrUnknownSide)
}

func TestSession_TakerModeScenario(t *testing.T) {
	input := "1: Sell 2 BTC @ 50\n" +
		"2: Buy 5 BTC @ 100\n"

	_, out, err := runSession(t, engine.AskResting, feed.SkipBadRecords, streaming, input)
	require.NoError(t, err)
	assert.Equal(t, "Trade: 2 BTC @ 50 USD between 2 and 1\n", out)
}

func TestSession_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	emitter := feed.NewStreamEmitter(&out)
	eng := engine.New(engine.TwoSided, emitter)
	session := feed.NewSession(eng, emitter, feed.SkipBadRecords)

	err := session.Run(ctx, strings.NewReader("1: Buy 5 BTC @ 100\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
