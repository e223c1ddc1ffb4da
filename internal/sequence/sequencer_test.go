package sequence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"matchbook/internal/sequence"
)

func TestSequencer_Monotonic(t *testing.T) {
	s := sequence.New()
	assert.Equal(t, uint64(0), s.Current())

	prev := uint64(0)
	for i := 0; i < 100; i++ {
		next := s.Next()
		assert.Greater(t, next, prev)
		prev = next
	}
	assert.Equal(t, prev, s.Current())
}
