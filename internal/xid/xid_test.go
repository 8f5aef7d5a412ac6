package xid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BIDMYLIFE/POS/internal/clock"
)

func TestSequenceUsesUnixMillis(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	seq := NewSequence(clock.NewMockClock(start))

	assert.Equal(t, start.UnixMilli(), seq.Next())
}

func TestSequenceBumpsWithinSameMillisecond(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	mock := clock.NewMockClock(start)
	seq := NewSequence(mock)

	first := seq.Next()
	second := seq.Next()
	assert.Equal(t, first+1, second)

	// A clock that steps backwards still yields increasing ids.
	mock.Set(start.Add(-time.Second))
	assert.Equal(t, second+1, seq.Next())

	mock.Set(start.Add(time.Minute))
	assert.Equal(t, start.Add(time.Minute).UnixMilli(), seq.Next())
}
