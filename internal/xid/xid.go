package xid

import (
	"sync"

	"github.com/BIDMYLIFE/POS/internal/clock"
)

// Sequence hands out time-derived ids (Unix milliseconds). Two ids taken in
// the same millisecond are bumped so every id is unique within the process.
type Sequence struct {
	mu    sync.Mutex
	clock clock.Clock
	last  int64
}

func NewSequence(c clock.Clock) *Sequence {
	if c == nil {
		c = clock.NewRealClock()
	}
	return &Sequence{clock: c}
}

func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.clock.Now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}
