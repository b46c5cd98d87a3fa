package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lapakpos/backend/internal/ledger"
)

// Sequence hands out bill numbers of the form YYMMDD-NNNNNN, strictly
// increasing within a day and resetting at midnight. The counter seeds
// itself from persisted bills the first time a day's prefix is seen, so
// numbers stay monotonic across restarts.
type Sequence struct {
	mu   sync.Mutex
	day  string
	next int64
}

func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) Next(ctx context.Context, bills *ledger.BillLedger, now time.Time) (string, error) {
	prefix := now.Format("060102")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.day != prefix {
		seed, err := bills.MaxSequenceForPrefix(ctx, prefix)
		if err != nil {
			return "", err
		}
		s.day = prefix
		s.next = seed
	}

	s.next++
	return fmt.Sprintf("%s-%06d", prefix, s.next), nil
}
