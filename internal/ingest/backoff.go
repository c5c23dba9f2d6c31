package ingest

import "time"

// BackoffPolicy controls the RECONNECTING state. A zero policy reproduces
// the original behavior: immediate retry, forever.
type BackoffPolicy struct {
	Initial     time.Duration
	Max         time.Duration
	MaxAttempts int // 0 means unlimited
}

// Delay returns how long to wait before connection attempt n (1-based),
// doubling each attempt up to Max.
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	if p.Initial <= 0 || attempt < 1 {
		return 0
	}

	delay := p.Initial
	for i := 1; i < attempt; i++ {
		delay *= 2
		if p.Max > 0 && delay >= p.Max {
			return p.Max
		}
	}
	if p.Max > 0 && delay > p.Max {
		return p.Max
	}
	return delay
}

// Exhausted reports whether attempt n exceeds the configured cap.
func (p BackoffPolicy) Exhausted(attempt int) bool {
	return p.MaxAttempts > 0 && attempt > p.MaxAttempts
}
