package client

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Retry delays for list fetches. Short and few: a read that fails
// three times in under a second is not coming back soon.
var retryDelays = []time.Duration{
	100 * time.Millisecond,
	250 * time.Millisecond,
	600 * time.Millisecond,
}

// JitterFactor is the ±percentage of jitter applied to delays.
const JitterFactor = 0.2

// nextRetryDelay returns the backoff before retry number attempt
// (0-indexed), with ±20% jitter.
func nextRetryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= len(retryDelays) {
		attempt = len(retryDelays) - 1
	}

	base := retryDelays[attempt]
	jitterRange := float64(base) * JitterFactor
	jitter := (rand.Float64()*2 - 1) * jitterRange

	return time.Duration(float64(base) + jitter)
}

// withRetry runs fn, retrying on ErrUnavailable. Application errors
// (bad credentials, invalid input) fail immediately.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= len(retryDelays); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(nextRetryDelay(attempt - 1)):
			}
		}

		err = fn()
		if err == nil || !errors.Is(err, ErrUnavailable) {
			return err
		}
	}
	return err
}
