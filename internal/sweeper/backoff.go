package sweeper

import (
	"math"
	"math/rand"
	"time"
)

const backoffBase = 2 * time.Second

// Backoff returns the delay before retry number attempt (0-based): 2s, 4s, 8s and
// so on, capped at maxDelay, plus up to 250ms of jitter.
func Backoff(attempt int, maxDelay time.Duration) time.Duration {
	multiple := math.Pow(2, float64(attempt))
	delay := time.Duration(float64(backoffBase) * multiple)

	if delay > maxDelay || delay <= 0 {
		delay = maxDelay
	}

	// small jitter (0–250ms) to avoid thundering herd
	delay += time.Duration(rand.Intn(250)) * time.Millisecond
	return delay
}
