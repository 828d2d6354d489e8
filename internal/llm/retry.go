package llm

import (
	"context"
	"time"
)

type retryPhase int

const (
	phaseAttempting retryPhase = iota
	phaseBackoff
	phaseDone
	phaseFailed
)

func (p retryPhase) String() string {
	switch p {
	case phaseAttempting:
		return "attempting"
	case phaseBackoff:
		return "backoff"
	case phaseDone:
		return "done"
	default:
		return "failed"
	}
}

// retryState is the position of one invocation in the retry state machine:
// Attempting(n) moves to Done, Failed or Backoff, and Backoff moves to Attempting(n+1).
type retryState struct {
	phase   retryPhase
	attempt int
	delay   time.Duration
	result  string
	err     error
}

type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
}

// backoff returns the wait before the attempt that follows attempt n: base·2^(n-1).
func (p retryPolicy) backoff(n int) time.Duration {
	return p.baseDelay * time.Duration(1<<(n-1))
}

// afterAttempt is the transition out of Attempting(n).
func (p retryPolicy) afterAttempt(s retryState, result string, err error) retryState {
	if err == nil {
		return retryState{phase: phaseDone, attempt: s.attempt, result: result}
	}
	if KindOf(err).Retryable() && s.attempt < p.maxAttempts {
		return retryState{phase: phaseBackoff, attempt: s.attempt, delay: p.backoff(s.attempt), err: err}
	}
	return retryState{phase: phaseFailed, attempt: s.attempt, err: err}
}

// afterBackoff is the transition out of Backoff once the wait is over.
func (s retryState) afterBackoff() retryState {
	return retryState{phase: phaseAttempting, attempt: s.attempt + 1}
}

// sleepContext waits for d without blocking other goroutines, returning early when ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
