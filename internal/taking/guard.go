package taking

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrAlreadyInFlight is returned when a submission is requested
	// while a previous one for the same session has not finished.
	ErrAlreadyInFlight = errors.New("taking: submission already in flight")
	// ErrSubmissionFailed is returned after the dispatch and its single
	// retry have both failed.
	ErrSubmissionFailed = errors.New("taking: submission failed after retry")
)

var (
	submitRetryBackoff = 2 * time.Second
	submitDeadline     = 30 * time.Second
)

// DispatchFunc delivers a finalized answer snapshot. It must be safe to
// call twice with the same arguments: the guard retries once on error.
type DispatchFunc func(ctx context.Context, answers []int) error

// SubmissionGuard serializes submission attempts for one session. The
// in-flight flag is set before dispatch begins, so a second caller
// racing the first gets ErrAlreadyInFlight rather than a second network
// round trip. A failed dispatch is retried exactly once after a short
// backoff; each attempt runs under its own 30 second deadline, so a
// timed-out first attempt is retried like any other failure.
type SubmissionGuard struct {
	mu       sync.Mutex
	inFlight bool
	done     bool
}

// Submit runs dispatch under the guard. On success the guard latches:
// all later calls return ErrAlreadyInFlight without dispatching. On
// terminal failure the guard resets so the caller may try again.
func (g *SubmissionGuard) Submit(ctx context.Context, answers []int, dispatch DispatchFunc) error {
	g.mu.Lock()
	if g.inFlight || g.done {
		g.mu.Unlock()
		return ErrAlreadyInFlight
	}
	g.inFlight = true
	g.mu.Unlock()

	attempt := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, submitDeadline)
		defer cancel()
		return dispatch(attemptCtx, answers)
	}

	err := attempt()
	if err != nil {
		// The backoff waits on the caller's context, not the attempt's:
		// only a caller that has gone away skips the retry.
		select {
		case <-ctx.Done():
		case <-time.After(submitRetryBackoff):
			err = attempt()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight = false
	if err != nil {
		return errors.Join(ErrSubmissionFailed, err)
	}
	g.done = true
	return nil
}

// Done reports whether a submission has completed successfully.
func (g *SubmissionGuard) Done() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.done
}
