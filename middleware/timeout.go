package middleware

import "time"

// Timeout creates a middleware that abandons an executor still running after
// d and returns a *TimeoutError instead. The executor goroutine itself keeps
// running; executors doing cancellable work should carry their own plumbing.
func Timeout(d time.Duration) Middleware {
	return func(next Executor) Executor {
		return func(src Source, ctx Context) error {
			done := make(chan error, 1)
			go func() {
				done <- next(src, ctx)
			}()

			timer := time.NewTimer(d)
			defer timer.Stop()

			select {
			case err := <-done:
				return err
			case <-timer.C:
				return &TimeoutError{Source: src.Name(), Duration: d}
			}
		}
	}
}
