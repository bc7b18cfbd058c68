package cache

import "context"

// Flight is the shared future for one in-flight fetch. Every caller that
// asks for the same key while the fetch is outstanding waits on the same
// Flight, which is how concurrent identical queries collapse into a single
// network call.
type Flight struct {
	done chan struct{}
	val  any
	err  error
}

func newFlight() *Flight {
	return &Flight{done: make(chan struct{})}
}

// settle publishes the outcome and wakes all waiters. It must be called
// exactly once, after the store's map state has been updated, so a caller
// woken by settle always observes the post-update cache.
func (f *Flight) settle(val any, err error) {
	f.val = val
	f.err = err
	close(f.done)
}

// Wait blocks until the flight settles or ctx is done. The returned error
// is the fetch error, or the context error if the caller gave up first;
// other waiters are unaffected by one caller's cancellation.
func (f *Flight) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
