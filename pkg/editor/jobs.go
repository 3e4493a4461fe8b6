package editor

import (
	"context"
	"sync"
)

// Jobs runs dispatched mutator calls on their own goroutines and tracks
// them, so the process hosting an engine can let in-flight calls finish
// before it closes the store and exits. Pass [Jobs.Dispatch] to
// [WithDispatch].
//
// The zero value is ready to use. Dispatch must not be called once Wait
// has started.
type Jobs struct {
	wg sync.WaitGroup
}

// Dispatch runs f on a new goroutine.
func (j *Jobs) Dispatch(f func()) {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		f()
	}()
}

// Wait blocks until every dispatched call has returned or ctx is done, in
// which case it returns ctx.Err() and the remaining calls keep running.
func (j *Jobs) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
