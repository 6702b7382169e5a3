package persistence

import (
	"fvm/internal/providers"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// AutoSaver debounces saves: every Trigger restarts the delay, so a burst of
// mutations produces a single write once the burst settles.
type AutoSaver struct {
	delay  time.Duration
	save   func() error
	logger providers.Logger

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	// Flush requests are numbered. A drain saves up to the latest request and
	// marks it completed; waiters sleep on flushed until theirs is covered.
	flushMu   sync.Mutex
	flushed   *sync.Cond
	running   bool
	requested uint64
	completed uint64
	lastErr   error

	busy atomic.Bool
}

func NewAutoSaver(delay time.Duration, save func() error, logger providers.Logger) *AutoSaver {
	a := &AutoSaver{delay: delay, save: save, logger: logger}
	a.flushed = sync.NewCond(&a.flushMu)
	return a
}

func (a *AutoSaver) Trigger() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() {
		if err := a.Flush(); err != nil {
			a.logger.Errorf(providers.TypeStorage, "Auto-save failed: %s", err)
		}
	})
}

// Cancel drops a pending save without running it.
func (a *AutoSaver) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// Flush cancels the pending timer and saves now. A Flush that overlaps one in
// progress does not save itself: it waits for the running drain to save once
// more and returns the result of that save.
func (a *AutoSaver) Flush() error {
	a.Cancel()

	a.flushMu.Lock()
	a.requested++
	gen := a.requested
	if a.running {
		for a.completed < gen {
			a.flushed.Wait()
		}
		err := a.lastErr
		a.flushMu.Unlock()
		return err
	}
	a.running = true
	a.busy.Store(true)
	a.flushMu.Unlock()

	return a.drain()
}

// drain saves until every request made so far is completed. flushMu is not
// held while save runs.
func (a *AutoSaver) drain() (err error) {
	finished := false
	defer func() {
		if finished {
			return
		}
		// save panicked; release the waiters before the panic unwinds further.
		a.flushMu.Lock()
		a.completed = a.requested
		a.lastErr = ErrSaveAborted
		a.running = false
		a.busy.Store(false)
		a.flushed.Broadcast()
		a.flushMu.Unlock()
	}()

	a.flushMu.Lock()
	for a.completed < a.requested {
		target := a.requested
		a.flushMu.Unlock()
		err = a.save()
		a.flushMu.Lock()
		a.completed = target
		a.lastErr = err
		a.flushed.Broadcast()
	}
	a.running = false
	a.busy.Store(false)
	a.flushMu.Unlock()
	finished = true
	return err
}

// Stop cancels the pending save and ignores later triggers.
func (a *AutoSaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *AutoSaver) Busy() bool {
	return a.busy.Load()
}
