package session

import (
	"time"

	"github.com/coreway/termwatch/internal/errs"
	"github.com/coreway/termwatch/internal/model"
)

// WaitForState blocks until the driver enters target or timeout
// elapses. If the session exits or errors while waiting for a
// different target, WaitForState returns early with
// errs.SessionEndedWhileWaiting.
func (d *Driver) WaitForState(target model.SessionState, timeout time.Duration) error {
	d.mu.Lock()
	if d.state == target {
		d.mu.Unlock()
		return nil
	}
	if !d.started {
		d.mu.Unlock()
		return errs.New(errs.LifecycleNotStarted, "session not started")
	}
	if d.exited {
		d.mu.Unlock()
		return errs.New(errs.SessionEndedWhileWaiting, "session already exited")
	}

	w := &waiter{target: target, done: make(chan error, 1)}
	d.waiters = append(d.waiters, w)
	d.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-w.done:
		return err
	case <-timer.C:
		d.removeWaiter(w)
		return errs.New(errs.TimeoutWaitForState, "timed out waiting for state "+string(target))
	}
}

func (d *Driver) removeWaiter(target *waiter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.waiters[:0:0]
	for _, w := range d.waiters {
		if w != target {
			out = append(out, w)
		}
	}
	d.waiters = out
}

// notifyWaiters resolves every waiter whose target matches to, and
// fails every other waiter if to is an absorbing error/exit state —
// there is no future tick that could still satisfy them.
func (d *Driver) notifyWaiters(to model.SessionState) {
	d.mu.Lock()
	remaining := d.waiters[:0:0]
	var resolved []*waiter
	var failed []*waiter
	for _, w := range d.waiters {
		switch {
		case w.target == to:
			resolved = append(resolved, w)
		case to == model.StateExited || to == model.StateError:
			failed = append(failed, w)
		default:
			remaining = append(remaining, w)
		}
	}
	d.waiters = remaining
	d.mu.Unlock()

	for _, w := range resolved {
		w.done <- nil
	}
	for _, w := range failed {
		w.done <- errs.New(errs.SessionEndedWhileWaiting, "session reached "+string(to)+" while waiting")
	}
}
