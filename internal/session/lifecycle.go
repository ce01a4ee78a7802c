package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/coreway/termwatch/internal/errs"
	"github.com/coreway/termwatch/internal/model"
)

// Start spawns the child process behind the driver's PTY and begins
// the evaluation tick loop. Start may be called at most once.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return errs.New(errs.LifecycleAlreadyStarted, "session already started")
	}
	d.started = true
	d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	_, err := d.breaker.Execute(func() (interface{}, error) {
		return nil, d.spawner.Start(runCtx, d.ptyOpts, d.onData, d.onExit)
	})
	if err != nil {
		d.mu.Lock()
		d.started = false
		d.mu.Unlock()
		cancel()
		return errs.Wrap(errs.SpawnFailed, "failed to spawn session process", err)
	}

	d.wg.Add(1)
	go d.tickLoop(runCtx)

	return nil
}

// onData is the spawner's callback for every chunk of raw PTY output.
// It feeds the screen, advisory-logs the bytes, and republishes them
// as a data event; none of these steps can block the driver.
func (d *Driver) onData(chunk []byte) {
	if _, err := d.screen.Write(chunk); err != nil {
		d.log.Warn("session: screen write failed", zap.String("session", d.id), zap.Error(err))
	}
	if d.logFile != nil {
		if _, err := d.logFile.Write(chunk); err != nil {
			d.log.Warn("session: advisory log write failed", zap.String("session", d.id), zap.Error(err))
		}
	}

	d.mu.Lock()
	d.lastActivity = time.Now()
	d.mu.Unlock()

	d.bus.Publish(Event{Kind: EventData, Data: chunk})
}

// onExit is the spawner's callback fired once the child process exits.
func (d *Driver) onExit(err error) {
	d.mu.Lock()
	d.exited = true
	d.exitErr = err
	from := d.state
	d.state = model.StateExited
	waiters := d.waiters
	d.waiters = nil
	d.mu.Unlock()

	for _, w := range waiters {
		if w.target == model.StateExited {
			w.done <- nil
			continue
		}
		w.done <- errs.New(errs.SessionEndedWhileWaiting, "session exited while waiting")
	}

	d.bus.Publish(Event{Kind: EventStateChange, FromState: from, ToState: model.StateExited})
	d.bus.Publish(Event{Kind: EventExit, ExitErr: err})
}

// Close asks the child process to exit gracefully: if exitCmd is
// non-empty it is written followed by a carriage return, then Close
// waits up to 3 seconds for the process to exit on its own before
// force-killing it.
func (d *Driver) Close(exitCmd string) error {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return errs.New(errs.LifecycleNotStarted, "session not started")
	}
	alreadyExited := d.exited
	d.mu.Unlock()

	if alreadyExited {
		return d.teardown()
	}

	if exitCmd != "" {
		if _, err := d.spawner.Write([]byte(exitCmd + "\r")); err != nil {
			d.log.Warn("session: exit command write failed", zap.String("session", d.id), zap.Error(err))
		}
	}

	deadline := time.After(3 * time.Second)
	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-deadline:
			if err := d.spawner.Close(); err != nil {
				d.log.Warn("session: force close after timeout failed", zap.String("session", d.id), zap.Error(err))
			}
			return d.teardown()
		case <-poll.C:
			d.mu.Lock()
			exited := d.exited
			d.mu.Unlock()
			if exited {
				return d.teardown()
			}
		}
	}
}

// Kill terminates the child process immediately, with no grace period.
func (d *Driver) Kill() error {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return errs.New(errs.LifecycleNotStarted, "session not started")
	}
	d.mu.Unlock()

	if err := d.spawner.Close(); err != nil {
		d.log.Warn("session: kill failed", zap.String("session", d.id), zap.Error(err))
	}
	return d.teardown()
}

// teardown releases the driver's owned resources. Safe to call more
// than once.
func (d *Driver) teardown() error {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()

	if d.logFile != nil {
		if err := d.logFile.Close(); err != nil {
			d.log.Warn("session: advisory log close failed", zap.String("session", d.id), zap.Error(err))
		}
	}
	if err := d.screen.Dispose(); err != nil {
		d.log.Warn("session: screen dispose failed", zap.String("session", d.id), zap.Error(err))
	}
	d.bus.Close()
	return nil
}
