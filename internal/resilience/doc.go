/*
Package resilience provides a circuit breaker for PTY spawn retries.

# Overview

A session driver that retries a crashing PTY spawn on every exec call
can spin forever against a command that will never succeed (a missing
binary, a broken shell profile). This package trips a breaker after a
run of consecutive spawn failures so the driver fails fast instead.

# Usage

	breaker := resilience.New("pty-spawn", resilience.Settings{
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	_, err := breaker.Execute(func() (interface{}, error) {
		return nil, spawner.Start(ctx, opts, onData, onExit)
	})

# States

- Closed: spawn attempts pass through.
- Open: spawn attempts fail immediately with ErrCircuitOpen.
- Half-Open: one spawn attempt is allowed through to probe recovery.
*/
package resilience
