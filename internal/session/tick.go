package session

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/coreway/termwatch/internal/model"
	"github.com/coreway/termwatch/internal/permission"
	"github.com/coreway/termwatch/internal/sanitize"
)

// tickLoop paces evaluate with a rate.Limiter instead of a bare ticker:
// a burst of PTY data can make the screen "changed" on every iteration
// of a tight polling loop, and the limiter collapses that burst to at
// most one evaluation per tickInterval without an extra debounce timer.
func (d *Driver) tickLoop(ctx context.Context) {
	defer d.wg.Done()

	limiter := rate.NewLimiter(rate.Every(d.tickInterval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		d.evaluate(ctx)
	}
}

// evaluate is one tick of the state machine: it is a no-op unless the
// screen changed since the previous tick, in which case it asks the
// confirm dispatcher first (a pending confirmation takes priority over
// any state reading, since a CLI waiting on a dialog is not "idle" no
// matter what its prompt text looks like) and falls back to the state
// dispatcher only when no confirmation is pending.
func (d *Driver) evaluate(ctx context.Context) {
	if !d.screen.Changed() {
		if d.metrics != nil {
			d.metrics.RecordTick(false, 0)
		}
		return
	}

	start := time.Now()
	defer func() {
		if d.metrics != nil {
			d.metrics.RecordTick(true, time.Since(start))
		}
	}()

	pctx := d.buildParserContext()

	if info, ok := d.registry.DetectConfirm(pctx); ok {
		if d.metrics != nil {
			d.metrics.RecordParserDispatch("confirm", "matched")
		}
		d.handleConfirm(ctx, info)
		return
	}
	if d.metrics != nil {
		d.metrics.RecordParserDispatch("confirm", "no_match")
	}

	d.handleState(pctx)
}

func (d *Driver) buildParserContext() model.ParserContext {
	state := d.State()
	prev := d.previousStateSnapshot()
	return model.ParserContext{
		ScreenText:    d.screen.GetScreenText(),
		LastLines:     d.screen.GetLastLines(d.lastLines),
		CurrentState:  &state,
		PreviousState: &prev,
		TerminalTitle: sanitize.Title(d.screen.Title()),
	}
}

func (d *Driver) previousStateSnapshot() model.SessionState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.previousState
}

// handleConfirm processes a positive confirm-dispatch hit: a checker
// that resolves to allow/deny auto-answers the prompt without ever
// surfacing it to a caller; otherwise the confirmation becomes pending
// and the driver transitions into StateConfirming.
func (d *Driver) handleConfirm(ctx context.Context, info model.ConfirmInfo) {
	d.mu.Lock()
	already := d.pendingConfirm != nil && d.pendingConfirm.RawPrompt == info.RawPrompt
	d.mu.Unlock()
	if already {
		return
	}

	if info.Tool != nil && d.perm != nil {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		decision, err := d.perm.Check(checkCtx, *info.Tool)
		cancel()
		if err != nil {
			d.log.Warn("session: permission check failed, falling back to ask", zap.String("session", d.id), zap.Error(err))
			decision = permission.DecisionAsk
		}

		switch decision {
		case permission.DecisionAllow:
			d.autoAnswer(info, model.ActionConfirm)
			return
		case permission.DecisionDeny:
			d.autoAnswer(info, model.ActionDeny)
			return
		}
	}

	d.mu.Lock()
	d.pendingConfirm = &info
	from := d.state
	d.state = model.StateConfirming
	d.previousState = from
	d.lastActivity = time.Now()
	d.mu.Unlock()

	if from != model.StateConfirming {
		d.bus.Publish(Event{Kind: EventStateChange, FromState: from, ToState: model.StateConfirming})
		d.notifyWaiters(model.StateConfirming)
	}
	if d.metrics != nil {
		d.metrics.RecordConfirmRequired()
	}
	d.bus.Publish(Event{Kind: EventConfirmRequired, ConfirmInfo: &info})
}

func (d *Driver) autoAnswer(info model.ConfirmInfo, action model.ConfirmAction) {
	resp := model.ConfirmResponse{Action: action}
	bytes, ok := d.registry.FormatResponse(info, resp)
	if !ok {
		d.log.Warn("session: auto-answer had no matching confirm parser", zap.String("session", d.id))
		return
	}
	if _, err := d.spawner.Write(bytes); err != nil {
		d.log.Warn("session: auto-answer write failed", zap.String("session", d.id), zap.Error(err))
		return
	}
	if d.metrics != nil {
		d.metrics.RecordConfirmAnswered(string(action), "permission_checker")
	}
}

// handleState asks the state dispatcher and, on a positive hit that
// differs from the current state, transitions and publishes exactly
// one state_change event. An unchanged hit, or no hit at all, is a
// no-op — the driver never flaps on noisy or ambiguous screen text.
func (d *Driver) handleState(pctx model.ParserContext) {
	result, _, found := d.registry.DetectState(pctx)
	if d.metrics != nil {
		if found {
			d.metrics.RecordParserDispatch("state", "matched")
		} else {
			d.metrics.RecordParserDispatch("state", "no_match")
		}
	}
	if !found {
		return
	}

	d.mu.Lock()
	from := d.state
	if from == result.State {
		d.mu.Unlock()
		return
	}
	d.previousState = from
	d.state = result.State
	d.lastActivity = time.Now()
	d.mu.Unlock()

	d.bus.Publish(Event{Kind: EventStateChange, FromState: from, ToState: result.State})
	d.notifyWaiters(result.State)
}
