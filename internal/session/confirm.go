package session

import (
	"github.com/coreway/termwatch/internal/errs"
	"github.com/coreway/termwatch/internal/model"
)

// Confirm answers the driver's pending confirmation, if any, writing
// whichever bytes the confirm parser that detected it says the
// originating CLI expects. The next tick's state dispatch decides what
// state the session moves to; Confirm itself only clears the pending
// confirmation and releases the write.
func (d *Driver) Confirm(resp model.ConfirmResponse) error {
	d.mu.Lock()
	info := d.pendingConfirm
	d.mu.Unlock()

	if info == nil {
		return errs.New(errs.NoPendingConfirmation, "no confirmation is pending")
	}

	bytes, ok := d.registry.FormatResponse(*info, resp)
	if !ok {
		return errs.New(errs.Internal, "no confirm parser available to format the response")
	}

	if err := d.Write(bytes); err != nil {
		return err
	}

	d.mu.Lock()
	d.pendingConfirm = nil
	d.mu.Unlock()

	if d.metrics != nil {
		d.metrics.RecordConfirmAnswered(string(resp.Action), "caller")
	}

	return nil
}
