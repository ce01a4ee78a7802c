// Package notify posts state_change and confirm_required events to an
// operator-configured webhook so they can be observed without polling
// the manager. Disabled unless a URL is configured; failures are
// logged, never fatal, and never block a driver's tick.
package notify

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coreway/termwatch/internal/logging"
	"github.com/coreway/termwatch/internal/model"
)

// Payload is the JSON body posted to the webhook for every event.
type Payload struct {
	RequestID string           `json:"request_id"`
	SessionID string           `json:"session_id"`
	Kind      string           `json:"kind"`
	State     string           `json:"state,omitempty"`
	Previous  string           `json:"previous,omitempty"`
	Confirm   *model.ConfirmInfo `json:"confirm,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Webhook posts event payloads to a single configured URL.
type Webhook struct {
	url    string
	client *resty.Client
	log    *logging.Logger
}

// New constructs a Webhook notifier. An empty url yields a disabled
// notifier whose every method is a safe no-op.
func New(url string, timeout time.Duration, log *logging.Logger) *Webhook {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Webhook{
		url:    url,
		client: resty.New().SetTimeout(timeout).SetHeader("Content-Type", "application/json"),
		log:    logging.OrNop(log),
	}
}

// Enabled reports whether a webhook URL was configured.
func (w *Webhook) Enabled() bool { return w.url != "" }

// NotifyStateChange posts a state_change event, fire-and-forget.
func (w *Webhook) NotifyStateChange(sessionID string, from, to model.SessionState) {
	w.post(Payload{
		SessionID: sessionID,
		Kind:      "state_change",
		State:     string(to),
		Previous:  string(from),
	})
}

// NotifyConfirmRequired posts a confirm_required event, fire-and-forget.
func (w *Webhook) NotifyConfirmRequired(sessionID string, info model.ConfirmInfo) {
	w.post(Payload{
		SessionID: sessionID,
		Kind:      "confirm_required",
		Confirm:   &info,
	})
}

func (w *Webhook) post(p Payload) {
	if !w.Enabled() {
		return
	}
	p.RequestID = uuid.NewString()
	p.Timestamp = time.Now()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		resp, err := w.client.R().SetContext(ctx).SetBody(p).Post(w.url)
		if err != nil {
			w.log.Debug("notify: webhook post failed", zap.String("session", p.SessionID), zap.Error(err))
			return
		}
		if resp.IsError() {
			w.log.Debug("notify: webhook returned error status", zap.String("session", p.SessionID), zap.String("status", resp.Status()))
		}
	}()
}
