// Package permission lets a session driver consult an external policy
// service before auto-answering a confirmation that names a tool call.
package permission

import (
	"context"

	"github.com/coreway/termwatch/internal/model"
)

// Decision is a policy service's verdict on one gated tool call.
type Decision string

const (
	// DecisionAllow means the driver should auto-write a confirm response.
	DecisionAllow Decision = "allow"
	// DecisionDeny means the driver should auto-write a deny response.
	DecisionDeny Decision = "deny"
	// DecisionAsk means the driver must surface the confirmation to a
	// human caller instead of answering it itself.
	DecisionAsk Decision = "ask"
)

// Checker decides whether a gated tool call should be auto-approved,
// auto-denied, or left pending for a human response. Implementations
// must be safe to call from the tick goroutine and must not block
// longer than the context allows.
type Checker interface {
	Check(ctx context.Context, tool model.ToolCall) (Decision, error)
}

// AlwaysAsk is the zero-config Checker: every gated confirmation is left
// pending. A driver with no Checker configured behaves the same way.
type AlwaysAsk struct{}

func (AlwaysAsk) Check(context.Context, model.ToolCall) (Decision, error) {
	return DecisionAsk, nil
}
