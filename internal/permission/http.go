package permission

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/coreway/termwatch/internal/model"
	"github.com/coreway/termwatch/internal/resilience"
)

// decisionResponse is the policy service's expected JSON reply shape.
type decisionResponse struct {
	Decision string `json:"decision"`
}

// HTTPChecker asks a remote policy service for a decision on each gated
// tool call, POSTing the tool call as JSON and reading back a decision
// field. A circuit breaker guards against a flaky or unreachable
// service dragging down every tick: once tripped, Check degrades to
// DecisionAsk rather than blocking the driver on a failing dependency.
type HTTPChecker struct {
	endpoint string
	client   *resty.Client
	breaker  *resilience.Breaker
}

// NewHTTPChecker builds a Checker that POSTs to endpoint for each
// decision. timeout bounds a single request.
func NewHTTPChecker(endpoint string, timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 1 * time.Second
	retryClient.Logger = nil

	rc := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	breaker := resilience.New("permission-checker", resilience.Settings{
		Interval: 60 * time.Second,
		Timeout:  15 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &HTTPChecker{endpoint: endpoint, client: rc, breaker: breaker}
}

func (c *HTTPChecker) Check(ctx context.Context, tool model.ToolCall) (Decision, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out decisionResponse
		resp, err := c.client.R().
			SetContext(ctx).
			SetBody(tool).
			SetResult(&out).
			Post(c.endpoint)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("permission: %s returned %s", c.endpoint, resp.Status())
		}
		return out, nil
	})
	if err != nil {
		return DecisionAsk, err
	}

	switch Decision(result.(decisionResponse).Decision) {
	case DecisionAllow:
		return DecisionAllow, nil
	case DecisionDeny:
		return DecisionDeny, nil
	default:
		return DecisionAsk, nil
	}
}
