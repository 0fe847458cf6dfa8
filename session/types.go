package session

import (
	"context"
	"errors"

	"nutritionagent/tools"
)

// Status is the terminal state of a session.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusAborted   Status = "aborted"
)

var (
	// ErrInvalidToolArguments marks a call rejected by schema validation.
	// It is surfaced as a retryable observation, never a session abort.
	ErrInvalidToolArguments = errors.New("invalid tool arguments")

	// ErrBudgetExceeded is terminal: the iteration or time budget ran out.
	ErrBudgetExceeded = errors.New("session budget exceeded")

	// ErrNoResult signals an aborted session with no aggregation to report.
	ErrNoResult = errors.New("session produced no result")
)

// Decision is one choice by the reasoning process: either tool calls to
// dispatch or a final answer, never both.
type Decision struct {
	ToolCalls []tools.Call `json:"tool_calls,omitempty"`
	Final     string       `json:"final,omitempty"`
}

// Observation is the structured result of one dispatched (or rejected) call,
// fed back to the reasoner on the next cycle.
type Observation struct {
	Tool     string         `json:"tool"`
	Input    map[string]any `json:"input"`
	Output   map[string]any `json:"output,omitempty"`
	Error    string         `json:"error,omitempty"`
	Replayed bool           `json:"replayed,omitempty"`
}

// Reasoner is the external reasoning process. Its decisions are untrusted
// input: every call is validated before dispatch.
type Reasoner interface {
	Decide(ctx context.Context, task string, history []Observation) (Decision, error)
}

// Result is the outcome of one session. When Status is StatusAborted,
// Partial holds the most recent nutrition computation if any occurred.
type Result struct {
	Status             Status
	FinalAnswer        string
	Partial            map[string]any
	Iterations         int
	ReplayHits         int
	ValidationFailures int
	Reason             string
}
