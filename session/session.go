package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"nutritionagent"
)

// computeToolName is the tool whose output counts as an aggregation for the
// purposes of partial results and final-answer acceptance.
const computeToolName = "nutrition_compute"

// Session drives one bounded think/act/observe loop between an external
// reasoner and the nutrition tools. Each session owns its call cache and
// history; the only shared state is the read-only reference store behind the
// tools, so sessions can run concurrently.
type Session struct {
	reasoner     Reasoner
	toolProvider nutritionagent.ToolProvider
	cfg          nutritionagent.SessionConfig
	logger       nutritionagent.SessionLogger
}

// New initializes a session.
func New(reasoner Reasoner, tp nutritionagent.ToolProvider, cfg nutritionagent.SessionConfig, log nutritionagent.SessionLogger) *Session {
	return &Session{
		reasoner:     reasoner,
		toolProvider: tp,
		cfg:          cfg,
		logger:       log,
	}
}

// Run executes the session for a given task. It returns a terminal Result in
// all cases; the error is non-nil when the session aborted.
func (s *Session) Run(ctx context.Context, task string) (Result, error) {
	slog.Info("SESSION: Starting run", "task", task, "max_iterations", s.cfg.MaxIterations)

	if s.cfg.SessionTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.SessionTimeoutSeconds*float64(time.Second)))
		defer cancel()
	}

	var (
		history []Observation
		cache   = make(map[string]Observation)
		result  Result
	)

	for iter := 0; iter < s.cfg.MaxIterations; iter++ {
		// Cancellation is cooperative: checked between cycles, never mid-dispatch.
		if err := ctx.Err(); err != nil {
			return s.abort(result, fmt.Errorf("%w: %v", ErrBudgetExceeded, err))
		}
		result.Iterations = iter + 1

		iterLog := nutritionagent.IterationLog{Iteration: iter + 1, Timestamp: time.Now()}

		decision, err := s.reasoner.Decide(ctx, task, history)
		if err != nil {
			iterLog.Error = err.Error()
			s.logIteration(iterLog)
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return s.abort(result, fmt.Errorf("%w: %v", ErrBudgetExceeded, err))
			}
			result.Reason = "reasoner failure"
			res, _ := s.abort(result, err)
			return res, fmt.Errorf("reasoner decision failed: %w", err)
		}
		iterLog.Decision = decision

		// Final-answer path.
		if decision.Final != "" {
			if result.Partial == nil {
				// Nudge the reasoner back to tool use: a final answer without
				// any computed aggregation has nothing to stand on.
				slog.Info("SESSION: Final answer before any nutrition computation; nudging", "iteration", iter+1)
				history = append(history, Observation{
					Tool:  computeToolName,
					Error: "final answer rejected: call nutrition_compute before finalizing",
				})
				s.logIteration(iterLog)
				continue
			}

			// The final answer must decode into a sane nutrition report; a
			// reasoner handing back prose or a malformed shape gets nudged
			// like any other recoverable mistake.
			var report nutritionagent.NutritionReport
			if err := json.Unmarshal([]byte(decision.Final), &report); err != nil || !report.IsValid() {
				slog.Info("SESSION: Final answer failed validation; nudging", "iteration", iter+1)
				history = append(history, Observation{
					Error: "final answer rejected: expected a nutrition report with summary, calories, macros, micros, unresolved",
				})
				s.logIteration(iterLog)
				continue
			}

			slog.Info("SESSION: Final answer accepted", "iteration", iter+1, "answer_length", len(decision.Final))
			result.Status = StatusCompleted
			result.FinalAnswer = decision.Final
			s.logIteration(iterLog)
			return result, nil
		}

		if len(decision.ToolCalls) == 0 {
			// A stuck reasoner gets the problem reflected back as an
			// observation and burns an iteration, rather than aborting.
			history = append(history, Observation{
				Error: "decision contained neither tool calls nor a final answer",
			})
			iterLog.Error = "empty decision"
			s.logIteration(iterLog)
			continue
		}

		var toolCallLogs []nutritionagent.ToolCallLog
		for _, call := range decision.ToolCalls {
			obs := s.dispatch(ctx, call.Name, call.Input, cache, &result)
			history = append(history, obs)

			toolCallLogs = append(toolCallLogs, nutritionagent.ToolCallLog{
				Name:     call.Name,
				Input:    call.Input,
				Output:   obs.Output,
				Replayed: obs.Replayed,
				Error:    obs.Error,
			})
		}

		iterLog.ToolCalls = toolCallLogs
		s.logIteration(iterLog)
	}

	result.Reason = "max iterations reached"
	return s.abort(result, ErrBudgetExceeded)
}

// dispatch validates and executes a single call, consulting the replay cache
// first. It always produces an observation; tool and validation failures are
// retryable, not fatal.
func (s *Session) dispatch(ctx context.Context, name string, input map[string]any, cache map[string]Observation, result *Result) Observation {
	tool, err := s.toolProvider.GetTool(name)
	if err != nil {
		result.ValidationFailures++
		slog.Info("SESSION: Unknown tool requested", "name", name)
		return Observation{Tool: name, Input: input, Error: fmt.Sprintf("%v: %v", ErrInvalidToolArguments, err)}
	}

	if err := ValidateCall(tool, input); err != nil {
		result.ValidationFailures++
		slog.Info("SESSION: Rejected tool arguments", "name", name, "error", err)
		return Observation{Tool: name, Input: input, Error: err.Error()}
	}

	// Identical repeated calls replay the cached observation instead of
	// recomputing, bounding wasted work on a stuck reasoner.
	key := callKey(name, input)
	if cached, ok := cache[key]; ok {
		result.ReplayHits++
		slog.Info("SESSION: Replaying cached observation", "name", name)
		cached.Replayed = true
		return cached
	}

	callCtx := ctx
	if s.cfg.PerCallTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.PerCallTimeoutSeconds*float64(time.Second)))
		defer cancel()
	}

	output, err := tool.Run(callCtx, input)
	if err != nil {
		slog.Info("SESSION: Tool call failed", "name", name, "error", err)
		return Observation{Tool: name, Input: input, Error: err.Error()}
	}

	obs := Observation{Tool: name, Input: input, Output: output}
	cache[key] = obs

	if name == computeToolName {
		result.Partial = output
	}

	slog.Info("SESSION: Tool executed", "name", name)
	return obs
}

func (s *Session) abort(result Result, cause error) (Result, error) {
	result.Status = StatusAborted
	if result.Reason == "" {
		result.Reason = cause.Error()
	}
	if result.Partial == nil && errors.Is(cause, ErrBudgetExceeded) {
		cause = fmt.Errorf("%w: %w", cause, ErrNoResult)
	}
	slog.Info("SESSION: Aborted", "reason", result.Reason, "iterations", result.Iterations, "has_partial", result.Partial != nil)
	return result, cause
}

// callKey canonicalizes a call for replay detection. json.Marshal emits map
// keys in sorted order, so argument ordering cannot defeat the cache.
func callKey(name string, input map[string]any) string {
	b, err := json.Marshal(input)
	if err != nil {
		return name
	}
	return name + ":" + string(b)
}

// logIteration logs a cycle using the configured logger, handling errors gracefully
func (s *Session) logIteration(iteration nutritionagent.IterationLog) {
	if s.logger != nil {
		if err := s.logger.LogIteration(iteration); err != nil {
			slog.Error("Failed to log session iteration", "error", err, "iteration", iteration.Iteration)
		}
	}
}
