package nutritionagent

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// SessionLogger is the interface for session iteration logging.
type SessionLogger interface {
	LogIteration(iteration IterationLog) error
}

// NewSessionLogFilePath returns a file path based on a cleaned up session label to make specific logs easier to identify.
func NewSessionLogFilePath(label string) string {
	return fmt.Sprintf(
		"./logs/%d.%s.json",
		time.Now().Unix(),
		strings.ReplaceAll(strings.ToLower(label), " ", "_"),
	)
}

// IterationLog represents a single think/act/observe cycle in a session
type IterationLog struct {
	Iteration int           `json:"iteration"`
	Timestamp time.Time     `json:"timestamp"`
	Decision  any           `json:"decision"`
	ToolCalls []ToolCallLog `json:"tool_calls,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// ToolCallLog represents one tool dispatch within an iteration
type ToolCallLog struct {
	Name     string         `json:"name"`
	Input    map[string]any `json:"input"`
	Output   map[string]any `json:"output"`
	Replayed bool           `json:"replayed,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// FileSessionLogger logs to a file, accumulating iterations and flushing at the end
type FileSessionLogger struct {
	iterations []IterationLog
	writer     io.Writer
}

// NewFileSessionLogger creates a new file-based session logger
func NewFileSessionLogger(writer io.Writer) *FileSessionLogger {
	return &FileSessionLogger{
		iterations: make([]IterationLog, 0),
		writer:     writer,
	}
}

// LogIteration logs an iteration to the buffer (does not flush immediately)
func (fsl *FileSessionLogger) LogIteration(iteration IterationLog) error {
	fsl.iterations = append(fsl.iterations, iteration)
	return nil
}

// Flush flushes all accumulated iterations to the writer
func (fsl *FileSessionLogger) Flush() error {
	if fsl.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"session": map[string]any{
			"timestamp":  time.Now(),
			"iterations": fsl.iterations,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session log: %w", err)
	}

	if _, err := fsl.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write session log: %w", err)
	}

	// Clear the buffer after successful write
	fsl.iterations = fsl.iterations[:0]
	return nil
}

// NoOpSessionLogger is a logger that discards all log entries
type NoOpSessionLogger struct{}

// NewNoOpSessionLogger creates a new no-op session logger
func NewNoOpSessionLogger() *NoOpSessionLogger {
	return &NoOpSessionLogger{}
}

// LogIteration discards the iteration log (no-op)
func (nop *NoOpSessionLogger) LogIteration(iteration IterationLog) error {
	return nil
}

// StdoutSessionLogger logs each iteration as a JSON line to stdout (for Lambda/CloudWatch)
type StdoutSessionLogger struct{}

// NewStdoutSessionLogger creates a new stdout-based session logger
func NewStdoutSessionLogger() *StdoutSessionLogger {
	return &StdoutSessionLogger{}
}

// LogIteration writes the iteration as a JSON line to os.Stdout
func (l *StdoutSessionLogger) LogIteration(iteration IterationLog) error {
	data, err := json.Marshal(iteration)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
