package protocol

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Reporter streams protocol lines to the host process: zero or more
// progress lines, at most one error, and at most one terminal result.
// Each line is a self-contained JSON object.
type Reporter struct {
	writer io.Writer
	logger *zap.Logger
}

// NewReporter creates a new Reporter writing to the given writer
func NewReporter(writer io.Writer, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		writer: writer,
		logger: logger,
	}
}

type progressLine struct {
	Type     string   `json:"type"`
	Phase    string   `json:"phase"`
	Progress *float64 `json:"progress"`
	Message  string   `json:"message"`
}

type errorLine struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type resultLine struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Progress emits one progress line. A nil progress reports indeterminate
// progress (message only, no percentage).
func (r *Reporter) Progress(phase string, progress *float64, message string) {
	r.emit(progressLine{Type: "progress", Phase: phase, Progress: progress, Message: message})
}

// Error emits the error line
func (r *Reporter) Error(message string) {
	r.emit(errorLine{Type: "error", Message: message})
}

// Result emits the terminal result line
func (r *Reporter) Result(data interface{}) {
	r.emit(resultLine{Type: "result", Data: data})
}

func (r *Reporter) emit(line interface{}) {
	jsonBytes, err := json.Marshal(line)
	if err != nil {
		r.logger.Error("failed to marshal protocol line", zap.Error(err))
		return
	}

	if _, err := fmt.Fprintf(r.writer, "%s\n", jsonBytes); err != nil {
		r.logger.Error("failed to write protocol line", zap.Error(err))
	}
}
