package protocol

import (
	"encoding/json"
	"io"

	"github.com/picpocket/clip-classify/internal/domain"
)

type statusMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type progressMessage struct {
	Type    string `json:"type"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
}

type resultEntry struct {
	Path       string             `json:"path"`
	Category   string             `json:"category"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores"`
}

type errorEntry struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type finalResponse struct {
	Status  string        `json:"status"`
	Device  string        `json:"device"`
	Results []resultEntry `json:"results"`
	Errors  []errorEntry  `json:"errors"`
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type checkResponse struct {
	Status string `json:"status"`
	Checks Checks `json:"checks"`
}

// Checks is the diagnostics payload of the check command. It reports the
// worker's own dependency surface without loading any model.
type Checks struct {
	Device            string   `json:"device"`
	GoVersion         string   `json:"go_version"`
	WorkerVersion     string   `json:"worker_version"`
	ImageFormats      []string `json:"image_formats"`
	BackendConfigured bool     `json:"backend_configured"`
	BackendURL        string   `json:"backend_url,omitempty"`
}

// Encoder writes protocol messages to the output channel, one JSON document
// per line, flushed immediately so the consumer observes incremental
// progress instead of a buffered burst at exit.
type Encoder struct {
	w   io.Writer
	enc *json.Encoder
}

// NewEncoder wraps the output channel writer.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, enc: json.NewEncoder(w)}
}

func (e *Encoder) send(v any) error {
	if err := e.enc.Encode(v); err != nil {
		return err
	}
	if f, ok := e.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Status emits a human-readable narration message.
func (e *Encoder) Status(message string) error {
	return e.send(statusMessage{Type: "status", Message: message})
}

// Progress emits a per-image heartbeat. Current is 1-indexed.
func (e *Encoder) Progress(current, total int) error {
	return e.send(progressMessage{Type: "progress", Current: current, Total: total})
}

// Result emits the final success response of a classify request.
func (e *Encoder) Result(batch domain.BatchResult) error {
	resp := finalResponse{
		Status:  "success",
		Device:  batch.Device,
		Results: make([]resultEntry, 0, len(batch.Results)),
		Errors:  make([]errorEntry, 0, len(batch.Errors)),
	}
	for _, r := range batch.Results {
		resp.Results = append(resp.Results, resultEntry{
			Path:       r.Path,
			Category:   r.Category,
			Confidence: r.Confidence,
			Scores:     r.Scores,
		})
	}
	for _, ie := range batch.Errors {
		resp.Errors = append(resp.Errors, errorEntry{Path: ie.Path, Error: ie.Error})
	}
	return e.send(resp)
}

// Fatal emits a request-level error response.
func (e *Encoder) Fatal(err error) error {
	return e.send(errorResponse{Status: "error", Error: err.Error()})
}

// Check emits the check command response.
func (e *Encoder) Check(checks Checks) error {
	return e.send(checkResponse{Status: "success", Checks: checks})
}
