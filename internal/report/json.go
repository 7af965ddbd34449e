package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/monover/monover/internal/clock"
)

// event is one newline-delimited JSON record.
type event struct {
	Time      time.Time `json:"time"`
	Type      string    `json:"type"`
	Message   string    `json:"message,omitempty"`
	Name      string    `json:"name,omitempty"`
	Dependent string    `json:"dependent,omitempty"`
	Kind      string    `json:"kind,omitempty"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
}

// JSONReporter renders events as newline-delimited JSON for scripting.
type JSONReporter struct {
	enc *json.Encoder
	clk clock.Clock
}

// NewJSONReporter creates a JSONReporter writing to out, timestamping events
// with clk.
func NewJSONReporter(out io.Writer, clk clock.Clock) *JSONReporter {
	return &JSONReporter{enc: json.NewEncoder(out), clk: clk}
}

func (r *JSONReporter) emit(e event) {
	e.Time = r.clk.Now().UTC()
	_ = r.enc.Encode(e)
}

// Info emits an info event.
func (r *JSONReporter) Info(msg string) {
	r.emit(event{Type: "info", Message: msg})
}

// Warning emits a warning event.
func (r *JSONReporter) Warning(msg string) {
	r.emit(event{Type: "warning", Message: msg})
}

// Separator is a no-op; JSON output has no visual sections.
func (r *JSONReporter) Separator() {}

// Release emits a release event.
func (r *JSONReporter) Release(name, from, to string) {
	r.emit(event{Type: "release", Name: name, From: from, To: to})
}

// Rewrite emits a rewrite event.
func (r *JSONReporter) Rewrite(dependent, kind, target, from, to string) {
	r.emit(event{Type: "rewrite", Dependent: dependent, Kind: kind, Name: target, From: from, To: to})
}
