// Package diagnostics provides DiagnosticsSink implementations: the host
// error channel the gateway reports failures through.
package diagnostics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/ports"
)

var (
	_ ports.DiagnosticsSink = (*Recorder)(nil)
	_ ports.DiagnosticsSink = (*SlogSink)(nil)
	_ ports.DiagnosticsSink = Tee(nil)
)

// Recorder keeps every reported message. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Report implements ports.DiagnosticsSink.
func (r *Recorder) Report(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of every message reported so far.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Drain returns every message and clears the recorder.
func (r *Recorder) Drain() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.messages
	r.messages = nil
	return out
}

// SlogSink mirrors reports into a logger at error level.
type SlogSink struct {
	logger *slog.Logger
	attrs  []any
}

// NewSlogSink creates a SlogSink. A nil logger means slog.Default().
func NewSlogSink(logger *slog.Logger, attrs ...any) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger, attrs: attrs}
}

// Report implements ports.DiagnosticsSink.
func (s *SlogSink) Report(message string) {
	s.logger.Log(context.Background(), slog.LevelError, message, s.attrs...)
}

// Tee fans a report out to several sinks in order.
type Tee []ports.DiagnosticsSink

// Report implements ports.DiagnosticsSink.
func (t Tee) Report(message string) {
	for _, s := range t {
		if s != nil {
			s.Report(message)
		}
	}
}
