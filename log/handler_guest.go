//go:build wasip1

package log

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/internal/abi"
)

//go:wasmimport atmdensity_host log_message
//nolint:revive // intentional snake_case to match WASM import convention
func host_log_message(messagePacked uint64)

// GuestHandler routes slog records from a WASM guest to the host's logger.
type GuestHandler struct {
	opts handlerConfig
}

// NewGuestHandler creates a GuestHandler. Records below the configured level
// are dropped on the guest side.
func NewGuestHandler(opts ...HandlerOption) *GuestHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GuestHandler{opts: cfg}
}

// Enabled reports whether the handler handles records at the given level.
func (h *GuestHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level
}

// Handle serializes the record and hands it to the host.
func (h *GuestHandler) Handle(_ context.Context, record slog.Record) error {
	data, err := json.Marshal(NewLogMessageWire(record))
	if err != nil {
		fmt.Printf("log: failed to marshal record for host: %v, original: %s\n", err, record.Message)
		return nil
	}
	packed := abi.Send(data)
	host_log_message(packed)
	abi.Free(packed)
	return nil
}

// WithAttrs returns h unchanged; attributes are carried per record.
func (h *GuestHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	c := *h
	return &c
}

// WithGroup returns h unchanged; groups are not nested on the wire.
func (h *GuestHandler) WithGroup(_ string) slog.Handler {
	c := *h
	return &c
}

func init() {
	slog.SetDefault(slog.New(NewGuestHandler()))
}
