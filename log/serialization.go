package log

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// LogMessageWire is the JSON form of a log record sent from a guest to the host.
type LogMessageWire struct {
	Timestamp time.Time     `json:"timestamp"`
	Attrs     []LogAttrWire `json:"attrs,omitempty"`
	Level     string        `json:"level"`
	Message   string        `json:"message"`
}

// LogAttrWire represents a single slog attribute for wire transfer.
type LogAttrWire struct {
	Key   string `json:"key"`
	Type  string `json:"type"`  // "string", "int64", "bool", "float64", "time", "error", "any"
	Value string `json:"value"` // String representation of the value
}

// toLogAttrWire converts a slog.Attr to LogAttrWire.
func toLogAttrWire(attr slog.Attr) LogAttrWire {
	wire := LogAttrWire{
		Key: attr.Key,
	}
	// Resolve the attribute value
	attr.Value = attr.Value.Resolve()

	switch attr.Value.Kind() {
	case slog.KindString:
		wire.Type = "string"
		wire.Value = attr.Value.String()
	case slog.KindInt64:
		wire.Type = "int64"
		wire.Value = fmt.Sprintf("%d", attr.Value.Int64())
	case slog.KindUint64:
		wire.Type = "uint64"
		wire.Value = fmt.Sprintf("%d", attr.Value.Uint64())
	case slog.KindBool:
		wire.Type = "bool"
		wire.Value = fmt.Sprintf("%t", attr.Value.Bool())
	case slog.KindFloat64:
		wire.Type = "float64"
		wire.Value = fmt.Sprintf("%f", attr.Value.Float64())
	case slog.KindTime:
		wire.Type = "time"
		wire.Value = attr.Value.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		wire.Type = "duration"
		wire.Value = attr.Value.Duration().String()
	case slog.KindAny:
		if v := attr.Value.Any(); v != nil {
			if err, isErr := v.(error); isErr {
				wire.Type = "error"
				wire.Value = err.Error()
			} else if data, marshalErr := json.Marshal(v); marshalErr == nil {
				wire.Type = "json"
				wire.Value = string(data)
			} else {
				wire.Type = "any"
				wire.Value = fmt.Sprintf("%v", v)
			}
		} else {
			wire.Type = "any"
			wire.Value = "<nil>"
		}
	case slog.KindGroup:
		// Groups are not nested on the wire.
		wire.Type = "group"
		wire.Value = fmt.Sprintf("%v", attr.Value.Any())
	case slog.KindLogValuer:
		return toLogAttrWire(slog.Attr{Key: attr.Key, Value: attr.Value.LogValuer().LogValue()})
	default:
		wire.Type = "any"
		wire.Value = fmt.Sprintf("%v", attr.Value.Any())
	}
	return wire
}

// NewLogMessageWire converts a record into its wire form.
func NewLogMessageWire(record slog.Record) LogMessageWire {
	msg := LogMessageWire{
		Level:     record.Level.String(),
		Message:   record.Message,
		Timestamp: record.Time,
	}
	record.Attrs(func(attr slog.Attr) bool {
		msg.Attrs = append(msg.Attrs, toLogAttrWire(attr))
		return true
	})
	return msg
}

// Replay emits a guest record through logger with its original level, time
// and attributes, plus extra attributes identifying the guest.
func Replay(ctx context.Context, logger *slog.Logger, msg LogMessageWire, extra ...slog.Attr) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(msg.Level)); err != nil {
		level = slog.LevelInfo
	}
	if !logger.Enabled(ctx, level) {
		return
	}

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	record := slog.NewRecord(ts, level, msg.Message, 0)
	record.AddAttrs(extra...)
	for _, a := range msg.Attrs {
		record.AddAttrs(fromLogAttrWire(a))
	}
	_ = logger.Handler().Handle(ctx, record)
}

// fromLogAttrWire restores the typed value where the wire type allows it and
// keeps the string form otherwise.
func fromLogAttrWire(w LogAttrWire) slog.Attr {
	switch w.Type {
	case "int64":
		if v, err := strconv.ParseInt(w.Value, 10, 64); err == nil {
			return slog.Int64(w.Key, v)
		}
	case "uint64":
		if v, err := strconv.ParseUint(w.Value, 10, 64); err == nil {
			return slog.Uint64(w.Key, v)
		}
	case "bool":
		if v, err := strconv.ParseBool(w.Value); err == nil {
			return slog.Bool(w.Key, v)
		}
	case "float64":
		if v, err := strconv.ParseFloat(w.Value, 64); err == nil {
			return slog.Float64(w.Key, v)
		}
	case "time":
		if v, err := time.Parse(time.RFC3339Nano, w.Value); err == nil {
			return slog.Time(w.Key, v)
		}
	case "duration":
		if v, err := time.ParseDuration(w.Value); err == nil {
			return slog.Duration(w.Key, v)
		}
	case "json":
		return slog.Any(w.Key, json.RawMessage(w.Value))
	}
	return slog.String(w.Key, w.Value)
}
