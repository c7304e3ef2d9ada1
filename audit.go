package toxin

import (
	"io"

	"github.com/MrEthical07/toxin/internal/audit"
	"github.com/sirupsen/logrus"
)

// AuditEvent is one structured audit record.
type AuditEvent = audit.Event

// AuditSink receives audit events from the engine's dispatcher goroutine.
type AuditSink = audit.Sink

// NoOpSink discards audit events.
type NoOpSink = audit.NoOpSink

// ChannelSink delivers audit events to a buffered channel.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes audit events as JSON lines.
type JSONWriterSink = audit.JSONWriterSink

// LogSink writes audit events through logrus.
type LogSink = audit.LogSink

// NewChannelSink creates a [ChannelSink] with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

// NewLogSink creates a [LogSink] writing to logger.
func NewLogSink(logger logrus.FieldLogger) *LogSink {
	return audit.NewLogSink(logger)
}
