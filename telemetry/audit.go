package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// AuditLogger appends run events to an audit trail, one JSON object per
// line. Writes are serialized, so a single logger may be shared across
// agents.
type AuditLogger struct {
	mu   sync.Mutex
	w    io.Writer
	file *os.File
}

// NewAuditLogger opens path in append mode, creating it if needed.
func NewAuditLogger(path string) (*AuditLogger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	return &AuditLogger{w: file, file: file}, nil
}

// NewAuditLoggerWithWriter wraps a caller-supplied writer. Close is a no-op
// for loggers created this way.
func NewAuditLoggerWithWriter(w io.Writer) *AuditLogger {
	return &AuditLogger{w: w}
}

// WriteEvent appends one event record with a UTC timestamp.
func (a *AuditLogger) WriteEvent(eventName string, payload map[string]any) error {
	record := map[string]any{
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"event_name": eventName,
		"payload":    payload,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode audit event: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit event: %w", err)
	}

	return nil
}

// Close releases the underlying file, if this logger owns one.
func (a *AuditLogger) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return nil
	}

	return a.file.Close()
}
