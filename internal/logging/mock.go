package logging

// MockLogger is a mock implementation of the Logger interface for testing.
// It captures log entries for verification in tests. Child loggers created
// by WithField/WithError share the parent's entry list.
type MockLogger struct {
	entries       *[]LogEntry
	pendingError  error
	pendingFields []Field
}

// LogEntry represents a single log entry captured by MockLogger.
type LogEntry struct {
	Level   string
	Message string
	Fields  []Field
	Error   error
}

// NewMockLogger creates a MockLogger with an empty entry list.
func NewMockLogger() *MockLogger {
	entries := make([]LogEntry, 0)
	return &MockLogger{entries: &entries}
}

// Entries returns all captured log entries, including those logged through
// derived loggers.
func (m *MockLogger) Entries() []LogEntry {
	return *m.entries
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	allFields := append(append([]Field{}, m.pendingFields...), fields...)
	*m.entries = append(*m.entries, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  allFields,
		Error:   m.pendingError,
	})
}

// Debug logs a debug-level message with optional fields.
func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("DEBUG", msg, fields) }

// Info logs an info-level message with optional fields.
func (m *MockLogger) Info(msg string, fields ...Field) { m.record("INFO", msg, fields) }

// Warn logs a warning-level message with optional fields.
func (m *MockLogger) Warn(msg string, fields ...Field) { m.record("WARN", msg, fields) }

// Error logs an error-level message with optional fields.
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("ERROR", msg, fields) }

// WithError returns a new logger with an error field attached.
func (m *MockLogger) WithError(err error) Logger {
	return &MockLogger{
		entries:       m.entries,
		pendingError:  err,
		pendingFields: m.pendingFields,
	}
}

// WithField returns a new logger with a single field attached.
func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return m.WithFields(Field{Key: key, Value: value})
}

// WithFields returns a new logger with multiple fields attached.
func (m *MockLogger) WithFields(fields ...Field) Logger {
	allFields := append(append([]Field{}, m.pendingFields...), fields...)
	return &MockLogger{
		entries:       m.entries,
		pendingError:  m.pendingError,
		pendingFields: allFields,
	}
}

// HasMessage reports whether any captured entry carries the given message.
func (m *MockLogger) HasMessage(msg string) bool {
	for _, e := range *m.entries {
		if e.Message == msg {
			return true
		}
	}
	return false
}
