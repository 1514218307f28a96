// Package logging provides the logging abstraction used across settle2qif.
// Components depend on the Logger interface so that tests can swap in a
// MockLogger and the binary can run on logrus.
package logging

// Logger defines structured logging for the conversion pipeline.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a logger with an error field attached
	WithError(err error) Logger

	// WithField returns a logger with a single field attached
	WithField(key string, value interface{}) Logger

	// WithFields returns a logger with multiple fields attached
	WithFields(fields ...Field) Logger
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
