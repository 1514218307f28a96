package logging

import (
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// AppName is attached to every entry as the "app" field.
const AppName = "settle2qif"

// leadingFields are printed first, in this order, by the text formatter.
var leadingFields = []string{FieldLine, FieldInputFile, FieldOutputFile}

// Options configures a logrus-backed Logger.
type Options struct {
	// Level is one of debug, info, warn or error; anything else means info.
	Level string
	// Format is "json" or "text".
	Format string
	// Output defaults to stderr when nil.
	Output io.Writer
}

// LogrusAdapter implements Logger on top of logrus.
type LogrusAdapter struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

// New builds a Logger from opts.
func New(opts Options) Logger {
	logger := logrus.New()
	if opts.Output != nil {
		logger.SetOutput(opts.Output)
	}

	level, err := logrus.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(newFormatter(opts.Format))

	adapter := &LogrusAdapter{
		logger: logger,
		entry:  logrus.NewEntry(logger).WithField("app", AppName),
	}
	if err != nil && opts.Level != "" {
		adapter.Warn("Invalid log level, using info", F("requested_level", opts.Level))
	}
	return adapter
}

// NewLogrusAdapter is New writing to stderr.
func NewLogrusAdapter(level, format string) Logger {
	return New(Options{Level: level, Format: format})
}

// NewLogrusAdapterWithOutput is New writing to out.
func NewLogrusAdapterWithOutput(level, format string, out io.Writer) Logger {
	return New(Options{Level: level, Format: format, Output: out})
}

func newFormatter(format string) logrus.Formatter {
	if strings.EqualFold(format, "json") {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{
		FullTimestamp: true,
		SortingFunc:   sortFields,
	}
}

// sortFields keeps the logrus built-ins (time, level, msg) in front, then
// leadingFields, then everything else alphabetically.
func sortFields(keys []string) {
	rank := func(key string) int {
		switch key {
		case logrus.FieldKeyTime:
			return 0
		case logrus.FieldKeyLevel:
			return 1
		case logrus.FieldKeyMsg:
			return 2
		}
		for i, lead := range leadingFields {
			if key == lead {
				return 3 + i
			}
		}
		return 3 + len(leadingFields)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
}

func (l *LogrusAdapter) Debug(msg string, fields ...Field) {
	l.entry.WithFields(toLogrus(fields)).Debug(msg)
}

func (l *LogrusAdapter) Info(msg string, fields ...Field) {
	l.entry.WithFields(toLogrus(fields)).Info(msg)
}

func (l *LogrusAdapter) Warn(msg string, fields ...Field) {
	l.entry.WithFields(toLogrus(fields)).Warn(msg)
}

func (l *LogrusAdapter) Error(msg string, fields ...Field) {
	l.entry.WithFields(toLogrus(fields)).Error(msg)
}

func (l *LogrusAdapter) WithError(err error) Logger {
	return l.derive(l.entry.WithError(err))
}

func (l *LogrusAdapter) WithField(key string, value interface{}) Logger {
	return l.derive(l.entry.WithField(key, value))
}

func (l *LogrusAdapter) WithFields(fields ...Field) Logger {
	return l.derive(l.entry.WithFields(toLogrus(fields)))
}

func (l *LogrusAdapter) derive(entry *logrus.Entry) Logger {
	return &LogrusAdapter{logger: l.logger, entry: entry}
}

func toLogrus(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}
