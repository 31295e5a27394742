package logging

import (
	"context"
	"maps"
	"slices"

	"github.com/goliatone/go-cooklang/pkg/interfaces"
)

// WithFields attaches fields to logger. Loggers implementing FieldsLogger
// receive a copy of the map; any other logger is wrapped so the fields are
// appended as key/value args to every entry, sorted by key.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if wrapped, ok := logger.(*argsLogger); ok {
		merged := maps.Clone(wrapped.fields)
		maps.Copy(merged, fields)
		return &argsLogger{inner: wrapped.inner, fields: merged}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}
	return &argsLogger{inner: logger, fields: maps.Clone(fields)}
}

// argsLogger carries fields for loggers without native field support.
type argsLogger struct {
	inner  interfaces.Logger
	fields map[string]any
}

var (
	_ interfaces.Logger       = (*argsLogger)(nil)
	_ interfaces.FieldsLogger = (*argsLogger)(nil)
)

func (l *argsLogger) Trace(msg string, args ...any) { l.inner.Trace(msg, l.args(args)...) }
func (l *argsLogger) Debug(msg string, args ...any) { l.inner.Debug(msg, l.args(args)...) }
func (l *argsLogger) Info(msg string, args ...any)  { l.inner.Info(msg, l.args(args)...) }
func (l *argsLogger) Warn(msg string, args ...any)  { l.inner.Warn(msg, l.args(args)...) }
func (l *argsLogger) Error(msg string, args ...any) { l.inner.Error(msg, l.args(args)...) }
func (l *argsLogger) Fatal(msg string, args ...any) { l.inner.Fatal(msg, l.args(args)...) }

func (l *argsLogger) WithContext(ctx context.Context) interfaces.Logger {
	return &argsLogger{inner: l.inner.WithContext(ctx), fields: l.fields}
}

func (l *argsLogger) WithFields(fields map[string]any) interfaces.Logger {
	return WithFields(l, fields)
}

func (l *argsLogger) args(extra []any) []any {
	out := make([]any, 0, len(extra)+len(l.fields)*2)
	out = append(out, extra...)
	for _, key := range slices.Sorted(maps.Keys(l.fields)) {
		out = append(out, key, l.fields[key])
	}
	return out
}
