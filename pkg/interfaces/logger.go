package interfaces

import "context"

// Logger is the leveled logger every cooklang package writes to. Args are
// alternating key/value pairs. The method set matches go-logger's so a glog
// logger can be adapted without shims.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider returns loggers named after cooklang modules, such as
// "cooklang.parser" or "cooklang.store".
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can bind fields such as
// recipe_path to every later entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
