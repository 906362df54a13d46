// Package logger holds the process-wide zap logger used by the storage engine,
// the loader and the command line. Until Init runs, a warn-level JSON logger
// writing to stderr is used.
package logger

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/gridstore/pkg/errors"
)

var (
	globalLogger *zap.Logger
	mu           sync.Mutex
)

type contextKey string

const (
	// TableKey carries the table name through a context
	TableKey contextKey = "table"
	// ColumnKey carries the column name through a context
	ColumnKey contextKey = "column"
)

// contextFields lists the keys WithContext copies onto the logger, in order.
var contextFields = []contextKey{TableKey, ColumnKey}

// Config selects level and encoding of the global logger.
type Config struct {
	Level       string
	Development bool
	Encoding    string // json or console
}

// Init builds a logger from cfg and installs it, replacing any previous one.
func Init(cfg Config) error {
	l, err := build(cfg, zapcore.Lock(os.Stderr))
	if err != nil {
		return err
	}
	Set(l)
	return nil
}

func build(cfg Config, out zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid log level").
			WithDetail("level", cfg.Level)
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.MessageKey = "message"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeDuration = zapcore.StringDurationEncoder

	var encoder zapcore.Encoder
	switch cfg.Encoding {
	case "", "json":
		encoder = zapcore.NewJSONEncoder(enc)
	case "console":
		if cfg.Development {
			enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(enc)
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unknown log encoding %q", cfg.Encoding)
	}

	opts := []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return zap.New(zapcore.NewCore(encoder, out, level), opts...), nil
}

// Set replaces the global logger. Passing nil restores the default on the
// next Get.
func Set(l *zap.Logger) {
	mu.Lock()
	globalLogger = l
	mu.Unlock()
}

// Get returns the global logger.
func Get() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		l, err := build(Config{Level: "warn"}, zapcore.Lock(os.Stderr))
		if err != nil {
			l = zap.NewNop()
		}
		globalLogger = l
	}
	return globalLogger
}

// WithContext returns the global logger with the table and column carried by
// ctx attached as fields.
func WithContext(ctx context.Context) *zap.Logger {
	l := Get()
	for _, key := range contextFields {
		if v, ok := ctx.Value(key).(string); ok {
			l = l.With(zap.String(string(key), v))
		}
	}
	return l
}

func Debug(msg string, fields ...zap.Field) { Get().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { Get().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { Get().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { Get().Error(msg, fields...) }

// With creates a child of the global logger.
func With(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

// Sync flushes buffered entries. Errors from syncing a terminal are common
// and callers usually ignore them.
func Sync() error {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}
