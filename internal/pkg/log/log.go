package log

import (
	"context"
	"fmt"
	"os"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	Zap() *zap.Logger
}

type logger struct {
	otel *otelzap.Logger
}

var defaultLogger Logger

func SetupLogger() *zap.Logger {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(fmt.Sprintf("error build logger: %v", err))
	}
	return l
}

func Init(l *zap.Logger) {
	defaultLogger = New(l)
}

func New(l *zap.Logger) Logger {
	return &logger{otel: otelzap.New(l, otelzap.WithMinLevel(zapcore.InfoLevel))}
}

func GetLogger() Logger {
	if defaultLogger == nil {
		Init(SetupLogger())
	}
	return defaultLogger
}

// Setup is the short form used by tests.
func Setup() Logger {
	Init(zap.NewNop())
	return defaultLogger
}

func (l *logger) Debug(ctx context.Context, msg string, args ...any) {
	l.otel.Ctx(ctx).Debug(msg, fields(ctx, args)...)
}

func (l *logger) Info(ctx context.Context, msg string, args ...any) {
	l.otel.Ctx(ctx).Info(msg, fields(ctx, args)...)
}

func (l *logger) Warn(ctx context.Context, msg string, args ...any) {
	l.otel.Ctx(ctx).Warn(msg, fields(ctx, args)...)
}

func (l *logger) Error(ctx context.Context, msg string, args ...any) {
	l.otel.Ctx(ctx).Error(msg, fields(ctx, args)...)
}

func (l *logger) Zap() *zap.Logger {
	return l.otel.Logger
}

func fields(ctx context.Context, args []any) []zap.Field {
	out := make([]zap.Field, 0, len(args)+1)
	if id := CorrelationID(ctx); id != "" {
		out = append(out, zap.String("correlation_id", id))
	}
	for i, arg := range args {
		switch v := arg.(type) {
		case zap.Field:
			out = append(out, v)
		case error:
			out = append(out, zap.Error(v))
		default:
			out = append(out, zap.Any(fmt.Sprintf("arg%d", i), v))
		}
	}
	return out
}
