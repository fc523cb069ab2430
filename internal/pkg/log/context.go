package log

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"go.uber.org/zap"
)

type ctxKey int

const correlationIDKey ctxKey = iota

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// WatermillAdapter routes watermill router and pub/sub logs through zap.
type WatermillAdapter struct {
	log    *zap.Logger
	fields watermill.LogFields
}

func NewWatermillAdapter(l Logger) *WatermillAdapter {
	return &WatermillAdapter{log: l.Zap()}
}

func (w *WatermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	w.log.Error(msg, append(w.zapFields(fields), zap.Error(err))...)
}

func (w *WatermillAdapter) Info(msg string, fields watermill.LogFields) {
	w.log.Info(msg, w.zapFields(fields)...)
}

func (w *WatermillAdapter) Debug(msg string, fields watermill.LogFields) {
	w.log.Debug(msg, w.zapFields(fields)...)
}

func (w *WatermillAdapter) Trace(msg string, fields watermill.LogFields) {
	w.log.Debug(msg, w.zapFields(fields)...)
}

func (w *WatermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &WatermillAdapter{log: w.log, fields: w.fields.Add(fields)}
}

func (w *WatermillAdapter) zapFields(fields watermill.LogFields) []zap.Field {
	all := w.fields.Add(fields)
	out := make([]zap.Field, 0, len(all))
	for k, v := range all {
		out = append(out, zap.Any(k, v))
	}
	return out
}
