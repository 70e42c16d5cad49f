package logx

import (
	"context"

	"go.uber.org/zap"

	"github.com/mungus451/starlight-v2-sub001/modules/kit/tracex"
)

// ZapLogger 实现 Logger；WithContext 把 ctx 中的 trace_id/span_id 挂成字段。
type ZapLogger struct {
	logger *zap.Logger
}

var _ Logger = (*ZapLogger)(nil)

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{logger: l}
}

func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	if z == nil {
		return Nop()
	}
	if ctx == nil {
		return z
	}
	fields := make([]zap.Field, 0, 2)
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", tid))
	}
	if sid, ok := tracex.SpanIDFrom(ctx); ok {
		fields = append(fields, zap.String("span_id", sid))
	}
	if len(fields) == 0 {
		return z
	}
	return &ZapLogger{logger: z.logger.With(fields...)}
}

// Zap 取底层 logger，给只接受 *zap.Logger 的依赖使用。
func (z *ZapLogger) Zap() *zap.Logger { return z.logger }

func (z *ZapLogger) Debug(msg string, fields ...zap.Field) { z.logger.Debug(msg, fields...) }

func (z *ZapLogger) Info(msg string, fields ...zap.Field) { z.logger.Info(msg, fields...) }

func (z *ZapLogger) Warn(msg string, fields ...zap.Field) { z.logger.Warn(msg, fields...) }

func (z *ZapLogger) Error(msg string, fields ...zap.Field) { z.logger.Error(msg, fields...) }
