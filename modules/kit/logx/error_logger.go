package logx

import (
	"context"

	"go.uber.org/zap"
)

// BizLog 业务拒绝：目标不存在、回合不足之类，属于正常流程。
type BizLog struct {
	Action string
	Err    error
}

// SysLog 技术错误：存储失败、数据缺失，需要排障。
type SysLog struct {
	Action string
	Err    error
}

func NewBizLog(action string, err error) BizLog {
	return BizLog{Action: action, Err: err}
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err}
}

// ReportAccessWithLoggerContext 访问日志：biz_code 为 0 记 INFO，>=500 记 ERROR，其余 WARN。
func ReportAccessWithLoggerContext(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	fields = append([]zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}, fields...)

	lc := l.WithContext(ctx)
	switch {
	case bizCode == 0:
		lc.Info("access", fields...)
	case bizCode >= 500:
		lc.Error("access", fields...)
	default:
		lc.Warn("access", fields...)
	}
}

// ReportBizWithLoggerContext 业务拒绝只记 DEBUG，不带栈。
func ReportBizWithLoggerContext(ctx context.Context, l Logger, biz BizLog, fields ...zap.Field) {
	if biz.Err == nil || l == nil {
		return
	}
	action := biz.Action
	if action == "" {
		action = "biz_reject"
	}
	meta := BuildErrorLog(biz.Err)
	base := append([]zap.Field{
		zap.String("err_type", "biz"),
		zap.String("action", action),
	}, meta.Fields(false)...)
	l.WithContext(ctx).Debug(meta.Summary(action), append(base, fields...)...)
}

// ReportSysErrorWithLoggerContext 技术错误记 ERROR，附带 cause 链与发生处栈。
func ReportSysErrorWithLoggerContext(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if sys.Err == nil || l == nil {
		return
	}
	action := sys.Action
	if action == "" {
		action = "sys_error"
	}
	meta := BuildErrorLog(sys.Err)
	base := append([]zap.Field{
		zap.String("err_type", "sys"),
		zap.String("action", action),
	}, meta.Fields(true)...)
	l.WithContext(ctx).Error(meta.Summary(action), append(base, fields...)...)
}
