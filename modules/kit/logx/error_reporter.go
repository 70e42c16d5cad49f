package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

const (
	maxCauseDepth  = 20
	maxStackFrames = 32
)

// described 由 errx.Error 实现；第三方错误只有 Error() 与 cause 链。
type described interface {
	CodeText() string
	Msg() string
	Reason() string
	Data() map[string]any
	Stack() []uintptr
}

// ErrorLog 从错误中提取的可读信息，日志和接口层共用。
type ErrorLog struct {
	Error      string
	Code       string
	Msg        string
	Reason     string
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error(), CauseChain: causeChain(err)}

	var d described
	if errors.As(err, &d) {
		out.Code = d.CodeText()
		out.Msg = d.Msg()
		out.Reason = d.Reason()
		out.Data = d.Data()
		out.Origin, out.Stack = formatStack(d.Stack())
	}
	// 外层没有栈时，栈可能在 cause 链里更深的 sys 错误上。
	if out.Stack == "" {
		for cur := errors.Unwrap(err); cur != nil; cur = errors.Unwrap(cur) {
			if sp, ok := cur.(interface{ Stack() []uintptr }); ok {
				if out.Origin, out.Stack = formatStack(sp.Stack()); out.Stack != "" {
					break
				}
			}
		}
	}
	return out
}

// Fields 非空字段转成 zap 字段。withStack=false 时不带栈（业务拒绝不需要）。
func (m ErrorLog) Fields(withStack bool) []zap.Field {
	fields := make([]zap.Field, 0, 6)
	if m.Code != "" {
		fields = append(fields, zap.String("error_code", m.Code))
	}
	if m.Reason != "" {
		fields = append(fields, zap.String("reason", m.Reason))
	}
	if len(m.Data) != 0 {
		fields = append(fields, zap.Any("error_data", m.Data))
	}
	if len(m.CauseChain) != 0 {
		fields = append(fields, zap.Strings("cause_chain", m.CauseChain))
	}
	if withStack && m.Stack != "" {
		fields = append(fields, zap.String("origin_caller", m.Origin), zap.String("stack_origin", m.Stack))
	}
	return fields
}

// Summary 单行描述，作为日志 msg。
func (m ErrorLog) Summary(action string) string {
	switch {
	case m.Reason != "":
		return fmt.Sprintf("%s, reason:%s, error:%s", action, m.Reason, m.Error)
	case m.Msg != "":
		return fmt.Sprintf("%s, error:%s, msg:%s", action, m.Error, m.Msg)
	default:
		return fmt.Sprintf("%s, error:%s", action, m.Error)
	}
}

func causeChain(err error) []string {
	var out []string
	cur := errors.Unwrap(err)
	for i := 0; i < maxCauseDepth && cur != nil; i++ {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
		cur = errors.Unwrap(cur)
	}
	return out
}

func formatStack(pcs []uintptr) (origin, stack string) {
	if len(pcs) == 0 {
		return "", ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, 8)
	for len(lines) < maxStackFrames {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" {
			break
		}
		line := fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line)
		if origin == "" {
			origin = line
		}
		lines = append(lines, line)
		if !more {
			break
		}
	}
	return origin, strings.Join(lines, "\n")
}
