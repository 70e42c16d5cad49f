package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
}

func TestEnsureTraceID_已有则复用(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t-2")
	ctx2, tid := EnsureTraceID(ctx)
	if tid != "t-2" {
		t.Fatalf("期望复用已有 trace_id, got=%q", tid)
	}
	if got, _ := TraceIDFrom(ctx2); got != "t-2" {
		t.Fatalf("期望 ctx 中 trace_id 不变, got=%q", got)
	}

	_, fresh := EnsureTraceID(context.Background())
	if len(fresh) != 32 {
		t.Fatalf("期望生成 16 字节 hex trace_id, got=%q", fresh)
	}
}
