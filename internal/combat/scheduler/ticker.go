// Package scheduler 按固定间隔触发全量回合结算。
//
// 回合结算不是幂等的：每次调用就是一个回合。调度器在单个 goroutine 中串行调用，
// 上一次没结束时到期的 tick 直接丢弃（time.Ticker 的语义），保证一个间隔最多结算一次。
// 多实例部署时只能有一个实例开启调度。
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/app"
	"github.com/mungus451/starlight-v2-sub001/modules/kit/logx"
	"github.com/mungus451/starlight-v2-sub001/modules/kit/tracex"
)

type TickProcessor interface {
	ProcessAllAccounts(ctx context.Context) (app.TickResult, error)
}

type Ticker struct {
	proc     TickProcessor
	interval time.Duration
	log      logx.Logger
	ticks    func() (<-chan time.Time, func())
}

func NewTicker(proc TickProcessor, interval time.Duration, l logx.Logger) *Ticker {
	if l == nil {
		l = logx.Nop()
	}
	t := &Ticker{proc: proc, interval: interval, log: l}
	t.ticks = func() (<-chan time.Time, func()) {
		tk := time.NewTicker(t.interval)
		return tk.C, tk.Stop
	}
	return t
}

// Run 阻塞直到 ctx 取消。
func (t *Ticker) Run(ctx context.Context) {
	if t.interval <= 0 {
		t.log.Warn("tick scheduler disabled", zap.Duration("interval", t.interval))
		return
	}
	c, stop := t.ticks()
	defer stop()

	t.log.Info("tick scheduler started", zap.Duration("interval", t.interval))
	for {
		select {
		case <-ctx.Done():
			t.log.Info("tick scheduler stopped")
			return
		case <-c:
			t.fire(ctx)
		}
	}
}

func (t *Ticker) fire(ctx context.Context) {
	ctx, tid := tracex.EnsureTraceID(ctx)
	ctx = tracex.WithSpanID(ctx, "scheduler")
	if _, err := t.proc.ProcessAllAccounts(ctx); err != nil {
		// 服务内部已经记录了带 cause 的系统错误日志。
		t.log.WithContext(ctx).Warn("tick failed", zap.String("trace_id", tid), zap.Error(err))
	}
}
