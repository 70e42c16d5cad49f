package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/app"
	"github.com/mungus451/starlight-v2-sub001/modules/kit/tracex"
)

type countingProc struct {
	calls   atomic.Int64
	traced  atomic.Int64
	err     error
	entered chan struct{}
}

func (p *countingProc) ProcessAllAccounts(ctx context.Context) (app.TickResult, error) {
	p.calls.Add(1)
	if _, ok := tracex.TraceIDFrom(ctx); ok {
		p.traced.Add(1)
	}
	p.entered <- struct{}{}
	return app.TickResult{}, p.err
}

func newManualTicker(proc TickProcessor) (*Ticker, chan time.Time) {
	c := make(chan time.Time)
	t := NewTicker(proc, time.Minute, nil)
	t.ticks = func() (<-chan time.Time, func()) { return c, func() {} }
	return t, c
}

func TestTicker_每个tick恰好结算一次(t *testing.T) {
	proc := &countingProc{entered: make(chan struct{}, 8)}
	tk, c := newManualTicker(proc)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tk.Run(ctx)
		close(done)
	}()

	for range 3 {
		c <- time.Now()
		<-proc.entered
	}
	cancel()
	<-done

	if got := proc.calls.Load(); got != 3 {
		t.Fatalf("期望结算 3 次, got=%d", got)
	}
	if got := proc.traced.Load(); got != 3 {
		t.Fatalf("期望每次都带 trace_id, got=%d", got)
	}
}

func TestTicker_结算失败不中断调度(t *testing.T) {
	proc := &countingProc{entered: make(chan struct{}, 8), err: errors.New("db down")}
	tk, c := newManualTicker(proc)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tk.Run(ctx)
		close(done)
	}()

	c <- time.Now()
	<-proc.entered
	c <- time.Now()
	<-proc.entered
	cancel()
	<-done

	if got := proc.calls.Load(); got != 2 {
		t.Fatalf("期望失败后继续调度, got=%d", got)
	}
}

func TestTicker_间隔非法时不启动(t *testing.T) {
	proc := &countingProc{entered: make(chan struct{}, 1)}
	NewTicker(proc, 0, nil).Run(context.Background())
	if proc.calls.Load() != 0 {
		t.Fatalf("期望不调度")
	}
}
