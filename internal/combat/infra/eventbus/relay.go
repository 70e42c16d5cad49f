package eventbus

import (
	"context"

	"go.uber.org/zap"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/app"
	"github.com/mungus451/starlight-v2-sub001/modules/kit/logx"
)

const defaultRelayBatch = 500

// Relay 补发 outbox 中尚未投递的事件（进程在提交后、投递前退出时会留下这些事件）。
type Relay struct {
	outbox app.OutboxRepo
	bus    *Bus
	batch  int
	log    logx.Logger
}

func NewRelay(outbox app.OutboxRepo, bus *Bus, batch int, l logx.Logger) *Relay {
	if batch <= 0 {
		batch = defaultRelayBatch
	}
	if l == nil {
		l = logx.Nop()
	}
	return &Relay{outbox: outbox, bus: bus, batch: batch, log: l}
}

// Redeliver 分批读取待投递事件并等待处理完。
// 某一批没有任何事件被标记（订阅方持续失败）时停止，避免空转。
func (r *Relay) Redeliver(ctx context.Context) (int, error) {
	total := 0
	for {
		pending, err := r.outbox.Pending(ctx, r.batch)
		if err != nil {
			return total, err
		}
		if len(pending) == 0 {
			break
		}
		r.bus.Publish(ctx, pending...)
		if err := r.bus.Flush(ctx); err != nil {
			return total, err
		}
		total += len(pending)

		left, err := r.outbox.Pending(ctx, 1)
		if err != nil {
			return total, err
		}
		if len(left) > 0 && left[0].ID == pending[0].ID {
			r.log.WithContext(ctx).Warn("outbox redelivery stalled", zap.Int64("event_id", left[0].ID))
			break
		}
		if len(pending) < r.batch {
			break
		}
	}
	if total > 0 {
		r.log.WithContext(ctx).Info("outbox redelivered", zap.Int("events", total))
	}
	return total, nil
}
