package eventbus

import (
	"context"

	"go.uber.org/zap"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/modules/kit/logx"
)

// NotificationLog 把面向玩家的通知类事件写入日志，通知服务接入前的落点。
type NotificationLog struct {
	log logx.Logger
}

func NewNotificationLog(l logx.Logger) *NotificationLog {
	if l == nil {
		l = logx.Nop()
	}
	return &NotificationLog{log: l}
}

func (n *NotificationLog) Name() string { return "notification_log" }

func (n *NotificationLog) Handle(ctx context.Context, ev domain.Event) error {
	if ev.Kind != domain.EventSpyDetectedNotified {
		return nil
	}
	n.log.WithContext(ctx).Info("spy detected",
		zap.Int64("event_id", ev.ID),
		zap.Int64("defender_id", int64(ev.DefenderID)),
		zap.Int64("attacker_id", int64(ev.AttackerID)),
		zap.Int64("report_id", ev.ReportID),
	)
	return nil
}
