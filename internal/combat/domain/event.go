package domain

import "time"

type EventKind string

const (
	EventBattleConcluded     EventKind = "battle.concluded"
	EventSpyConcluded        EventKind = "spy.concluded"
	EventSpyDetectedNotified EventKind = "notification.spy_detected"
)

// Event 结算对外发布的事件，先随事务写入 outbox，提交后再异步投递给订阅方
// （战争积分、通知等）。
type Event struct {
	ID         int64
	Kind       EventKind
	AttackerID AccountID
	DefenderID AccountID
	ReportID   int64
	Result     string
	Numbers    map[string]int64
	OccurredAt time.Time
}
