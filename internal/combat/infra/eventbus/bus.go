// Package eventbus 提交后的事件投递。
//
// 服务在事务提交后调用 Publish，事件以消息形式投给一个 bus actor，
// actor 按顺序把事件交给各订阅方；全部订阅方处理成功的事件标记为已投递，
// 失败的留在 outbox，由 Relay 在下次启动时补发。
package eventbus

import (
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/app"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/modules/kit/logx"
)

const (
	defaultFlushTimeout  = 5 * time.Second
	defaultHandleTimeout = 3 * time.Second
)

// Subscriber 订阅方必须幂等：同一事件可能被补发多次。
type Subscriber interface {
	Name() string
	Handle(ctx context.Context, ev domain.Event) error
}

type publishBatch struct {
	events []domain.Event
}

// flushRequest 邮箱按序处理，收到回复时之前的批次都已处理完。
type flushRequest struct{}

type flushed struct{}

type Bus struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	pid     *protoactor.PID
	timeout time.Duration
}

var _ app.EventPublisher = (*Bus)(nil)

type Options struct {
	// Outbox 投递成功后标记；为空时不标记。
	Outbox        app.OutboxRepo
	Subscribers   []Subscriber
	Log           logx.Logger
	HandleTimeout time.Duration
	FlushTimeout  time.Duration
	// MailboxSize >0 时使用有界邮箱，满了 Publish 会阻塞。
	MailboxSize int
}

func NewBus(opts Options) *Bus {
	if opts.Log == nil {
		opts.Log = logx.Nop()
	}
	if opts.HandleTimeout <= 0 {
		opts.HandleTimeout = defaultHandleTimeout
	}
	if opts.FlushTimeout <= 0 {
		opts.FlushTimeout = defaultFlushTimeout
	}

	var props []protoactor.PropsOption
	if opts.MailboxSize > 0 {
		props = append(props, protoactor.WithMailbox(protoactor.Bounded(opts.MailboxSize)))
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	pid := root.Spawn(protoactor.PropsFromProducer(func() protoactor.Actor {
		return &busActor{
			outbox:  opts.Outbox,
			subs:    opts.Subscribers,
			log:     opts.Log,
			timeout: opts.HandleTimeout,
		}
	}, props...))
	return &Bus{system: system, root: root, pid: pid, timeout: opts.FlushTimeout}
}

// Publish 只投递消息，不等待订阅方。
func (b *Bus) Publish(_ context.Context, events ...domain.Event) {
	if b == nil || len(events) == 0 {
		return
	}
	batch := make([]domain.Event, len(events))
	copy(batch, events)
	b.root.Send(b.pid, &publishBatch{events: batch})
}

// Flush 等待此前 Publish 的批次全部处理完。
func (b *Bus) Flush(ctx context.Context) error {
	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, max(time.Until(deadline), time.Millisecond))
	}
	res, err := b.root.RequestFuture(b.pid, &flushRequest{}, timeout).Result()
	if err != nil {
		return err
	}
	if _, ok := res.(*flushed); !ok {
		return errors.New("eventbus: unexpected flush reply")
	}
	return nil
}

// Shutdown 先停 actor（处理完邮箱中已有消息），再关 actor system。
func (b *Bus) Shutdown() {
	if b == nil {
		return
	}
	if b.root != nil && b.pid != nil {
		_ = b.root.StopFuture(b.pid).Wait()
	}
	if b.system != nil {
		b.system.Shutdown()
	}
}

type busActor struct {
	outbox  app.OutboxRepo
	subs    []Subscriber
	log     logx.Logger
	timeout time.Duration
}

func (a *busActor) Receive(ctx protoactor.Context) {
	switch msg := ctx.Message().(type) {
	case *publishBatch:
		a.deliver(msg.events)
	case *flushRequest:
		ctx.Respond(&flushed{})
	}
}

func (a *busActor) deliver(events []domain.Event) {
	delivered := make([]int64, 0, len(events))
	for _, ev := range events {
		if a.dispatch(ev) {
			delivered = append(delivered, ev.ID)
		}
	}
	if a.outbox == nil || len(delivered) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.outbox.MarkPublished(ctx, delivered); err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, a.log, logx.NewSysLog("combat.outbox.mark", err),
			zap.Int("count", len(delivered)))
	}
}

// dispatch 某个订阅方失败不影响其它订阅方，但该事件不算投递成功。
func (a *busActor) dispatch(ev domain.Event) bool {
	ok := true
	for _, sub := range a.subs {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		err := sub.Handle(ctx, ev)
		cancel()
		if err != nil {
			ok = false
			a.log.Warn("event delivery failed",
				zap.String("subscriber", sub.Name()),
				zap.Int64("event_id", ev.ID),
				zap.String("kind", string(ev.Kind)),
				zap.Error(err),
			)
		}
	}
	return ok
}
