package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/power"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/rng"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/gameconfig/balance"
	"github.com/mungus451/starlight-v2-sub001/modules/kit/errx"
	"github.com/mungus451/starlight-v2-sub001/modules/kit/logx"
)

// Deps 三个结算服务共用的依赖。Publisher/Metrics/Log/Now 可不填，使用空实现。
type Deps struct {
	Repos     Repos
	Balance   *balance.Config
	Seeder    rng.Seeder
	IDs       IDGenerator
	Publisher EventPublisher
	Metrics   Recorder
	Log       logx.Logger
	Now       func() time.Time
	// TickConcurrency 回合结算并发处理账号的上限，<=0 时为 1。
	TickConcurrency int
}

func (d Deps) withDefaults() Deps {
	if d.Publisher == nil {
		d.Publisher = nopPublisher{}
	}
	if d.Metrics == nil {
		d.Metrics = nopRecorder{}
	}
	if d.Log == nil {
		d.Log = logx.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.TickConcurrency <= 0 {
		d.TickConcurrency = 1
	}
	return d
}

// core 三个服务共享的快照加载与错误归类。
type core struct {
	Deps
	calc *power.Calculator
}

func newCore(d Deps) core {
	d = d.withDefaults()
	return core{Deps: d, calc: power.NewCalculator(d.Balance)}
}

// loadSnapshot 加载一个账号算战力所需的全部聚合。
// 在事务内调用时 ledger/stats 会被行锁锁住直到事务结束。
func (c core) loadSnapshot(ctx context.Context, id domain.AccountID) (power.Snapshot, error) {
	var s power.Snapshot
	var err error
	if s.Ledger, err = c.Repos.Ledgers.GetLedger(ctx, id); err != nil {
		return s, c.snapshotErr(id, err)
	}
	if s.Stats, err = c.Repos.Stats.GetStats(ctx, id); err != nil {
		return s, c.snapshotErr(id, err)
	}
	if s.Structures, err = c.Repos.Structures.GetStructures(ctx, id); err != nil {
		return s, c.snapshotErr(id, err)
	}
	if s.Armory, err = c.Repos.Armories.GetArmory(ctx, id); err != nil {
		return s, c.snapshotErr(id, err)
	}
	return s, nil
}

// loadPair 按账号 id 升序加锁读取双方快照，避免两个相向的操作互相死锁。
func (c core) loadPair(ctx context.Context, a, b domain.AccountID) (power.Snapshot, power.Snapshot, error) {
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	s1, err := c.loadSnapshot(ctx, first)
	if err != nil {
		return power.Snapshot{}, power.Snapshot{}, err
	}
	s2, err := c.loadSnapshot(ctx, second)
	if err != nil {
		return power.Snapshot{}, power.Snapshot{}, err
	}
	if first == a {
		return s1, s2, nil
	}
	return s2, s1, nil
}

func (c core) snapshotErr(id domain.AccountID, err error) error {
	if domain.IsMissingAggregate(err) {
		return ErrDataIntegrity.WithReason(ReasonAggregateMissing).WithData("account_id", int64(id)).WithCause(err)
	}
	return ErrPersistence.WithReason(ReasonSnapshotReadFail).WithData("account_id", int64(id)).WithCause(err)
}

// resolveTarget 纯数字按账号 id 查，否则按账号名查。
func (c core) resolveTarget(ctx context.Context, target string) (domain.Account, error) {
	if id, ok := parseAccountID(target); ok {
		acc, err := c.Repos.Accounts.GetAccount(ctx, id)
		if err == nil || !errors.Is(err, domain.ErrAccountNotFound) {
			return acc, c.accountErr(err, ErrTargetNotFound, "target", target)
		}
	}
	acc, err := c.Repos.Accounts.FindAccountByName(ctx, target)
	return acc, c.accountErr(err, ErrTargetNotFound, "target", target)
}

func (c core) getAttacker(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	acc, err := c.Repos.Accounts.GetAccount(ctx, id)
	return acc, c.accountErr(err, ErrAttackerNotFound, "attacker_id", int64(id))
}

func (c core) accountErr(err error, notFound *Error, key string, value any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrAccountNotFound):
		return notFound.WithData(key, value)
	default:
		return ErrPersistence.WithReason(ReasonAccountReadFail).WithData(key, value).WithCause(err)
	}
}

// persistErr 事务内的写入失败统一归为 ErrPersistence；已经归类过的错误原样返回。
func persistErr(reason Reason, err error) error {
	var e *errx.Error
	if errors.As(err, &e) && (e.Is(ErrPersistence) || e.Is(ErrDataIntegrity) || errx.IsBiz(e)) {
		return err
	}
	return ErrPersistence.WithReason(reason).WithCause(err)
}

// finishErr 事务失败后的统一出口：系统错误打一次日志，校验拒绝只打 debug。
func (c core) finishErr(ctx context.Context, action string, err error, fields ...zap.Field) error {
	if IsValidation(err) {
		logx.ReportBizWithLoggerContext(ctx, c.Log, logx.NewBizLog(action, err), fields...)
		return err
	}
	if !errors.Is(err, ErrDataIntegrity) && !errors.Is(err, ErrPersistence) {
		err = ErrPersistence.WithCause(err)
	}
	c.Metrics.ObserveFailure(action)
	logx.ReportSysErrorWithLoggerContext(ctx, c.Log, logx.NewSysLog(action, err), fields...)
	return err
}

// levelAfter 加上经验后应达到的等级。
func (c core) levelAfter(stats domain.CombatStats, xp int64) int64 {
	return power.LevelForXP(c.Balance.Level, stats.Experience+xp)
}
