package app

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/modules/kit/logx"
)

// TickResult 一次全量回合结算的统计。
type TickResult struct {
	AccountsProcessed  int
	AlliancesProcessed int
	// AccountsSkipped 聚合缺失被跳过的账号。
	AccountsSkipped int
	AccountsFailed  int
	AlliancesFailed int
}

// TurnService 回合结算：遍历全部账号发放产出与回合，再给联盟金库计息。
//
// 不是幂等的：每调用一次就是一个回合。调度方必须保证每个回合只触发一次，
// 连续调用两次会让所有账号拿到两倍产出与回合恢复。
type TurnService struct {
	core
}

func NewTurnService(d Deps) *TurnService {
	return &TurnService{core: newCore(d)}
}

// ProcessAllAccounts 单个账号/联盟的失败只记日志并计数，不中断整批；
// 只有列表读取失败才返回错误。
//
// ctx 已携带事务时复用该事务并串行处理（同一事务不能并发使用）。
func (s *TurnService) ProcessAllAccounts(ctx context.Context) (TickResult, error) {
	start := s.Now()
	var res TickResult

	ids, err := s.Repos.Accounts.ListAccountIDs(ctx)
	if err != nil {
		return res, s.finishErr(ctx, "combat.tick", ErrPersistence.WithReason(ReasonAccountReadFail).WithCause(err))
	}

	limit := s.TickConcurrency
	if s.Repos.Tx.InTransaction(ctx) {
		limit = 1
	}

	var processed, skipped, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, id := range ids {
		g.Go(func() error {
			switch err := s.processAccount(gctx, id); {
			case err == nil:
				processed.Add(1)
			case errors.Is(err, ErrDataIntegrity):
				skipped.Add(1)
				s.Log.WithContext(gctx).Warn("tick skipped account with missing aggregate",
					zap.Int64("account_id", int64(id)), zap.Error(err))
			default:
				failed.Add(1)
				s.Metrics.ObserveFailure("combat.tick.account")
				logx.ReportSysErrorWithLoggerContext(gctx, s.Log, logx.NewSysLog("combat.tick.account",
					persistErr(ReasonLedgerWriteFail, err)), zap.Int64("account_id", int64(id)))
			}
			return nil
		})
	}
	_ = g.Wait()
	res.AccountsProcessed = int(processed.Load())
	res.AccountsSkipped = int(skipped.Load())
	res.AccountsFailed = int(failed.Load())

	alliances, err := s.Repos.Alliances.ListAlliances(ctx)
	if err != nil {
		return res, s.finishErr(ctx, "combat.tick", ErrPersistence.WithReason(ReasonAllianceListFail).WithCause(err))
	}
	for _, a := range alliances {
		ok, err := s.compound(ctx, a)
		if err != nil {
			res.AlliancesFailed++
			s.Metrics.ObserveFailure("combat.tick.alliance")
			logx.ReportSysErrorWithLoggerContext(ctx, s.Log, logx.NewSysLog("combat.tick.alliance",
				persistErr(ReasonTreasuryWriteFail, err)), zap.Int64("alliance_id", int64(a.ID)))
			continue
		}
		if ok {
			res.AlliancesProcessed++
		}
	}

	elapsed := s.Now().Sub(start)
	s.Metrics.ObserveTick(elapsed, res)
	s.Log.WithContext(ctx).Info("tick processed",
		zap.Int("accounts", res.AccountsProcessed),
		zap.Int("alliances", res.AlliancesProcessed),
		zap.Int("skipped", res.AccountsSkipped),
		zap.Int("failed", res.AccountsFailed+res.AlliancesFailed),
		zap.Duration("elapsed", elapsed),
	)
	return res, nil
}

// processAccount 一个账号一个事务：信用点/利息/平民增长 + 一次回合恢复。
// 聚合缺失时返回 ErrDataIntegrity，由调用方计为跳过。
func (s *TurnService) processAccount(ctx context.Context, id domain.AccountID) error {
	return s.Repos.Tx.InTx(ctx, func(ctx context.Context) error {
		snap, err := s.loadSnapshot(ctx, id)
		if err != nil {
			return err
		}
		income := s.calc.IncomeOf(snap)
		if d := income.LedgerDelta(); !d.IsZero() {
			if err := s.Repos.Ledgers.ApplyLedgerDelta(ctx, id, d); err != nil {
				return err
			}
		}
		if income.TurnRegen != 0 {
			if err := s.Repos.Stats.ApplyStatsDelta(ctx, id, domain.StatsDelta{AttackTurns: income.TurnRegen}); err != nil {
				return err
			}
		}
		return nil
	})
}

// compound 联盟金库计息：floor(balance * rate) 相对增量 + 流水 + 计息时间戳，一个事务。
// 余额或利率不为正、或利息为 0 时不处理，返回 false。
func (s *TurnService) compound(ctx context.Context, a domain.Alliance) (bool, error) {
	if a.Treasury <= 0 || a.InterestRate <= 0 {
		return false, nil
	}
	var applied bool
	err := s.Repos.Tx.InTx(ctx, func(ctx context.Context) error {
		cur, err := s.Repos.Alliances.GetAlliance(ctx, a.ID)
		if err != nil {
			return err
		}
		interest := int64(float64(cur.Treasury) * cur.InterestRate)
		if cur.Treasury <= 0 || cur.InterestRate <= 0 || interest <= 0 {
			return nil
		}
		now := s.Now()
		if err := s.Repos.Alliances.CreditTreasury(ctx, domain.TreasuryLog{
			ID:         s.IDs.NextID(),
			AllianceID: cur.ID,
			Kind:       domain.TreasuryInterest,
			Amount:     interest,
			Note:       "treasury interest",
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		if err := s.Repos.Alliances.MarkCompounded(ctx, cur.ID, now); err != nil {
			return err
		}
		applied = true
		return nil
	})
	return applied, err
}
