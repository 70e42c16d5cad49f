package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/resolve"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/rng"
)

type Casualties struct {
	AttackerSoldiersLost int64
	DefenderGuardsLost   int64
}

type AttackResult struct {
	Outcome    domain.BattleResult
	Casualties Casualties
	Spoils     resolve.Spoils
	ReportID   int64
	Report     domain.BattleReport
}

// AttackService 进攻结算：
// 校验 → 加锁快照 → 战力 → 判定 → 伤亡 → 战利品 → 单事务落库（含战报、金库、outbox）→ 提交后投递事件。
type AttackService struct {
	core
}

func NewAttackService(d Deps) *AttackService {
	return &AttackService{core: newCore(d)}
}

func (s *AttackService) turnCost(mode domain.AttackMode) int64 {
	if mode == domain.AttackSkirmish {
		return s.Balance.Attack.SkirmishTurnCost
	}
	return s.Balance.Attack.PlunderTurnCost
}

// ConductAttack 发起一次进攻。attacker 投入当前全部士兵。
//
// 返回的错误：
// - 校验类（ErrTargetNotFound/ErrSelfTarget/ErrNoSoldiers/ErrInsufficientTurns/ErrUnknownMode 等）：没有任何写入
// - ErrDataIntegrity：任一方聚合缺失
// - ErrPersistence：事务已整体回滚，调用方不能假设有部分生效
func (s *AttackService) ConductAttack(ctx context.Context, attackerID domain.AccountID, target string, mode domain.AttackMode) (*AttackResult, error) {
	fields := []zap.Field{zap.Int64("attacker_id", int64(attackerID)), zap.String("target", target), zap.String("mode", string(mode))}
	res, events, err := s.conduct(ctx, attackerID, target, mode)
	if err != nil {
		return nil, s.finishErr(ctx, "combat.attack", err, fields...)
	}

	s.Publisher.Publish(ctx, events...)
	s.Metrics.ObserveAttack(mode, res.Outcome)
	s.Log.WithContext(ctx).Info("attack resolved", append(fields,
		zap.Int64("defender_id", int64(res.Report.DefenderID)),
		zap.String("result", res.Outcome.String()),
		zap.Int64("offense", res.Report.OffensePower),
		zap.Int64("defense", res.Report.DefensePower),
		zap.Int64("soldiers_lost", res.Casualties.AttackerSoldiersLost),
		zap.Int64("guards_lost", res.Casualties.DefenderGuardsLost),
		zap.Int64("plundered", res.Spoils.CreditsPlundered),
		zap.Int64("report_id", res.ReportID),
		zap.Int64("seed", res.Report.Seed),
	)...)
	return res, nil
}

func (s *AttackService) conduct(ctx context.Context, attackerID domain.AccountID, target string, mode domain.AttackMode) (*AttackResult, []domain.Event, error) {
	if !mode.Valid() {
		return nil, nil, ErrUnknownMode.WithData("mode", string(mode))
	}
	attacker, err := s.getAttacker(ctx, attackerID)
	if err != nil {
		return nil, nil, err
	}
	defender, err := s.resolveTarget(ctx, target)
	if err != nil {
		return nil, nil, err
	}
	if defender.ID == attacker.ID {
		return nil, nil, ErrSelfTarget.WithData("attacker_id", int64(attacker.ID))
	}

	var (
		res    AttackResult
		events []domain.Event
	)
	err = s.Repos.Tx.InTx(ctx, func(ctx context.Context) error {
		atk, def, err := s.loadPair(ctx, attacker.ID, defender.ID)
		if err != nil {
			return err
		}

		cost := s.turnCost(mode)
		if atk.Ledger.Soldiers <= 0 {
			return ErrNoSoldiers.WithData("attacker_id", int64(attacker.ID))
		}
		if atk.Stats.AttackTurns < cost {
			return ErrInsufficientTurns.WithData("have", atk.Stats.AttackTurns).WithData("need", cost)
		}

		allied := attacker.InAlliance()
		var rates domain.AllianceTaxRates
		if allied {
			rates, err = s.Repos.Alliances.GetTaxRates(ctx, attacker.AllianceID)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrAllianceNotFound):
				allied = false
				s.Log.WithContext(ctx).Warn("attacker alliance missing, taxes skipped",
					zap.Int64("attacker_id", int64(attacker.ID)), zap.Int64("alliance_id", int64(attacker.AllianceID)))
			default:
				return persistErr(ReasonSnapshotReadFail, err)
			}
		}

		in := resolve.BattleInput{
			Mode:             mode,
			OffensePower:     s.calc.Offense(atk, s.calc.ArmoryLookup(atk.Armory)),
			DefensePower:     s.calc.Defense(def, s.calc.ArmoryLookup(def.Armory)),
			SoldiersSent:     atk.Ledger.Soldiers,
			GuardsDefending:  def.Ledger.Guards,
			DefenderCredits:  def.Ledger.Credits,
			DefenderNetWorth: def.Stats.NetWorth,
			Allied:           allied,
			BattleTaxRate:    rates.BattleTaxRate,
			TributeTaxRate:   rates.TributeTaxRate,
		}
		seed := s.Seeder.NextSeed()
		out := resolve.ResolveBattle(s.Balance.Attack, in, rng.New(seed))

		now := s.Now()
		rep := domain.BattleReport{
			ID:                 s.IDs.NextID(),
			AttackerID:         attacker.ID,
			DefenderID:         defender.ID,
			Mode:               mode,
			Result:             out.Result,
			OffensePower:       in.OffensePower,
			DefensePower:       in.DefensePower,
			SoldiersSent:       in.SoldiersSent,
			GuardsDefending:    in.GuardsDefending,
			DefenderCredits:    in.DefenderCredits,
			DefenderNetWorth:   in.DefenderNetWorth,
			AttackerLosses:     out.AttackerLosses,
			DefenderLosses:     out.DefenderLosses,
			CreditsPlundered:   out.Spoils.CreditsPlundered,
			BattleTax:          out.Spoils.BattleTax,
			TributeTax:         out.Spoils.TributeTax,
			AttackerCreditGain: out.Spoils.AttackerCreditGain,
			NetWorthStolen:     out.Spoils.NetWorthStolen,
			PrestigeGained:     out.Spoils.PrestigeGained,
			AttackerXP:         out.AttackerXP,
			DefenderXP:         out.DefenderXP,
			Seed:               seed,
			CreatedAt:          now,
		}
		if in.Allied {
			rep.BattleTaxRate = in.BattleTaxRate
			rep.TributeTaxRate = in.TributeTaxRate
		}

		if err := s.apply(ctx, attacker, atk.Stats, def.Stats, cost, rep); err != nil {
			return err
		}

		ev := battleEvent(s.IDs.NextID(), rep)
		if err := s.Repos.Outbox.Append(ctx, ev); err != nil {
			return persistErr(ReasonOutboxWriteFail, err)
		}

		res = AttackResult{
			Outcome:    out.Result,
			Casualties: Casualties{AttackerSoldiersLost: out.AttackerLosses, DefenderGuardsLost: out.DefenderLosses},
			Spoils:     out.Spoils,
			ReportID:   rep.ID,
			Report:     rep,
		}
		events = []domain.Event{ev}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &res, events, nil
}

// apply 双方账本/属性、联盟金库、战报。调用方保证在事务内。
func (s *AttackService) apply(ctx context.Context, attacker domain.Account, atkStats, defStats domain.CombatStats, cost int64, rep domain.BattleReport) error {
	if err := s.Repos.Ledgers.ApplyLedgerDelta(ctx, rep.AttackerID, domain.LedgerDelta{
		Credits:  rep.AttackerCreditGain,
		Soldiers: -rep.AttackerLosses,
	}); err != nil {
		return persistErr(ReasonLedgerWriteFail, err)
	}
	if err := s.Repos.Stats.ApplyStatsDelta(ctx, rep.AttackerID, domain.StatsDelta{
		Experience:  rep.AttackerXP,
		NetWorth:    rep.NetWorthStolen,
		WarPrestige: rep.PrestigeGained,
		AttackTurns: -cost,
		Level:       s.levelAfter(atkStats, rep.AttackerXP),
	}); err != nil {
		return persistErr(ReasonStatsWriteFail, err)
	}

	if err := s.Repos.Ledgers.ApplyLedgerDelta(ctx, rep.DefenderID, domain.LedgerDelta{
		Credits: -rep.CreditsPlundered,
		Guards:  -rep.DefenderLosses,
	}); err != nil {
		return persistErr(ReasonLedgerWriteFail, err)
	}
	if err := s.Repos.Stats.ApplyStatsDelta(ctx, rep.DefenderID, domain.StatsDelta{
		Experience: rep.DefenderXP,
		NetWorth:   -rep.NetWorthStolen,
		Level:      s.levelAfter(defStats, rep.DefenderXP),
	}); err != nil {
		return persistErr(ReasonStatsWriteFail, err)
	}

	// 战争税与贡金分两笔入账，各自一条流水。
	taxes := []struct {
		kind   domain.TreasuryLogKind
		amount int64
	}{
		{domain.TreasuryBattleTax, rep.BattleTax},
		{domain.TreasuryTributeTax, rep.TributeTax},
	}
	for _, t := range taxes {
		if t.amount <= 0 {
			continue
		}
		if err := s.Repos.Alliances.CreditTreasury(ctx, domain.TreasuryLog{
			ID:         s.IDs.NextID(),
			AllianceID: attacker.AllianceID,
			AccountID:  attacker.ID,
			Kind:       t.kind,
			Amount:     t.amount,
			Note:       "battle report " + formatID(rep.ID),
			CreatedAt:  rep.CreatedAt,
		}); err != nil {
			return persistErr(ReasonTreasuryWriteFail, err)
		}
	}

	if err := s.Repos.Reports.SaveBattleReport(ctx, &rep); err != nil {
		return persistErr(ReasonReportWriteFail, err)
	}
	return nil
}

func battleEvent(id int64, rep domain.BattleReport) domain.Event {
	return domain.Event{
		ID:         id,
		Kind:       domain.EventBattleConcluded,
		AttackerID: rep.AttackerID,
		DefenderID: rep.DefenderID,
		ReportID:   rep.ID,
		Result:     rep.Result.String(),
		Numbers: map[string]int64{
			"offense_power":     rep.OffensePower,
			"defense_power":     rep.DefensePower,
			"soldiers_lost":     rep.AttackerLosses,
			"guards_lost":       rep.DefenderLosses,
			"credits_plundered": rep.CreditsPlundered,
			"battle_tax":        rep.BattleTax,
			"tribute_tax":       rep.TributeTax,
			"net_worth_stolen":  rep.NetWorthStolen,
			"prestige_gained":   rep.PrestigeGained,
		},
		OccurredAt: rep.CreatedAt,
	}
}
