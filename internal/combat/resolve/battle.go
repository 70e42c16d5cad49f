// Package resolve 战斗与谍报的纯结算：给定双方战力、兵力、平衡表和随机源，算出结果。
//
// 这里不读写任何存储；同样的输入 + 同样的随机序列一定得到同样的结果，
// 战报里记录了输入与种子，可以用本包重新结算做复盘。
package resolve

import (
	"math"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/rng"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/gameconfig/balance"
)

// BattleInput 一次进攻结算需要的全部输入。
type BattleInput struct {
	Mode         domain.AttackMode
	OffensePower int64
	DefensePower int64

	// SoldiersSent 进攻方全部士兵，不支持部分出兵。
	SoldiersSent     int64
	GuardsDefending  int64
	DefenderCredits  int64
	DefenderNetWorth int64

	// Allied 进攻方是否属于联盟；只有联盟成员的掠夺才会被抽税。
	Allied         bool
	BattleTaxRate  float64
	TributeTaxRate float64
}

// Spoils 胜利所得。CreditsPlundered == BattleTax + TributeTax + AttackerCreditGain 恒成立。
type Spoils struct {
	CreditsPlundered   int64
	BattleTax          int64
	TributeTax         int64
	AttackerCreditGain int64
	NetWorthStolen     int64
	PrestigeGained     int64
}

type BattleOutcome struct {
	Result         domain.BattleResult
	AttackerLosses int64
	DefenderLosses int64
	Spoils         Spoils
	AttackerXP     int64
	DefenderXP     int64
}

// DetermineOutcome 战力比较，平局不掷骰。
func DetermineOutcome(offense, defense int64) domain.BattleResult {
	switch {
	case offense > defense:
		return domain.BattleVictory
	case offense == defense:
		return domain.BattleStalemate
	default:
		return domain.BattleDefeat
	}
}

// RollCasualties 在 [Min, Max] 内均匀取一个比例，乘以全局系数后向上取整，
// 再裁剪到 [0, units]。
func RollCasualties(r rng.Source, units int64, rg balance.Range, scalar float64) int64 {
	if units <= 0 {
		// 仍然消耗一次随机数，保证双方取数顺序与兵力无关。
		_ = r.Float64()
		return 0
	}
	frac := rg.Min + r.Float64()*(rg.Max-rg.Min)
	lost := int64(math.Ceil(float64(units) * frac * scalar))
	return domain.ClampLoss(lost, units)
}

// CasualtyRanges 按结果返回 (进攻方, 防守方) 的伤亡区间。
func CasualtyRanges(cfg balance.AttackConfig, result domain.BattleResult) (attacker, defender balance.Range) {
	switch result {
	case domain.BattleVictory:
		return cfg.WinnerCasualty, cfg.LoserCasualty
	case domain.BattleDefeat:
		return cfg.LoserCasualty, cfg.WinnerCasualty
	default:
		mid := cfg.WinnerCasualty.Blend(cfg.LoserCasualty)
		return mid, mid
	}
}

// ComputeSpoils 只在胜利时有战利品；遭遇战（skirmish）只拿声望。
func ComputeSpoils(cfg balance.AttackConfig, in BattleInput, result domain.BattleResult) Spoils {
	if result != domain.BattleVictory {
		return Spoils{}
	}
	s := Spoils{PrestigeGained: cfg.PrestigeGain}
	if in.Mode == domain.AttackSkirmish {
		return s
	}

	s.CreditsPlundered = int64(float64(max(0, in.DefenderCredits)) * cfg.PlunderPct)
	s.NetWorthStolen = int64(float64(max(0, in.DefenderNetWorth)) * cfg.NetWorthStealPct)

	if in.Allied && s.CreditsPlundered > 0 {
		s.BattleTax = taxOf(s.CreditsPlundered, in.BattleTaxRate)
		s.TributeTax = min(taxOf(s.CreditsPlundered, in.TributeTaxRate), s.CreditsPlundered-s.BattleTax)
	}
	s.AttackerCreditGain = s.CreditsPlundered - s.BattleTax - s.TributeTax
	return s
}

func taxOf(amount int64, rate float64) int64 {
	if rate <= 0 {
		return 0
	}
	return min(amount, int64(float64(amount)*rate))
}

// ResolveBattle 完整的进攻结算：判定 → 伤亡（先进攻方后防守方各取一次随机数）→ 战利品 → 经验。
func ResolveBattle(cfg balance.AttackConfig, in BattleInput, r rng.Source) BattleOutcome {
	out := BattleOutcome{Result: DetermineOutcome(in.OffensePower, in.DefensePower)}

	atkRange, defRange := CasualtyRanges(cfg, out.Result)
	out.AttackerLosses = RollCasualties(r, in.SoldiersSent, atkRange, cfg.CasualtyScalar)
	out.DefenderLosses = RollCasualties(r, in.GuardsDefending, defRange, cfg.CasualtyScalar)

	out.Spoils = ComputeSpoils(cfg, in, out.Result)

	switch out.Result {
	case domain.BattleVictory:
		out.AttackerXP = cfg.XPVictory
	case domain.BattleStalemate:
		out.AttackerXP = cfg.XPStalemate
	default:
		out.AttackerXP = cfg.XPDefeat
	}
	out.DefenderXP = cfg.XPDefender
	return out
}
