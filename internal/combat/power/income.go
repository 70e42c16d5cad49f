package power

import (
	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/gameconfig/balance"
)

// IncomeBreakdown 每回合产出明细。每一项单独给出，方便展示与审计各因素的贡献。
type IncomeBreakdown struct {
	EconomyCredits int64 // 经济建筑等级 * 每级产出
	WorkerCredits  int64 // 工人 * 每工人产出
	BaseProduction int64 // 以上两项之和
	WealthBonus    int64 // 财富属性对基础产出的百分比加成
	ArmoryCredits  int64 // 工人装备的 credit 加成（受库存限制）
	TotalCredits   int64 // 本回合流动信用点总收入
	BankInterest   int64 // 银行存款利息（固定利率）
	CitizenGrowth  int64 // 人口建筑带来的平民增长
	TurnRegen      int64 // 攻击回合恢复
}

// Income 计算一个账号一回合的产出明细。
func (c *Calculator) Income(s Snapshot, bonus ArmoryBonusFunc) IncomeBreakdown {
	in := c.cfg.Income
	var b IncomeBreakdown

	b.EconomyCredits = s.Structures.Level(domain.StructureEconomy) * in.CreditPerEconLevel
	b.WorkerCredits = max(0, s.Ledger.Workers) * in.CreditPerWorker
	b.BaseProduction = b.EconomyCredits + b.WorkerCredits
	b.WealthBonus = int64(float64(b.BaseProduction) * float64(s.Stats.Wealth) * in.WealthPerPoint)
	b.ArmoryCredits = int64(bonus(balance.UnitWorker, balance.RoleCredit, s.Ledger.Workers))
	b.TotalCredits = b.BaseProduction + b.WealthBonus + b.ArmoryCredits

	b.BankInterest = int64(float64(max(0, s.Ledger.Banked)) * in.BankInterestRate)
	b.CitizenGrowth = s.Structures.Level(domain.StructurePopulation) * in.CitizensPerPopulationLv
	b.TurnRegen = in.TurnsPerTick
	return b
}

// IncomeOf 使用账号自身军械库计算产出。
func (c *Calculator) IncomeOf(s Snapshot) IncomeBreakdown {
	return c.Income(s, c.ArmoryLookup(s.Armory))
}

// LedgerDelta 把产出明细转成账本增量。
func (b IncomeBreakdown) LedgerDelta() domain.LedgerDelta {
	return domain.LedgerDelta{
		Credits:  b.TotalCredits,
		Banked:   b.BankInterest,
		Citizens: b.CitizenGrowth,
	}
}
