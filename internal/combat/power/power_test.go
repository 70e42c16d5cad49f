package power

import (
	"math"
	"testing"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/gameconfig/balance"
)

// flatConfig 单兵战力 1.0、无任何百分比加成的平衡表。
func flatConfig() *balance.Config {
	c := balance.Default()
	c.Power = balance.PowerConfig{SoldierPower: 1, GuardPower: 1, SpyPower: 1, SentryPower: 1}
	c.Income = balance.IncomeConfig{CreditPerEconLevel: 1000}
	return c
}

func armed(unit balance.Unit, slot, item string, stock int64) domain.Armory {
	return domain.Armory{
		Stock:   map[string]int64{item: stock},
		Loadout: map[domain.LoadoutSlot]string{{Unit: unit, Slot: slot}: item},
	}
}

func TestArmoryLookup_加成受库存限制(t *testing.T) {
	calc := NewCalculator(balance.Default())
	// pulse_rifle: soldier/main_weapon, offense +10
	lookup := calc.ArmoryLookup(armed(balance.UnitSoldier, "main_weapon", "pulse_rifle", 400))

	if got := lookup(balance.UnitSoldier, balance.RoleOffense, 1000); got != 4000 {
		t.Fatalf("期望 1000 兵 400 件装备加成 = 400*10 = 4000, got=%v", got)
	}
	if got := lookup(balance.UnitSoldier, balance.RoleOffense, 100); got != 1000 {
		t.Fatalf("期望兵力少于库存时按兵力计 = 1000, got=%v", got)
	}
	if got := lookup(balance.UnitSoldier, balance.RoleDefense, 1000); got != 0 {
		t.Fatalf("期望进攻装备不给防御加成, got=%v", got)
	}
	if got := lookup(balance.UnitGuard, balance.RoleOffense, 1000); got != 0 {
		t.Fatalf("期望其他兵种不享受该装备, got=%v", got)
	}
}

func TestArmoryLookup_未装备或零库存贡献为0(t *testing.T) {
	calc := NewCalculator(balance.Default())
	empty := calc.ArmoryLookup(domain.Armory{})
	if got := empty(balance.UnitSoldier, balance.RoleOffense, 1000); got != 0 {
		t.Fatalf("期望空军械库加成为 0, got=%v", got)
	}
	zero := calc.ArmoryLookup(armed(balance.UnitSoldier, "main_weapon", "pulse_rifle", 0))
	if got := zero(balance.UnitSoldier, balance.RoleOffense, 1000); got != 0 {
		t.Fatalf("期望零库存加成为 0, got=%v", got)
	}
	unknown := calc.ArmoryLookup(armed(balance.UnitSoldier, "main_weapon", "not_in_table", 500))
	if got := unknown(balance.UnitSoldier, balance.RoleOffense, 1000); got != 0 {
		t.Fatalf("期望平衡表中不存在的装备加成为 0, got=%v", got)
	}
}

func TestOffenseDefense_无加成时等于兵力(t *testing.T) {
	calc := NewCalculator(flatConfig())
	atk := Snapshot{Ledger: domain.ResourceLedger{Soldiers: 1000}}
	def := Snapshot{Ledger: domain.ResourceLedger{Guards: 500}}

	if got := calc.All(atk).Offense; got != 1000 {
		t.Fatalf("期望 offense=1000, got=%d", got)
	}
	if got := calc.All(def).Defense; got != 500 {
		t.Fatalf("期望 defense=500, got=%d", got)
	}
}

func TestPower_建筑与属性百分比叠加后截断(t *testing.T) {
	c := flatConfig()
	c.Power.OffensePerLevel = 0.05
	c.Power.StrengthPerPoint = 0.01
	c.Power.DefensePerLevel = 0.125
	c.Power.FortificationPerLevel = 0.0625
	c.Power.ConstitutionPerPoint = 0.0625
	calc := NewCalculator(c)

	s := Snapshot{
		Ledger: domain.ResourceLedger{Soldiers: 333, Guards: 100},
		Stats:  domain.CombatStats{Strength: 3, Constitution: 1},
		Structures: domain.StructureLevels{Levels: map[domain.StructureKind]int64{
			domain.StructureOffense:       2,
			domain.StructureDefense:       1,
			domain.StructureFortification: 2,
		}},
	}
	p := calc.All(s)
	// 333 * (1 + 0.10 + 0.03) = 376.29 -> 376
	if p.Offense != 376 {
		t.Fatalf("期望 offense=376, got=%d", p.Offense)
	}
	// 100 * (1 + 2*0.0625 + 0.125 + 0.0625) = 131.25 -> 131
	if p.Defense != 131 {
		t.Fatalf("期望 defense=131, got=%d", p.Defense)
	}
}

func TestSpySentry_只由各自建筑加成(t *testing.T) {
	c := flatConfig()
	c.Power.SpyPerLevel = 0.25
	c.Power.SentryPerLevel = 0.5
	calc := NewCalculator(c)

	s := Snapshot{
		Ledger: domain.ResourceLedger{Spies: 100, Sentries: 100},
		Structures: domain.StructureLevels{Levels: map[domain.StructureKind]int64{
			domain.StructureSpy:     1,
			domain.StructureSentry:  1,
			domain.StructureOffense: 10,
		}},
	}
	p := calc.All(s)
	if p.Spy != 125 || p.Sentry != 150 {
		t.Fatalf("期望 spy=125 sentry=150, got=%+v", p)
	}
}

func TestPower_零兵力为0(t *testing.T) {
	calc := NewCalculator(balance.Default())
	if p := calc.All(Snapshot{}); p != (Powers{}) {
		t.Fatalf("期望全 0, got=%+v", p)
	}
}

func TestLevelForXP(t *testing.T) {
	cfg := balance.LevelConfig{XPBase: 1000}
	cases := []struct {
		xp   int64
		want int64
	}{
		{0, 1},
		{999, 1},
		{1000, 2},
		{3999, 2},
		{4000, 3},
		{9000, 4},
	}
	for _, c := range cases {
		if got := LevelForXP(cfg, c.xp); got != c.want {
			t.Fatalf("LevelForXP(%d)=%d want=%d", c.xp, got, c.want)
		}
	}
	if got := LevelForXP(balance.LevelConfig{XPBase: 1000, MaxLevel: 3}, 1_000_000); got != 3 {
		t.Fatalf("期望封顶 3 级, got=%d", got)
	}
	if got := LevelForXP(balance.LevelConfig{}, 1_000_000); got != 1 {
		t.Fatalf("期望 XPBase=0 时恒为 1 级, got=%d", got)
	}
}

func TestLevelForXP_极大经验不溢出(t *testing.T) {
	cfg := balance.LevelConfig{XPBase: 1}
	if got := LevelForXP(cfg, 24); got != 5 {
		t.Fatalf("LevelForXP(24)=%d want=5", got)
	}
	if got := LevelForXP(cfg, 25); got != 6 {
		t.Fatalf("LevelForXP(25)=%d want=6", got)
	}
	// floor(sqrt(MaxInt64)) = 3037000499
	if got := LevelForXP(cfg, math.MaxInt64); got != 3037000500 {
		t.Fatalf("LevelForXP(MaxInt64)=%d want=3037000500", got)
	}
	if got := LevelForXP(balance.LevelConfig{XPBase: 7, MaxLevel: 50}, math.MaxInt64); got != 50 {
		t.Fatalf("期望封顶 50 级, got=%d", got)
	}
}
