// Package balance 是数值平衡表：战力、产出、战斗、谍报、等级与装备系数。
//
// 平衡表在进程启动时加载一次，之后只读；计算器与结算服务通过参数注入持有它，
// 不存在包级全局实例。
package balance

import (
	"fmt"

	"github.com/mungus451/starlight-v2-sub001/internal/shared/config"
)

// Role 战力类型，同时也是装备加成的作用对象。
type Role string

const (
	RoleOffense Role = "offense"
	RoleDefense Role = "defense"
	RoleSpy     Role = "spy"
	RoleSentry  Role = "sentry"
	// RoleCredit 按工人计的信用点产出加成（credit_bonus）。
	RoleCredit Role = "credit"
)

// Unit 可装备的兵种。
type Unit string

const (
	UnitSoldier Unit = "soldier"
	UnitGuard   Unit = "guard"
	UnitSpy     Unit = "spy"
	UnitSentry  Unit = "sentry"
	UnitWorker  Unit = "worker"
)

type Config struct {
	Power  PowerConfig         `yaml:"power" mapstructure:"power"`
	Income IncomeConfig        `yaml:"income" mapstructure:"income"`
	Attack AttackConfig        `yaml:"attack" mapstructure:"attack"`
	Spy    SpyConfig           `yaml:"spy" mapstructure:"spy"`
	Level  LevelConfig         `yaml:"level" mapstructure:"level"`
	// Armory 兵种 -> 槽位 -> 装备 key -> 加成，与策划表结构一致。
	Armory map[Unit]map[string]map[string]ItemBonus `yaml:"armory" mapstructure:"armory"`

	index itemIndex
}

type PowerConfig struct {
	SoldierPower float64 `yaml:"soldier_power" mapstructure:"soldier_power"`
	GuardPower   float64 `yaml:"guard_power" mapstructure:"guard_power"`
	SpyPower     float64 `yaml:"spy_power" mapstructure:"spy_power"`
	SentryPower  float64 `yaml:"sentry_power" mapstructure:"sentry_power"`

	// 建筑每级百分比加成（0.05 = 5%）。
	OffensePerLevel       float64 `yaml:"offense_per_level" mapstructure:"offense_per_level"`
	DefensePerLevel       float64 `yaml:"defense_per_level" mapstructure:"defense_per_level"`
	FortificationPerLevel float64 `yaml:"fortification_per_level" mapstructure:"fortification_per_level"`
	SpyPerLevel           float64 `yaml:"spy_per_level" mapstructure:"spy_per_level"`
	SentryPerLevel        float64 `yaml:"sentry_per_level" mapstructure:"sentry_per_level"`

	// 属性点每点百分比加成。
	StrengthPerPoint     float64 `yaml:"strength_per_point" mapstructure:"strength_per_point"`
	ConstitutionPerPoint float64 `yaml:"constitution_per_point" mapstructure:"constitution_per_point"`
	DexterityPerPoint    float64 `yaml:"dexterity_per_point" mapstructure:"dexterity_per_point"`
	CharismaPerPoint     float64 `yaml:"charisma_per_point" mapstructure:"charisma_per_point"`
}

type IncomeConfig struct {
	CreditPerEconLevel      int64   `yaml:"credit_per_econ_level" mapstructure:"credit_per_econ_level"`
	CreditPerWorker         int64   `yaml:"credit_per_worker" mapstructure:"credit_per_worker"`
	WealthPerPoint          float64 `yaml:"wealth_per_point" mapstructure:"wealth_per_point"`
	BankInterestRate        float64 `yaml:"bank_interest_rate" mapstructure:"bank_interest_rate"`
	CitizensPerPopulationLv int64   `yaml:"citizens_per_population_level" mapstructure:"citizens_per_population_level"`
	TurnsPerTick            int64   `yaml:"turns_per_tick" mapstructure:"turns_per_tick"`
}

// Range 闭区间百分比 [Min, Max]，0.05 = 5%。
type Range struct {
	Min float64 `yaml:"min" mapstructure:"min"`
	Max float64 `yaml:"max" mapstructure:"max"`
}

// Blend 取两个区间的中点区间，平局伤亡使用。
func (r Range) Blend(o Range) Range {
	return Range{Min: (r.Min + o.Min) / 2, Max: (r.Max + o.Max) / 2}
}

type AttackConfig struct {
	PlunderTurnCost  int64   `yaml:"plunder_turn_cost" mapstructure:"plunder_turn_cost"`
	SkirmishTurnCost int64   `yaml:"skirmish_turn_cost" mapstructure:"skirmish_turn_cost"`
	WinnerCasualty   Range   `yaml:"winner_casualty" mapstructure:"winner_casualty"`
	LoserCasualty    Range   `yaml:"loser_casualty" mapstructure:"loser_casualty"`
	CasualtyScalar   float64 `yaml:"casualty_scalar" mapstructure:"casualty_scalar"`
	PlunderPct       float64 `yaml:"plunder_pct" mapstructure:"plunder_pct"`
	NetWorthStealPct float64 `yaml:"net_worth_steal_pct" mapstructure:"net_worth_steal_pct"`
	PrestigeGain     int64   `yaml:"prestige_gain" mapstructure:"prestige_gain"`
	XPVictory        int64   `yaml:"xp_victory" mapstructure:"xp_victory"`
	XPStalemate      int64   `yaml:"xp_stalemate" mapstructure:"xp_stalemate"`
	XPDefeat         int64   `yaml:"xp_defeat" mapstructure:"xp_defeat"`
	XPDefender       int64   `yaml:"xp_defender" mapstructure:"xp_defender"`
}

type SpyConfig struct {
	TurnCost          int64   `yaml:"turn_cost" mapstructure:"turn_cost"`
	SuccessMultiplier float64 `yaml:"success_multiplier" mapstructure:"success_multiplier"`
	SuccessFloor      float64 `yaml:"success_floor" mapstructure:"success_floor"`
	SuccessCap        float64 `yaml:"success_cap" mapstructure:"success_cap"`
	CounterMultiplier float64 `yaml:"counter_multiplier" mapstructure:"counter_multiplier"`
	CounterCap        float64 `yaml:"counter_cap" mapstructure:"counter_cap"`
	SpyLoss           Range   `yaml:"spy_loss" mapstructure:"spy_loss"`
	SentryLoss        Range   `yaml:"sentry_loss" mapstructure:"sentry_loss"`
	XPSuccess         int64   `yaml:"xp_success" mapstructure:"xp_success"`
	XPFailure         int64   `yaml:"xp_failure" mapstructure:"xp_failure"`
	XPCaught          int64   `yaml:"xp_caught" mapstructure:"xp_caught"`
	XPDefenderCaught  int64   `yaml:"xp_defender_caught" mapstructure:"xp_defender_caught"`
}

type LevelConfig struct {
	// XPBase 升到 n+1 级所需累计经验 = XPBase * n * n。
	XPBase int64 `yaml:"xp_base" mapstructure:"xp_base"`
	// MaxLevel 0 表示不封顶。
	MaxLevel int64 `yaml:"max_level" mapstructure:"max_level"`
}

type ItemBonus struct {
	Role  Role    `yaml:"role" mapstructure:"role"`
	Bonus float64 `yaml:"bonus" mapstructure:"bonus"`
}

// ItemSpec 展开后的一件装备：装在哪个兵种的哪个槽位，给哪类战力加多少（每单位）。
type ItemSpec struct {
	Key   string
	Unit  Unit
	Slot  string
	Role  Role
	Bonus float64
}

// Load 从 yaml 文件加载平衡表并建立装备索引。
func Load(path string) (*Config, error) {
	var c Config
	if err := config.Load(path, &c); err != nil {
		return nil, err
	}
	if err := c.Init(); err != nil {
		return nil, fmt.Errorf("balance %q: %w", path, err)
	}
	return &c, nil
}

// Init 校验数值并预计算装备索引；手工构造的 Config 也必须调用一次。
func (c *Config) Init() error {
	if err := c.Validate(); err != nil {
		return err
	}
	idx, err := buildItemIndex(c.Armory)
	if err != nil {
		return err
	}
	c.index = idx
	return nil
}

// Validate 检查区间与比例是否合法，避免把负数/倒置区间带进结算。
func (c *Config) Validate() error {
	ranges := map[string]Range{
		"attack.winner_casualty": c.Attack.WinnerCasualty,
		"attack.loser_casualty":  c.Attack.LoserCasualty,
		"spy.spy_loss":           c.Spy.SpyLoss,
		"spy.sentry_loss":        c.Spy.SentryLoss,
	}
	for name, r := range ranges {
		if r.Min < 0 || r.Max > 1 || r.Min > r.Max {
			return fmt.Errorf("%s: invalid range [%v, %v]", name, r.Min, r.Max)
		}
	}
	pcts := map[string]float64{
		"attack.plunder_pct":         c.Attack.PlunderPct,
		"attack.net_worth_steal_pct": c.Attack.NetWorthStealPct,
		"spy.success_floor":          c.Spy.SuccessFloor,
		"spy.success_cap":            c.Spy.SuccessCap,
		"spy.counter_cap":            c.Spy.CounterCap,
		"income.bank_interest_rate":  c.Income.BankInterestRate,
	}
	for name, v := range pcts {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s: %v out of [0, 1]", name, v)
		}
	}
	if c.Spy.SuccessFloor > c.Spy.SuccessCap {
		return fmt.Errorf("spy.success_floor %v > spy.success_cap %v", c.Spy.SuccessFloor, c.Spy.SuccessCap)
	}
	if c.Attack.CasualtyScalar < 0 {
		return fmt.Errorf("attack.casualty_scalar: %v < 0", c.Attack.CasualtyScalar)
	}
	if c.Attack.PlunderTurnCost < 0 || c.Attack.SkirmishTurnCost < 0 || c.Spy.TurnCost < 0 {
		return fmt.Errorf("turn cost must not be negative")
	}
	for unit, slots := range c.Armory {
		for slot, items := range slots {
			for key, it := range items {
				switch it.Role {
				case RoleOffense, RoleDefense, RoleSpy, RoleSentry, RoleCredit:
				default:
					return fmt.Errorf("armory.%s.%s.%s: unknown role %q", unit, slot, key, it.Role)
				}
				if it.Bonus < 0 {
					return fmt.Errorf("armory.%s.%s.%s: negative bonus %v", unit, slot, key, it.Bonus)
				}
			}
		}
	}
	return nil
}

// Item 通过预计算索引查装备，未知 key 返回 false。
func (c *Config) Item(key string) (ItemSpec, bool) {
	if c == nil || c.index == nil {
		return ItemSpec{}, false
	}
	it, ok := c.index[key]
	return it, ok
}

// itemIndex 把 兵种->槽位->装备 三层表展开成 装备key->规格，
// 计算战力时按装备 key 直接查，不再逐层遍历。
type itemIndex map[string]ItemSpec

func buildItemIndex(armory map[Unit]map[string]map[string]ItemBonus) (itemIndex, error) {
	idx := make(itemIndex)
	for unit, slots := range armory {
		for slot, items := range slots {
			for key, it := range items {
				if prev, dup := idx[key]; dup {
					return nil, fmt.Errorf("armory item %q declared twice (%s.%s and %s.%s)", key, prev.Unit, prev.Slot, unit, slot)
				}
				idx[key] = ItemSpec{Key: key, Unit: unit, Slot: slot, Role: it.Role, Bonus: it.Bonus}
			}
		}
	}
	return idx, nil
}
