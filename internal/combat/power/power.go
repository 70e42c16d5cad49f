// Package power 战力与产出计算器：纯函数，无 I/O、无随机、不修改入参。
//
// 所有战力遵循同一个形状：
//
//	power = (兵力 * 单兵战力 + 装备加成) * (1 + 建筑加成% + 属性加成%)
//
// 结果向零截断为整数。
package power

import (
	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/gameconfig/balance"
)

// Snapshot 计算一个账号战力/产出所需的全部状态。
type Snapshot struct {
	Ledger     domain.ResourceLedger
	Stats      domain.CombatStats
	Structures domain.StructureLevels
	Armory     domain.Armory
}

// ArmoryBonusFunc 查询某兵种在某战力类型上的装备加成总和。
type ArmoryBonusFunc func(unit balance.Unit, role balance.Role, unitCount int64) float64

// Powers 一个账号的四项战力。
type Powers struct {
	Offense int64
	Defense int64
	Spy     int64
	Sentry  int64
}

type Calculator struct {
	cfg *balance.Config
}

func NewCalculator(cfg *balance.Config) *Calculator {
	return &Calculator{cfg: cfg}
}

func (c *Calculator) Config() *balance.Config {
	return c.cfg
}

// ArmoryLookup 用平衡表的装备索引和账号军械库构造加成查询函数。
//
// 加成 = Σ 该兵种已装备且作用于 role 的装备 min(兵力, 库存) * 单件加成；
// 没装备或库存为 0 的槽位贡献 0，武装的兵力不会超过拥有的装备数。
func (c *Calculator) ArmoryLookup(armory domain.Armory) ArmoryBonusFunc {
	return func(unit balance.Unit, role balance.Role, unitCount int64) float64 {
		if unitCount <= 0 {
			return 0
		}
		var total float64
		for _, key := range armory.EquippedFor(unit) {
			item, ok := c.cfg.Item(key)
			if !ok || item.Role != role || item.Unit != unit {
				continue
			}
			armed := min(unitCount, armory.StockOf(key))
			if armed <= 0 {
				continue
			}
			total += float64(armed) * item.Bonus
		}
		return total
	}
}

// Offense 进攻战力：士兵 + 进攻建筑 + 力量。
func (c *Calculator) Offense(s Snapshot, bonus ArmoryBonusFunc) int64 {
	p := c.cfg.Power
	units := s.Ledger.Soldiers
	pct := float64(s.Structures.Level(domain.StructureOffense))*p.OffensePerLevel +
		float64(s.Stats.Strength)*p.StrengthPerPoint
	return shape(units, p.SoldierPower, bonus(balance.UnitSoldier, balance.RoleOffense, units), pct)
}

// Defense 防御战力：守卫 + 城防与防御两种建筑 + 体质。
func (c *Calculator) Defense(s Snapshot, bonus ArmoryBonusFunc) int64 {
	p := c.cfg.Power
	units := s.Ledger.Guards
	pct := float64(s.Structures.Level(domain.StructureFortification))*p.FortificationPerLevel +
		float64(s.Structures.Level(domain.StructureDefense))*p.DefensePerLevel +
		float64(s.Stats.Constitution)*p.ConstitutionPerPoint
	return shape(units, p.GuardPower, bonus(balance.UnitGuard, balance.RoleDefense, units), pct)
}

// SpyPower 谍报战力：间谍 + 谍报建筑 + 敏捷。
func (c *Calculator) SpyPower(s Snapshot, bonus ArmoryBonusFunc) int64 {
	p := c.cfg.Power
	units := s.Ledger.Spies
	pct := float64(s.Structures.Level(domain.StructureSpy))*p.SpyPerLevel +
		float64(s.Stats.Dexterity)*p.DexterityPerPoint
	return shape(units, p.SpyPower, bonus(balance.UnitSpy, balance.RoleSpy, units), pct)
}

// SentryPower 反谍战力：哨兵 + 哨塔建筑 + 魅力。
func (c *Calculator) SentryPower(s Snapshot, bonus ArmoryBonusFunc) int64 {
	p := c.cfg.Power
	units := s.Ledger.Sentries
	pct := float64(s.Structures.Level(domain.StructureSentry))*p.SentryPerLevel +
		float64(s.Stats.Charisma)*p.CharismaPerPoint
	return shape(units, p.SentryPower, bonus(balance.UnitSentry, balance.RoleSentry, units), pct)
}

// All 一次算出四项战力。
func (c *Calculator) All(s Snapshot) Powers {
	bonus := c.ArmoryLookup(s.Armory)
	return Powers{
		Offense: c.Offense(s, bonus),
		Defense: c.Defense(s, bonus),
		Spy:     c.SpyPower(s, bonus),
		Sentry:  c.SentryPower(s, bonus),
	}
}

func shape(units int64, perUnit, armoryBonus, pct float64) int64 {
	if units < 0 {
		units = 0
	}
	raw := (float64(units)*perUnit + armoryBonus) * (1 + pct)
	if raw <= 0 {
		return 0
	}
	return int64(raw)
}
