package domain

// CombatStats 账号战斗属性。回合与属性点只能通过显式消耗减少，经验与等级只增不减。
// entity
type CombatStats struct {
	AccountID    AccountID
	Level        int64
	Experience   int64
	NetWorth     int64
	WarPrestige  int64
	AttackTurns  int64
	Strength     int64 // 力量：进攻加成
	Constitution int64 // 体质：防御加成
	Wealth       int64 // 财富：产出加成
	Dexterity    int64 // 敏捷：谍报加成
	Charisma     int64 // 魅力：反谍加成
}

// StatsDelta 对战斗属性的相对增量。Level 不是增量，而是“至少提升到”的目标等级。
type StatsDelta struct {
	Experience  int64
	NetWorth    int64
	WarPrestige int64
	AttackTurns int64
	Level       int64
}

func (d StatsDelta) IsZero() bool {
	return d == StatsDelta{}
}

// Apply 返回应用增量后的属性；净值/声望/回合变负或经验减少时返回错误。
func (s CombatStats) Apply(d StatsDelta) (CombatStats, error) {
	if d.Experience < 0 {
		return s, ErrNegativeBalance.WithData("field", "experience")
	}
	next := s
	next.Experience += d.Experience
	next.NetWorth += d.NetWorth
	next.WarPrestige += d.WarPrestige
	next.AttackTurns += d.AttackTurns
	next.Level = max(next.Level, d.Level)
	if next.NetWorth < 0 || next.WarPrestige < 0 || next.AttackTurns < 0 {
		return s, ErrNegativeBalance.WithData("account_id", int64(s.AccountID))
	}
	return next, nil
}
