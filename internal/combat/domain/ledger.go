package domain

// ResourceLedger 账号资源账本。任何操作之后所有字段都不能为负。
// entity
type ResourceLedger struct {
	AccountID AccountID
	Credits   int64 // 流动信用点，可被掠夺
	Banked    int64 // 银行存款，按回合计息，不可被掠夺
	Gemstones int64 // 宝石
	Citizens  int64 // 未训练的平民
	Workers   int64 // 工人
	Soldiers  int64 // 士兵（进攻）
	Guards    int64 // 守卫（防守）
	Spies     int64 // 间谍
	Sentries  int64 // 哨兵（反谍）
}

// LedgerDelta 对账本的相对增量，持久化层以 col = col + delta 的形式落库。
type LedgerDelta struct {
	Credits   int64
	Banked    int64
	Gemstones int64
	Citizens  int64
	Workers   int64
	Soldiers  int64
	Guards    int64
	Spies     int64
	Sentries  int64
}

func (d LedgerDelta) IsZero() bool {
	return d == LedgerDelta{}
}

// Apply 返回应用增量后的账本；任一字段会变负时返回 ErrNegativeBalance 且不修改原值。
func (l ResourceLedger) Apply(d LedgerDelta) (ResourceLedger, error) {
	next := l
	next.Credits += d.Credits
	next.Banked += d.Banked
	next.Gemstones += d.Gemstones
	next.Citizens += d.Citizens
	next.Workers += d.Workers
	next.Soldiers += d.Soldiers
	next.Guards += d.Guards
	next.Spies += d.Spies
	next.Sentries += d.Sentries
	if next.Credits < 0 || next.Banked < 0 || next.Gemstones < 0 || next.Citizens < 0 ||
		next.Workers < 0 || next.Soldiers < 0 || next.Guards < 0 || next.Spies < 0 || next.Sentries < 0 {
		return l, ErrNegativeBalance.WithData("account_id", int64(l.AccountID))
	}
	return next, nil
}

// ClampLoss 把请求的损失裁剪到 [0, available]。
func ClampLoss(requested, available int64) int64 {
	if requested <= 0 || available <= 0 {
		return 0
	}
	return min(requested, available)
}
