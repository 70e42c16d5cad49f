package domain

import "time"

// Alliance 联盟及其共享金库。金库是全系统竞争最激烈的写入点，
// 只允许以相对增量（balance = balance + delta）修改。
// entity
type Alliance struct {
	ID               AllianceID
	Name             string
	Treasury         int64
	BattleTaxRate    float64 // 成员胜利掠夺的战争税
	TributeTaxRate   float64 // 成员胜利掠夺的贡金
	InterestRate     float64 // 每回合金库利率，0 表示不计息
	LastCompoundedAt time.Time
}

// AllianceTaxRates 成员胜利时从掠夺中抽取的比例。
type AllianceTaxRates struct {
	BattleTaxRate  float64
	TributeTaxRate float64
}

func (a Alliance) TaxRates() AllianceTaxRates {
	return AllianceTaxRates{BattleTaxRate: a.BattleTaxRate, TributeTaxRate: a.TributeTaxRate}
}

type TreasuryLogKind string

const (
	TreasuryBattleTax  TreasuryLogKind = "battle_tax"
	TreasuryTributeTax TreasuryLogKind = "tribute_tax"
	TreasuryInterest   TreasuryLogKind = "interest"
)

// TreasuryLog 金库流水，每一次相对增量对应一条。
type TreasuryLog struct {
	ID         int64
	AllianceID AllianceID
	AccountID  AccountID // 来源账号；利息为 0
	Kind       TreasuryLogKind
	Amount     int64
	Note       string
	CreatedAt  time.Time
}
