package model

import "time"

type Alliance struct {
	ID               int64      `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false" json:"id"`
	Name             string     `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Treasury         int64      `gorm:"column:treasury;type:bigint;not null;default:0;comment:联盟金库" json:"treasury"`
	BattleTaxRate    float64    `gorm:"column:battle_tax_rate;type:double;not null;default:0" json:"battle_tax_rate"`
	TributeTaxRate   float64    `gorm:"column:tribute_tax_rate;type:double;not null;default:0" json:"tribute_tax_rate"`
	InterestRate     float64    `gorm:"column:interest_rate;type:double;not null;default:0" json:"interest_rate"`
	LastCompoundedAt *time.Time `gorm:"column:last_compounded_at" json:"last_compounded_at"`
}

func (Alliance) TableName() string {
	return "alliances"
}

// TreasuryLog 金库流水，只追加。
type TreasuryLog struct {
	ID         int64     `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false" json:"id"`
	AllianceID int64     `gorm:"column:alliance_id;type:bigint;index;not null" json:"alliance_id"`
	AccountID  int64     `gorm:"column:account_id;type:bigint;not null;default:0" json:"account_id"`
	Kind       string    `gorm:"column:kind;type:varchar(32);not null" json:"kind"`
	Amount     int64     `gorm:"column:amount;type:bigint;not null" json:"amount"`
	Note       string    `gorm:"column:note;type:varchar(255)" json:"note"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (TreasuryLog) TableName() string {
	return "alliance_treasury_logs"
}
