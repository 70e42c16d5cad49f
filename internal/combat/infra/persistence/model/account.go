package model

import "time"

// Account 账号在结算核心关心的部分。
type Account struct {
	ID         int64     `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false;comment:账号id" json:"id"`
	Name       string    `gorm:"column:name;type:varchar(64);uniqueIndex;not null;comment:账号名" json:"name"`
	AllianceID int64     `gorm:"column:alliance_id;type:bigint;index;not null;default:0;comment:所属联盟，0 表示无" json:"alliance_id"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// Ledger 资源账本，所有数量列都不允许为负（由相对更新的条件保证）。
type Ledger struct {
	AccountID int64     `gorm:"column:account_id;type:bigint;primaryKey;autoIncrement:false" json:"account_id"`
	Credits   int64     `gorm:"column:credits;type:bigint;not null;default:0;comment:流动信用点" json:"credits"`
	Banked    int64     `gorm:"column:banked;type:bigint;not null;default:0;comment:银行存款" json:"banked"`
	Gemstones int64     `gorm:"column:gemstones;type:bigint;not null;default:0;comment:宝石" json:"gemstones"`
	Citizens  int64     `gorm:"column:citizens;type:bigint;not null;default:0;comment:平民" json:"citizens"`
	Workers   int64     `gorm:"column:workers;type:bigint;not null;default:0;comment:工人" json:"workers"`
	Soldiers  int64     `gorm:"column:soldiers;type:bigint;not null;default:0;comment:士兵" json:"soldiers"`
	Guards    int64     `gorm:"column:guards;type:bigint;not null;default:0;comment:守卫" json:"guards"`
	Spies     int64     `gorm:"column:spies;type:bigint;not null;default:0;comment:间谍" json:"spies"`
	Sentries  int64     `gorm:"column:sentries;type:bigint;not null;default:0;comment:哨兵" json:"sentries"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Ledger) TableName() string {
	return "account_ledgers"
}

type Stats struct {
	AccountID    int64     `gorm:"column:account_id;type:bigint;primaryKey;autoIncrement:false" json:"account_id"`
	Level        int64     `gorm:"column:level;type:bigint;not null;default:1" json:"level"`
	Experience   int64     `gorm:"column:experience;type:bigint;not null;default:0" json:"experience"`
	NetWorth     int64     `gorm:"column:net_worth;type:bigint;not null;default:0" json:"net_worth"`
	WarPrestige  int64     `gorm:"column:war_prestige;type:bigint;not null;default:0" json:"war_prestige"`
	AttackTurns  int64     `gorm:"column:attack_turns;type:bigint;not null;default:0" json:"attack_turns"`
	Strength     int64     `gorm:"column:strength;type:bigint;not null;default:0" json:"strength"`
	Constitution int64     `gorm:"column:constitution;type:bigint;not null;default:0" json:"constitution"`
	Wealth       int64     `gorm:"column:wealth;type:bigint;not null;default:0" json:"wealth"`
	Dexterity    int64     `gorm:"column:dexterity;type:bigint;not null;default:0" json:"dexterity"`
	Charisma     int64     `gorm:"column:charisma;type:bigint;not null;default:0" json:"charisma"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Stats) TableName() string {
	return "account_stats"
}

// Structures 每种建筑一列。
type Structures struct {
	AccountID     int64 `gorm:"column:account_id;type:bigint;primaryKey;autoIncrement:false" json:"account_id"`
	Offense       int64 `gorm:"column:offense_level;type:bigint;not null;default:0" json:"offense_level"`
	Defense       int64 `gorm:"column:defense_level;type:bigint;not null;default:0" json:"defense_level"`
	Fortification int64 `gorm:"column:fortification_level;type:bigint;not null;default:0" json:"fortification_level"`
	Economy       int64 `gorm:"column:economy_level;type:bigint;not null;default:0" json:"economy_level"`
	Population    int64 `gorm:"column:population_level;type:bigint;not null;default:0" json:"population_level"`
	Armory        int64 `gorm:"column:armory_level;type:bigint;not null;default:0" json:"armory_level"`
	Spy           int64 `gorm:"column:spy_level;type:bigint;not null;default:0" json:"spy_level"`
	Sentry        int64 `gorm:"column:sentry_level;type:bigint;not null;default:0" json:"sentry_level"`
}

func (Structures) TableName() string {
	return "account_structures"
}

type ArmoryStock struct {
	AccountID int64  `gorm:"column:account_id;type:bigint;primaryKey;autoIncrement:false" json:"account_id"`
	ItemKey   string `gorm:"column:item_key;type:varchar(64);primaryKey" json:"item_key"`
	Quantity  int64  `gorm:"column:quantity;type:bigint;not null;default:0" json:"quantity"`
}

func (ArmoryStock) TableName() string {
	return "armory_stock"
}

type ArmoryLoadout struct {
	AccountID int64  `gorm:"column:account_id;type:bigint;primaryKey;autoIncrement:false" json:"account_id"`
	Unit      string `gorm:"column:unit;type:varchar(32);primaryKey" json:"unit"`
	Slot      string `gorm:"column:slot;type:varchar(32);primaryKey" json:"slot"`
	ItemKey   string `gorm:"column:item_key;type:varchar(64);not null" json:"item_key"`
}

func (ArmoryLoadout) TableName() string {
	return "armory_loadouts"
}
