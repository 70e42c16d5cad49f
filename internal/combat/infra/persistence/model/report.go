package model

import "time"

type BattleReport struct {
	ID                 int64     `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false" json:"id"`
	AttackerID         int64     `gorm:"column:attacker_id;type:bigint;index;not null" json:"attacker_id"`
	DefenderID         int64     `gorm:"column:defender_id;type:bigint;index;not null" json:"defender_id"`
	Mode               string    `gorm:"column:mode;type:varchar(16);not null" json:"mode"`
	Result             int8      `gorm:"column:result;type:tinyint;not null;comment:0 失败 1 平局 2 胜利" json:"result"`
	OffensePower       int64     `gorm:"column:offense_power;type:bigint" json:"offense_power"`
	DefensePower       int64     `gorm:"column:defense_power;type:bigint" json:"defense_power"`
	SoldiersSent       int64     `gorm:"column:soldiers_sent;type:bigint" json:"soldiers_sent"`
	GuardsDefending    int64     `gorm:"column:guards_defending;type:bigint" json:"guards_defending"`
	DefenderCredits    int64     `gorm:"column:defender_credits;type:bigint" json:"defender_credits"`
	DefenderNetWorth   int64     `gorm:"column:defender_net_worth;type:bigint" json:"defender_net_worth"`
	BattleTaxRate      float64   `gorm:"column:battle_tax_rate;type:double" json:"battle_tax_rate"`
	TributeTaxRate     float64   `gorm:"column:tribute_tax_rate;type:double" json:"tribute_tax_rate"`
	AttackerLosses     int64     `gorm:"column:attacker_losses;type:bigint" json:"attacker_losses"`
	DefenderLosses     int64     `gorm:"column:defender_losses;type:bigint" json:"defender_losses"`
	CreditsPlundered   int64     `gorm:"column:credits_plundered;type:bigint" json:"credits_plundered"`
	BattleTax          int64     `gorm:"column:battle_tax;type:bigint" json:"battle_tax"`
	TributeTax         int64     `gorm:"column:tribute_tax;type:bigint" json:"tribute_tax"`
	AttackerCreditGain int64     `gorm:"column:attacker_credit_gain;type:bigint" json:"attacker_credit_gain"`
	NetWorthStolen     int64     `gorm:"column:net_worth_stolen;type:bigint" json:"net_worth_stolen"`
	PrestigeGained     int64     `gorm:"column:prestige_gained;type:bigint" json:"prestige_gained"`
	AttackerXP         int64     `gorm:"column:attacker_xp;type:bigint" json:"attacker_xp"`
	DefenderXP         int64     `gorm:"column:defender_xp;type:bigint" json:"defender_xp"`
	Seed               int64     `gorm:"column:seed;type:bigint;comment:结算随机种子，用于复盘" json:"seed"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
}

func (BattleReport) TableName() string {
	return "battle_reports"
}

// Intel 情报快照，整体以 JSON 存在 spy_reports.intel 列；NULL 表示未获得情报。
type Intel struct {
	Credits      int64            `json:"credits"`
	Banked       int64            `json:"banked"`
	Gemstones    int64            `json:"gemstones"`
	Citizens     int64            `json:"citizens"`
	Workers      int64            `json:"workers"`
	Soldiers     int64            `json:"soldiers"`
	Guards       int64            `json:"guards"`
	Spies        int64            `json:"spies"`
	Sentries     int64            `json:"sentries"`
	OffensePower int64            `json:"offense_power"`
	DefensePower int64            `json:"defense_power"`
	SpyPower     int64            `json:"spy_power"`
	SentryPower  int64            `json:"sentry_power"`
	Structures   map[string]int64 `json:"structures"`
}

type SpyReport struct {
	ID              int64     `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false" json:"id"`
	AttackerID      int64     `gorm:"column:attacker_id;type:bigint;index;not null" json:"attacker_id"`
	DefenderID      int64     `gorm:"column:defender_id;type:bigint;index;not null" json:"defender_id"`
	Success         bool      `gorm:"column:success;not null" json:"success"`
	Detected        bool      `gorm:"column:detected;not null" json:"detected"`
	SpyPower        int64     `gorm:"column:spy_power;type:bigint" json:"spy_power"`
	SentryPower     int64     `gorm:"column:sentry_power;type:bigint" json:"sentry_power"`
	SuccessChance   float64   `gorm:"column:success_chance;type:double" json:"success_chance"`
	DetectionChance float64   `gorm:"column:detection_chance;type:double" json:"detection_chance"`
	SpiesSent       int64     `gorm:"column:spies_sent;type:bigint" json:"spies_sent"`
	SentriesPosted  int64     `gorm:"column:sentries_posted;type:bigint" json:"sentries_posted"`
	SpiesLost       int64     `gorm:"column:spies_lost;type:bigint" json:"spies_lost"`
	SentriesLost    int64     `gorm:"column:sentries_lost;type:bigint" json:"sentries_lost"`
	AttackerXP      int64     `gorm:"column:attacker_xp;type:bigint" json:"attacker_xp"`
	DefenderXP      int64     `gorm:"column:defender_xp;type:bigint" json:"defender_xp"`
	Intel           *Intel    `gorm:"column:intel;type:text;serializer:json" json:"intel"`
	Seed            int64     `gorm:"column:seed;type:bigint" json:"seed"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (SpyReport) TableName() string {
	return "spy_reports"
}

// OutboxEvent 随业务事务写入的待投递事件。PublishedAt 为空表示尚未投递。
type OutboxEvent struct {
	ID          int64            `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false" json:"id"`
	Kind        string           `gorm:"column:kind;type:varchar(64);not null" json:"kind"`
	AttackerID  int64            `gorm:"column:attacker_id;type:bigint" json:"attacker_id"`
	DefenderID  int64            `gorm:"column:defender_id;type:bigint" json:"defender_id"`
	ReportID    int64            `gorm:"column:report_id;type:bigint" json:"report_id"`
	Result      string           `gorm:"column:result;type:varchar(32)" json:"result"`
	Numbers     map[string]int64 `gorm:"column:numbers;type:text;serializer:json" json:"numbers"`
	OccurredAt  time.Time        `gorm:"column:occurred_at" json:"occurred_at"`
	PublishedAt *time.Time       `gorm:"column:published_at;index" json:"published_at"`
}

func (OutboxEvent) TableName() string {
	return "combat_outbox"
}

// All 全部表模型，AutoMigrate 使用。
func All() []any {
	return []any{
		&Account{},
		&Ledger{},
		&Stats{},
		&Structures{},
		&ArmoryStock{},
		&ArmoryLoadout{},
		&Alliance{},
		&TreasuryLog{},
		&BattleReport{},
		&SpyReport{},
		&OutboxEvent{},
	}
}
