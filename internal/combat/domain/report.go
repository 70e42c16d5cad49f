package domain

import "time"

type BattleResult int8

// 与旧战报一致：0 失败，1 打平，2 胜利（以进攻方视角）。
const (
	BattleDefeat    BattleResult = 0
	BattleStalemate BattleResult = 1
	BattleVictory   BattleResult = 2
)

func (r BattleResult) String() string {
	switch r {
	case BattleVictory:
		return "victory"
	case BattleStalemate:
		return "stalemate"
	default:
		return "defeat"
	}
}

type AttackMode string

const (
	// AttackPlunder 完整战利品：掠夺信用点、窃取净值、声望。
	AttackPlunder AttackMode = "plunder"
	// AttackSkirmish 只争声望与经验，不掠夺资源。
	AttackSkirmish AttackMode = "skirmish"
)

func (m AttackMode) Valid() bool {
	return m == AttackPlunder || m == AttackSkirmish
}

// BattleReport 一次进攻的不可变战报，创建后不再修改。
type BattleReport struct {
	ID                 int64
	AttackerID         AccountID
	DefenderID         AccountID
	Mode               AttackMode
	Result             BattleResult
	OffensePower       int64
	DefensePower       int64
	SoldiersSent       int64
	GuardsDefending    int64
	DefenderCredits    int64
	DefenderNetWorth   int64
	BattleTaxRate      float64
	TributeTaxRate     float64
	AttackerLosses     int64
	DefenderLosses     int64
	CreditsPlundered   int64
	BattleTax          int64
	TributeTax         int64
	AttackerCreditGain int64
	NetWorthStolen     int64
	PrestigeGained     int64
	AttackerXP         int64
	DefenderXP         int64
	Seed               int64
	CreatedAt          time.Time
}

// IntelSnapshot 谍报成功时拍下的防守方状态。
type IntelSnapshot struct {
	Credits      int64
	Banked       int64
	Gemstones    int64
	Citizens     int64
	Workers      int64
	Soldiers     int64
	Guards       int64
	Spies        int64
	Sentries     int64
	OffensePower int64
	DefensePower int64
	SpyPower     int64
	SentryPower  int64
	Structures   map[StructureKind]int64
}

// SpyReport 一次谍报的不可变报告。Intel 为 nil 表示“未知”，只有成功判定通过才会填充，
// 失败时绝不填零值，避免给玩家错误情报。
type SpyReport struct {
	ID              int64
	AttackerID      AccountID
	DefenderID      AccountID
	Success         bool
	Detected        bool
	SpyPower        int64
	SentryPower     int64
	SuccessChance   float64
	DetectionChance float64
	SpiesSent       int64
	SentriesPosted  int64
	SpiesLost       int64
	SentriesLost    int64
	AttackerXP      int64
	DefenderXP      int64
	Intel           *IntelSnapshot
	Seed            int64
	CreatedAt       time.Time
}
