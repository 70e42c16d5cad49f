package app

import (
	"context"
	"time"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
)

// 存储端口：每个聚合一个小接口，结算逻辑只依赖这些接口，不关心底层是 MySQL 还是内存。
//
// 约定：
// - 在事务内（ctx 携带事务）读取 ledger/stats/alliance 时，SQL 实现加行锁（SELECT ... FOR UPDATE）
// - 所有写入都是相对增量（col = col + delta），扣成负数时返回 domain.ErrNegativeBalance
// - 聚合不存在时返回对应的 domain.ErrXxxNotFound

type AccountRepo interface {
	GetAccount(ctx context.Context, id domain.AccountID) (domain.Account, error)
	FindAccountByName(ctx context.Context, name string) (domain.Account, error)
	ListAccountIDs(ctx context.Context) ([]domain.AccountID, error)
}

type LedgerRepo interface {
	GetLedger(ctx context.Context, id domain.AccountID) (domain.ResourceLedger, error)
	ApplyLedgerDelta(ctx context.Context, id domain.AccountID, d domain.LedgerDelta) error
}

type StatsRepo interface {
	GetStats(ctx context.Context, id domain.AccountID) (domain.CombatStats, error)
	ApplyStatsDelta(ctx context.Context, id domain.AccountID, d domain.StatsDelta) error
}

type StructureRepo interface {
	GetStructures(ctx context.Context, id domain.AccountID) (domain.StructureLevels, error)
}

// ArmoryRepo 没有军械库记录的账号返回空军械库，不视为数据缺失。
type ArmoryRepo interface {
	GetArmory(ctx context.Context, id domain.AccountID) (domain.Armory, error)
}

type AllianceRepo interface {
	// GetAlliance 事务内加行锁，计息时使用。
	GetAlliance(ctx context.Context, id domain.AllianceID) (domain.Alliance, error)
	// GetTaxRates 只读税率，不加锁。
	GetTaxRates(ctx context.Context, id domain.AllianceID) (domain.AllianceTaxRates, error)
	ListAlliances(ctx context.Context) ([]domain.Alliance, error)
	// CreditTreasury 金库相对增量 + 一条流水，二者同成同败。
	CreditTreasury(ctx context.Context, entry domain.TreasuryLog) error
	MarkCompounded(ctx context.Context, id domain.AllianceID, at time.Time) error
}

type ReportRepo interface {
	SaveBattleReport(ctx context.Context, r *domain.BattleReport) error
	SaveSpyReport(ctx context.Context, r *domain.SpyReport) error
}

// ReportReader 复盘时按 id 读取战报/谍报，不存在返回 domain.ErrReportNotFound。
type ReportReader interface {
	GetBattleReport(ctx context.Context, id int64) (domain.BattleReport, error)
	GetSpyReport(ctx context.Context, id int64) (domain.SpyReport, error)
}

// OutboxRepo 事件随业务写入同一事务，提交后再投递。
type OutboxRepo interface {
	Append(ctx context.Context, ev domain.Event) error
	Pending(ctx context.Context, limit int) ([]domain.Event, error)
	MarkPublished(ctx context.Context, ids []int64) error
}

// Transactor 事务边界。
//
// ctx 已携带事务时 InTx 复用外层事务（SQL 实现使用保存点），
// 只提交/回滚自己开启的事务。
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	InTransaction(ctx context.Context) bool
}

// Repos 结算核心依赖的全部存储端口。
type Repos struct {
	Accounts   AccountRepo
	Ledgers    LedgerRepo
	Stats      StatsRepo
	Structures StructureRepo
	Armories   ArmoryRepo
	Alliances  AllianceRepo
	Reports    ReportRepo
	Outbox     OutboxRepo
	Tx         Transactor
}

// EventPublisher 提交后的异步投递，不阻塞调用方，也不返回错误；
// 投递失败的事件仍留在 outbox，由 Relay 补发。
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event)
}

type IDGenerator interface {
	NextID() int64
}

// Recorder 运行指标。
type Recorder interface {
	ObserveAttack(mode domain.AttackMode, result domain.BattleResult)
	ObserveSpy(success, detected bool)
	ObserveTick(elapsed time.Duration, res TickResult)
	ObserveFailure(op string)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...domain.Event) {}

type nopRecorder struct{}

func (nopRecorder) ObserveAttack(domain.AttackMode, domain.BattleResult) {}

func (nopRecorder) ObserveSpy(bool, bool) {}

func (nopRecorder) ObserveTick(time.Duration, TickResult) {}

func (nopRecorder) ObserveFailure(string) {}
