// Package memory 结算存储端口的内存实现，单测与本地演示使用。
//
// 事务实现为“整库互斥 + 快照回滚”：InTx 持有整库锁，出错时恢复进入事务前的快照；
// 嵌套调用复用外层锁，只回滚自己那一层的快照。
package memory

import (
	"context"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
)

type data struct {
	accounts   map[domain.AccountID]domain.Account
	ledgers    map[domain.AccountID]domain.ResourceLedger
	stats      map[domain.AccountID]domain.CombatStats
	structures map[domain.AccountID]domain.StructureLevels
	armories   map[domain.AccountID]domain.Armory
	alliances  map[domain.AllianceID]domain.Alliance
	treasury   []domain.TreasuryLog
	battles    []domain.BattleReport
	spies      []domain.SpyReport
	outbox     []outboxEntry
}

type outboxEntry struct {
	ev        domain.Event
	published bool
}

// clone 快照。聚合里的 map 在写入时整体替换，不会原地修改，这里浅拷贝即可。
func (d *data) clone() *data {
	return &data{
		accounts:   maps.Clone(d.accounts),
		ledgers:    maps.Clone(d.ledgers),
		stats:      maps.Clone(d.stats),
		structures: maps.Clone(d.structures),
		armories:   maps.Clone(d.armories),
		alliances:  maps.Clone(d.alliances),
		treasury:   slices.Clone(d.treasury),
		battles:    slices.Clone(d.battles),
		spies:      slices.Clone(d.spies),
		outbox:     slices.Clone(d.outbox),
	}
}

// Store 实现 app 层的全部存储端口。
type Store struct {
	mu sync.Mutex
	d  *data

	faultMu sync.Mutex
	faults  map[string]error
}

func NewStore() *Store {
	return &Store{
		d: &data{
			accounts:   make(map[domain.AccountID]domain.Account),
			ledgers:    make(map[domain.AccountID]domain.ResourceLedger),
			stats:      make(map[domain.AccountID]domain.CombatStats),
			structures: make(map[domain.AccountID]domain.StructureLevels),
			armories:   make(map[domain.AccountID]domain.Armory),
			alliances:  make(map[domain.AllianceID]domain.Alliance),
		},
		faults: make(map[string]error),
	}
}

type txKey struct{}

// txMarker 标记 ctx 属于哪个 Store 的事务。
type txMarker struct {
	s *Store
}

func (s *Store) InTransaction(ctx context.Context) bool {
	m, ok := ctx.Value(txKey{}).(*txMarker)
	return ok && m.s == s
}

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.InTransaction(ctx) {
		snap := s.d.clone()
		if err := fn(ctx); err != nil {
			s.d = snap
			return err
		}
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.d.clone()
	if err := fn(context.WithValue(ctx, txKey{}, &txMarker{s: s})); err != nil {
		s.d = snap
		return err
	}
	return nil
}

// lock 事务外的单次读写加锁；事务内已持有整库锁，不再加锁。
func (s *Store) lock(ctx context.Context) func() {
	if s.InTransaction(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// FailOn 让名为 op 的调用返回 err，用于模拟存储故障；err 为 nil 时清除。
// op 取方法名，如 "SaveBattleReport"；按账号注入时写成 "ApplyLedgerDelta#3"。
func (s *Store) FailOn(op string, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *Store) fault(op string, id ...int64) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	if err := s.faults[op]; err != nil {
		return err
	}
	for _, v := range id {
		if err := s.faults[op+"#"+strconv.FormatInt(v, 10)]; err != nil {
			return err
		}
	}
	return nil
}

// ---- 数据准备 ----

// Seed 一次性写入账号的全部聚合，测试准备数据用。
type Seed struct {
	Account    domain.Account
	Ledger     domain.ResourceLedger
	Stats      domain.CombatStats
	Structures map[domain.StructureKind]int64
	Armory     *domain.Armory
	// SkipLedger/SkipStats/SkipStructures 用来构造聚合缺失的账号。
	SkipLedger     bool
	SkipStats      bool
	SkipStructures bool
}

func (s *Store) Put(seed Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := seed.Account.ID
	s.d.accounts[id] = seed.Account
	if !seed.SkipLedger {
		l := seed.Ledger
		l.AccountID = id
		s.d.ledgers[id] = l
	}
	if !seed.SkipStats {
		st := seed.Stats
		st.AccountID = id
		if st.Level == 0 {
			st.Level = 1
		}
		s.d.stats[id] = st
	}
	if !seed.SkipStructures {
		s.d.structures[id] = domain.StructureLevels{AccountID: id, Levels: maps.Clone(seed.Structures)}
	}
	if seed.Armory != nil {
		a := *seed.Armory
		a.AccountID = id
		s.d.armories[id] = a
	}
}

func (s *Store) PutAlliance(a domain.Alliance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.alliances[a.ID] = a
}

// ---- AccountRepo ----

func (s *Store) GetAccount(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	defer s.lock(ctx)()
	if err := s.fault("GetAccount"); err != nil {
		return domain.Account{}, err
	}
	a, ok := s.d.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound.WithData("account_id", int64(id))
	}
	return a, nil
}

func (s *Store) FindAccountByName(ctx context.Context, name string) (domain.Account, error) {
	defer s.lock(ctx)()
	for _, a := range s.d.accounts {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound.WithData("name", name)
}

func (s *Store) ListAccountIDs(ctx context.Context) ([]domain.AccountID, error) {
	defer s.lock(ctx)()
	if err := s.fault("ListAccountIDs"); err != nil {
		return nil, err
	}
	ids := slices.Collect(maps.Keys(s.d.accounts))
	slices.Sort(ids)
	return ids, nil
}

// ---- LedgerRepo ----

func (s *Store) GetLedger(ctx context.Context, id domain.AccountID) (domain.ResourceLedger, error) {
	defer s.lock(ctx)()
	l, ok := s.d.ledgers[id]
	if !ok {
		return domain.ResourceLedger{}, domain.ErrLedgerNotFound.WithData("account_id", int64(id))
	}
	return l, nil
}

func (s *Store) ApplyLedgerDelta(ctx context.Context, id domain.AccountID, d domain.LedgerDelta) error {
	defer s.lock(ctx)()
	if err := s.fault("ApplyLedgerDelta", int64(id)); err != nil {
		return err
	}
	l, ok := s.d.ledgers[id]
	if !ok {
		return domain.ErrLedgerNotFound.WithData("account_id", int64(id))
	}
	next, err := l.Apply(d)
	if err != nil {
		return err
	}
	s.d.ledgers[id] = next
	return nil
}

// Ledger 测试断言用。
func (s *Store) Ledger(id domain.AccountID) domain.ResourceLedger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.ledgers[id]
}

// ---- StatsRepo ----

func (s *Store) GetStats(ctx context.Context, id domain.AccountID) (domain.CombatStats, error) {
	defer s.lock(ctx)()
	st, ok := s.d.stats[id]
	if !ok {
		return domain.CombatStats{}, domain.ErrStatsNotFound.WithData("account_id", int64(id))
	}
	return st, nil
}

func (s *Store) ApplyStatsDelta(ctx context.Context, id domain.AccountID, d domain.StatsDelta) error {
	defer s.lock(ctx)()
	if err := s.fault("ApplyStatsDelta", int64(id)); err != nil {
		return err
	}
	st, ok := s.d.stats[id]
	if !ok {
		return domain.ErrStatsNotFound.WithData("account_id", int64(id))
	}
	next, err := st.Apply(d)
	if err != nil {
		return err
	}
	s.d.stats[id] = next
	return nil
}

func (s *Store) Stats(id domain.AccountID) domain.CombatStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.stats[id]
}

// ---- StructureRepo / ArmoryRepo ----

func (s *Store) GetStructures(ctx context.Context, id domain.AccountID) (domain.StructureLevels, error) {
	defer s.lock(ctx)()
	st, ok := s.d.structures[id]
	if !ok {
		return domain.StructureLevels{}, domain.ErrStructuresNotFound.WithData("account_id", int64(id))
	}
	return st, nil
}

func (s *Store) GetArmory(ctx context.Context, id domain.AccountID) (domain.Armory, error) {
	defer s.lock(ctx)()
	a, ok := s.d.armories[id]
	if !ok {
		return domain.Armory{AccountID: id}, nil
	}
	return a, nil
}

// ---- AllianceRepo ----

func (s *Store) GetAlliance(ctx context.Context, id domain.AllianceID) (domain.Alliance, error) {
	defer s.lock(ctx)()
	a, ok := s.d.alliances[id]
	if !ok {
		return domain.Alliance{}, domain.ErrAllianceNotFound.WithData("alliance_id", int64(id))
	}
	return a, nil
}

func (s *Store) GetTaxRates(ctx context.Context, id domain.AllianceID) (domain.AllianceTaxRates, error) {
	a, err := s.GetAlliance(ctx, id)
	if err != nil {
		return domain.AllianceTaxRates{}, err
	}
	return a.TaxRates(), nil
}

func (s *Store) ListAlliances(ctx context.Context) ([]domain.Alliance, error) {
	defer s.lock(ctx)()
	out := slices.Collect(maps.Values(s.d.alliances))
	slices.SortFunc(out, func(a, b domain.Alliance) int { return int(a.ID - b.ID) })
	return out, nil
}

func (s *Store) CreditTreasury(ctx context.Context, entry domain.TreasuryLog) error {
	defer s.lock(ctx)()
	if err := s.fault("CreditTreasury", int64(entry.AllianceID)); err != nil {
		return err
	}
	a, ok := s.d.alliances[entry.AllianceID]
	if !ok {
		return domain.ErrAllianceNotFound.WithData("alliance_id", int64(entry.AllianceID))
	}
	if a.Treasury+entry.Amount < 0 {
		return domain.ErrNegativeBalance.WithData("alliance_id", int64(a.ID))
	}
	a.Treasury += entry.Amount
	s.d.alliances[a.ID] = a
	s.d.treasury = append(s.d.treasury, entry)
	return nil
}

func (s *Store) MarkCompounded(ctx context.Context, id domain.AllianceID, at time.Time) error {
	defer s.lock(ctx)()
	a, ok := s.d.alliances[id]
	if !ok {
		return domain.ErrAllianceNotFound.WithData("alliance_id", int64(id))
	}
	a.LastCompoundedAt = at
	s.d.alliances[id] = a
	return nil
}

func (s *Store) Alliance(id domain.AllianceID) domain.Alliance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.alliances[id]
}

func (s *Store) TreasuryLogs() []domain.TreasuryLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.d.treasury)
}

// ---- ReportRepo ----

func (s *Store) SaveBattleReport(ctx context.Context, r *domain.BattleReport) error {
	defer s.lock(ctx)()
	if err := s.fault("SaveBattleReport"); err != nil {
		return err
	}
	s.d.battles = append(s.d.battles, *r)
	return nil
}

func (s *Store) SaveSpyReport(ctx context.Context, r *domain.SpyReport) error {
	defer s.lock(ctx)()
	if err := s.fault("SaveSpyReport"); err != nil {
		return err
	}
	s.d.spies = append(s.d.spies, *r)
	return nil
}

func (s *Store) GetBattleReport(ctx context.Context, id int64) (domain.BattleReport, error) {
	defer s.lock(ctx)()
	for _, r := range s.d.battles {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.BattleReport{}, domain.ErrReportNotFound.WithData("report_id", id)
}

func (s *Store) GetSpyReport(ctx context.Context, id int64) (domain.SpyReport, error) {
	defer s.lock(ctx)()
	for _, r := range s.d.spies {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.SpyReport{}, domain.ErrReportNotFound.WithData("report_id", id)
}

func (s *Store) BattleReports() []domain.BattleReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.d.battles)
}

func (s *Store) SpyReports() []domain.SpyReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.d.spies)
}

// ---- OutboxRepo ----

func (s *Store) Append(ctx context.Context, ev domain.Event) error {
	defer s.lock(ctx)()
	if err := s.fault("Append"); err != nil {
		return err
	}
	s.d.outbox = append(s.d.outbox, outboxEntry{ev: ev})
	return nil
}

func (s *Store) Pending(ctx context.Context, limit int) ([]domain.Event, error) {
	defer s.lock(ctx)()
	var out []domain.Event
	for _, e := range s.d.outbox {
		if e.published {
			continue
		}
		out = append(out, e.ev)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkPublished(ctx context.Context, ids []int64) error {
	defer s.lock(ctx)()
	for i := range s.d.outbox {
		if slices.Contains(ids, s.d.outbox[i].ev.ID) {
			s.d.outbox[i].published = true
		}
	}
	return nil
}

func (s *Store) OutboxEvents() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Event, 0, len(s.d.outbox))
	for _, e := range s.d.outbox {
		out = append(out, e.ev)
	}
	return out
}
