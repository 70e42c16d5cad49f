package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/infra/persistence/memory"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/rng"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/gameconfig/balance"
)

type seqIDs struct {
	n atomic.Int64
}

func (s *seqIDs) NextID() int64 {
	return s.n.Add(1)
}

// fixedSeeder 每次返回同一个种子。
type fixedSeeder int64

func (f fixedSeeder) NextSeed() int64 {
	return int64(f)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *capturePublisher) Publish(_ context.Context, events ...domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

func (p *capturePublisher) Events() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Event(nil), p.events...)
}

type harness struct {
	store *memory.Store
	pub   *capturePublisher
	cfg   *balance.Config
	deps  Deps
}

func reposOf(s *memory.Store) Repos {
	return Repos{
		Accounts:   s,
		Ledgers:    s,
		Stats:      s,
		Structures: s,
		Armories:   s,
		Alliances:  s,
		Reports:    s,
		Outbox:     s,
		Tx:         s,
	}
}

func newHarness(t *testing.T, cfg *balance.Config) *harness {
	t.Helper()
	if cfg == nil {
		cfg = balance.Default()
	}
	seeder, err := rng.NewSeeder(20240101)
	if err != nil {
		t.Fatalf("seeder: %v", err)
	}
	h := &harness{store: memory.NewStore(), pub: &capturePublisher{}, cfg: cfg}
	h.deps = Deps{
		Balance:   cfg,
		Seeder:    seeder,
		IDs:       &seqIDs{},
		Publisher: h.pub,
		Now:       func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
	h.deps.Repos = reposOf(h.store)
	return h
}

func (h *harness) put(id domain.AccountID, name string, l domain.ResourceLedger, st domain.CombatStats) {
	h.store.Put(memory.Seed{
		Account: domain.Account{ID: id, Name: name},
		Ledger:  l,
		Stats:   st,
	})
}

// flatBalance 所有百分比加成为 0、单兵战力为 1 的平衡表，便于手算。
func flatBalance() *balance.Config {
	c := balance.Default()
	c.Power.OffensePerLevel = 0
	c.Power.DefensePerLevel = 0
	c.Power.FortificationPerLevel = 0
	c.Power.SpyPerLevel = 0
	c.Power.SentryPerLevel = 0
	c.Power.StrengthPerPoint = 0
	c.Power.ConstitutionPerPoint = 0
	c.Power.DexterityPerPoint = 0
	c.Power.CharismaPerPoint = 0
	if err := c.Init(); err != nil {
		panic(err)
	}
	return c
}
