package app

import (
	"context"
	"errors"
	"testing"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/infra/persistence/memory"
)

func putEconomy(h *harness, id domain.AccountID, name string, econ, pop, workers int64) {
	h.store.Put(memory.Seed{
		Account: domain.Account{ID: id, Name: name},
		Ledger:  domain.ResourceLedger{Workers: workers},
		Structures: map[domain.StructureKind]int64{
			domain.StructureEconomy:    econ,
			domain.StructurePopulation: pop,
		},
	})
}

func TestProcessAllAccounts_经济五级每回合五千(t *testing.T) {
	h := newHarness(t, nil)
	putEconomy(h, 1, "miner", 5, 0, 0)

	res, err := NewTurnService(h.deps).ProcessAllAccounts(context.Background())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if res.AccountsProcessed != 1 {
		t.Fatalf("期望处理 1 个账号, got=%+v", res)
	}
	if got := h.store.Ledger(1).Credits; got != 5000 {
		t.Fatalf("期望 5000, got=%d", got)
	}
	if got := h.store.Stats(1).AttackTurns; got != h.cfg.Income.TurnsPerTick {
		t.Fatalf("期望恢复 %d 回合, got=%d", h.cfg.Income.TurnsPerTick, got)
	}
}

func TestProcessAllAccounts_联盟金库计息(t *testing.T) {
	h := newHarness(t, nil)
	h.store.PutAlliance(domain.Alliance{ID: 1, Name: "Vanguard", Treasury: 1_000_000, InterestRate: 0.005})
	h.store.PutAlliance(domain.Alliance{ID: 2, Name: "Idle", Treasury: 1_000_000})
	h.store.PutAlliance(domain.Alliance{ID: 3, Name: "Broke", InterestRate: 0.01})

	res, err := NewTurnService(h.deps).ProcessAllAccounts(context.Background())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if res.AlliancesProcessed != 1 {
		t.Fatalf("期望只处理 1 个联盟, got=%+v", res)
	}
	a := h.store.Alliance(1)
	if a.Treasury != 1_005_000 {
		t.Fatalf("期望金库 +5000, got=%d", a.Treasury)
	}
	if a.LastCompoundedAt.IsZero() {
		t.Fatalf("期望记录计息时间")
	}
	logs := h.store.TreasuryLogs()
	if len(logs) != 1 || logs[0].Kind != domain.TreasuryInterest || logs[0].Amount != 5000 {
		t.Fatalf("期望一条 5000 的利息流水, got=%+v", logs)
	}
	if h.store.Alliance(2).Treasury != 1_000_000 || h.store.Alliance(3).Treasury != 0 {
		t.Fatalf("利率或余额为 0 的联盟不应变化")
	}
}

func TestProcessAllAccounts_连续两次产出翻倍(t *testing.T) {
	h := newHarness(t, nil)
	h.deps.TickConcurrency = 4
	for i := int64(1); i <= 10; i++ {
		putEconomy(h, domain.AccountID(i), "acc", i, 2, 10*i)
	}
	svc := NewTurnService(h.deps)

	if _, err := svc.ProcessAllAccounts(context.Background()); err != nil {
		t.Fatalf("err=%v", err)
	}
	once := make(map[domain.AccountID]domain.ResourceLedger)
	onceTurns := make(map[domain.AccountID]int64)
	for i := int64(1); i <= 10; i++ {
		once[domain.AccountID(i)] = h.store.Ledger(domain.AccountID(i))
		onceTurns[domain.AccountID(i)] = h.store.Stats(domain.AccountID(i)).AttackTurns
	}

	if _, err := svc.ProcessAllAccounts(context.Background()); err != nil {
		t.Fatalf("err=%v", err)
	}
	for id, l := range once {
		got := h.store.Ledger(id)
		if got.Credits != 2*l.Credits || got.Citizens != 2*l.Citizens {
			t.Fatalf("账号 %d 期望产出翻倍: once=%+v twice=%+v", id, l, got)
		}
		if turns := h.store.Stats(id).AttackTurns; turns != 2*onceTurns[id] {
			t.Fatalf("账号 %d 期望回合翻倍: once=%d twice=%d", id, onceTurns[id], turns)
		}
	}
}

func TestProcessAllAccounts_聚合缺失跳过且失败隔离(t *testing.T) {
	h := newHarness(t, nil)
	h.deps.TickConcurrency = 3
	putEconomy(h, 1, "ok-1", 1, 0, 0)
	putEconomy(h, 2, "broken", 1, 0, 0)
	putEconomy(h, 3, "ok-3", 1, 0, 0)
	h.store.Put(memory.Seed{Account: domain.Account{ID: 4, Name: "ghost"}, SkipStructures: true})
	h.store.FailOn("ApplyLedgerDelta#2", errors.New("row corrupted"))

	res, err := NewTurnService(h.deps).ProcessAllAccounts(context.Background())
	if err != nil {
		t.Fatalf("单个账号失败不应让整批失败, err=%v", err)
	}
	if res.AccountsProcessed != 2 || res.AccountsSkipped != 1 || res.AccountsFailed != 1 {
		t.Fatalf("统计不对: %+v", res)
	}
	if h.store.Ledger(1).Credits != 1000 || h.store.Ledger(3).Credits != 1000 {
		t.Fatalf("正常账号应拿到产出")
	}
	if h.store.Ledger(2).Credits != 0 || h.store.Stats(2).AttackTurns != 0 {
		t.Fatalf("失败账号的事务应整体回滚")
	}
}

func TestProcessAllAccounts_复用外层事务不自行提交(t *testing.T) {
	h := newHarness(t, nil)
	putEconomy(h, 1, "miner", 5, 0, 0)
	h.store.PutAlliance(domain.Alliance{ID: 1, Treasury: 1_000_000, InterestRate: 0.005})
	svc := NewTurnService(h.deps)

	abort := errors.New("outer abort")
	err := h.store.InTx(context.Background(), func(ctx context.Context) error {
		res, err := svc.ProcessAllAccounts(ctx)
		if err != nil {
			return err
		}
		if res.AccountsProcessed != 1 || res.AlliancesProcessed != 1 {
			t.Fatalf("外层事务内也应正常处理, got=%+v", res)
		}
		if got, _ := h.store.GetLedger(ctx, 1); got.Credits != 5000 {
			t.Fatalf("外层事务内应能看到写入, got=%d", got.Credits)
		}
		return abort
	})
	if !errors.Is(err, abort) {
		t.Fatalf("err=%v", err)
	}
	if got := h.store.Ledger(1).Credits; got != 0 {
		t.Fatalf("外层回滚后不应保留内层写入, got=%d", got)
	}
	if got := h.store.Alliance(1).Treasury; got != 1_000_000 {
		t.Fatalf("外层回滚后金库应不变, got=%d", got)
	}
}

func TestProcessAllAccounts_列表读取失败返回错误(t *testing.T) {
	h := newHarness(t, nil)
	h.store.FailOn("ListAccountIDs", errors.New("db down"))
	_, err := NewTurnService(h.deps).ProcessAllAccounts(context.Background())
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("期望 ErrPersistence, got=%v", err)
	}
}
