package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/infra/persistence/memory"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/resolve"
)

func TestConductAttack_千兵对五百守卫胜利并落库(t *testing.T) {
	h := newHarness(t, flatBalance())
	h.put(1, "attacker", domain.ResourceLedger{Soldiers: 1000}, domain.CombatStats{AttackTurns: 5})
	h.put(2, "defender", domain.ResourceLedger{Guards: 500, Credits: 10000}, domain.CombatStats{NetWorth: 2000})
	svc := NewAttackService(h.deps)

	res, err := svc.ConductAttack(context.Background(), 1, "2", domain.AttackPlunder)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if res.Outcome != domain.BattleVictory {
		t.Fatalf("期望胜利, got=%v", res.Outcome)
	}
	if res.Report.OffensePower != 1000 || res.Report.DefensePower != 500 {
		t.Fatalf("战力不对: off=%d def=%d", res.Report.OffensePower, res.Report.DefensePower)
	}
	if l := res.Casualties.DefenderGuardsLost; l < 25 || l > 50 {
		t.Fatalf("守卫损失 %d 不在失败方区间 [25, 50]", l)
	}
	if l := res.Casualties.AttackerSoldiersLost; l < 10 || l > 50 {
		t.Fatalf("士兵损失 %d 不在胜利方区间 [10, 50]", l)
	}
	if res.Spoils.CreditsPlundered != 1000 || res.Spoils.AttackerCreditGain != 1000 || res.Spoils.NetWorthStolen != 100 {
		t.Fatalf("战利品不对: %+v", res.Spoils)
	}

	atk, def := h.store.Ledger(1), h.store.Ledger(2)
	if atk.Credits != 1000 || atk.Soldiers != 1000-res.Casualties.AttackerSoldiersLost {
		t.Fatalf("进攻方账本不对: %+v", atk)
	}
	if def.Credits != 9000 || def.Guards != 500-res.Casualties.DefenderGuardsLost {
		t.Fatalf("防守方账本不对: %+v", def)
	}

	as, ds := h.store.Stats(1), h.store.Stats(2)
	if as.AttackTurns != 4 || as.Experience != h.cfg.Attack.XPVictory || as.WarPrestige != h.cfg.Attack.PrestigeGain || as.NetWorth != 100 {
		t.Fatalf("进攻方属性不对: %+v", as)
	}
	if ds.NetWorth != 1900 || ds.Experience != h.cfg.Attack.XPDefender {
		t.Fatalf("防守方属性不对: %+v", ds)
	}

	reports := h.store.BattleReports()
	if len(reports) != 1 || reports[0].ID != res.ReportID {
		t.Fatalf("期望写入 1 份战报, got=%+v", reports)
	}
	outbox := h.store.OutboxEvents()
	if len(outbox) != 1 || outbox[0].Kind != domain.EventBattleConcluded || outbox[0].ReportID != res.ReportID {
		t.Fatalf("outbox 不对: %+v", outbox)
	}
	if got := h.pub.Events(); len(got) != 1 || got[0].ID != outbox[0].ID {
		t.Fatalf("期望提交后投递同一事件, got=%+v", got)
	}
}

func TestConductAttack_联盟成员掠夺抽税且守恒(t *testing.T) {
	h := newHarness(t, flatBalance())
	h.store.Put(memory.Seed{
		Account: domain.Account{ID: 1, Name: "attacker", AllianceID: 7},
		Ledger:  domain.ResourceLedger{Soldiers: 1000},
		Stats:   domain.CombatStats{AttackTurns: 1},
	})
	h.put(2, "defender", domain.ResourceLedger{Guards: 10, Credits: 10000}, domain.CombatStats{})
	h.store.PutAlliance(domain.Alliance{ID: 7, Name: "Vanguard", BattleTaxRate: 0.1, TributeTaxRate: 0.05})

	res, err := NewAttackService(h.deps).ConductAttack(context.Background(), 1, "defender", domain.AttackPlunder)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	sp := res.Spoils
	if sp.CreditsPlundered != sp.BattleTax+sp.TributeTax+sp.AttackerCreditGain {
		t.Fatalf("不守恒: %+v", sp)
	}
	if sp.BattleTax != 100 || sp.TributeTax != 50 || sp.AttackerCreditGain != 850 {
		t.Fatalf("税额不对: %+v", sp)
	}
	if got := h.store.Alliance(7).Treasury; got != 150 {
		t.Fatalf("期望金库 150, got=%d", got)
	}
	if got := h.store.Ledger(1).Credits; got != 850 {
		t.Fatalf("期望进攻方净得 850, got=%d", got)
	}

	logs := h.store.TreasuryLogs()
	if len(logs) != 2 {
		t.Fatalf("期望两条金库流水, got=%d", len(logs))
	}
	if logs[0].Kind != domain.TreasuryBattleTax || logs[0].Amount != 100 || logs[0].AccountID != 1 {
		t.Fatalf("战争税流水不对: %+v", logs[0])
	}
	if logs[1].Kind != domain.TreasuryTributeTax || logs[1].Amount != 50 {
		t.Fatalf("贡金流水不对: %+v", logs[1])
	}
}

func TestConductAttack_校验失败不写任何数据(t *testing.T) {
	cases := []struct {
		name     string
		attacker domain.AccountID
		target   string
		mode     domain.AttackMode
		want     error
	}{
		{"目标不存在", 1, "nobody", domain.AttackPlunder, ErrTargetNotFound},
		{"目标id不存在", 1, "999", domain.AttackPlunder, ErrTargetNotFound},
		{"攻击自己", 1, "1", domain.AttackPlunder, ErrSelfTarget},
		{"按名字攻击自己", 1, "attacker", domain.AttackPlunder, ErrSelfTarget},
		{"发起方不存在", 42, "2", domain.AttackPlunder, ErrAttackerNotFound},
		{"没有士兵", 3, "2", domain.AttackPlunder, ErrNoSoldiers},
		{"回合不足", 4, "2", domain.AttackPlunder, ErrInsufficientTurns},
		{"未知模式", 1, "2", domain.AttackMode("raid"), ErrUnknownMode},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.put(1, "attacker", domain.ResourceLedger{Soldiers: 100}, domain.CombatStats{AttackTurns: 5})
			h.put(2, "defender", domain.ResourceLedger{Guards: 100, Credits: 500}, domain.CombatStats{})
			h.put(3, "pacifist", domain.ResourceLedger{}, domain.CombatStats{AttackTurns: 5})
			h.put(4, "tired", domain.ResourceLedger{Soldiers: 100}, domain.CombatStats{AttackTurns: 0})

			_, err := NewAttackService(h.deps).ConductAttack(context.Background(), c.attacker, c.target, c.mode)
			if !errors.Is(err, c.want) {
				t.Fatalf("期望 %v, got=%v", c.want, err)
			}
			if !IsValidation(err) {
				t.Fatalf("期望校验类错误, got=%v", err)
			}
			if len(h.store.BattleReports()) != 0 || len(h.store.OutboxEvents()) != 0 || len(h.pub.Events()) != 0 {
				t.Fatalf("校验失败不应写战报/事件")
			}
			if got := h.store.Ledger(2); got.Credits != 500 || got.Guards != 100 {
				t.Fatalf("校验失败不应修改防守方, got=%+v", got)
			}
		})
	}
}

func TestConductAttack_写战报失败整体回滚(t *testing.T) {
	h := newHarness(t, flatBalance())
	h.put(1, "attacker", domain.ResourceLedger{Soldiers: 1000}, domain.CombatStats{AttackTurns: 5})
	h.put(2, "defender", domain.ResourceLedger{Guards: 500, Credits: 10000}, domain.CombatStats{NetWorth: 2000})
	h.store.FailOn("SaveBattleReport", errors.New("disk full"))

	res, err := NewAttackService(h.deps).ConductAttack(context.Background(), 1, "2", domain.AttackPlunder)
	if res != nil {
		t.Fatalf("失败时不应返回结果, got=%+v", res)
	}
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("期望 ErrPersistence, got=%v", err)
	}
	if GetErrorReasonCode(err) != ReasonReportWriteFail.Code {
		t.Fatalf("期望 reason=%s, got=%s", ReasonReportWriteFail.Code, GetErrorReasonCode(err))
	}
	if got := h.store.Ledger(1); got.Soldiers != 1000 || got.Credits != 0 {
		t.Fatalf("期望进攻方账本回滚, got=%+v", got)
	}
	if got := h.store.Ledger(2); got.Guards != 500 || got.Credits != 10000 {
		t.Fatalf("期望防守方账本回滚, got=%+v", got)
	}
	if got := h.store.Stats(1).AttackTurns; got != 5 {
		t.Fatalf("期望回合回滚, got=%d", got)
	}
	if len(h.store.OutboxEvents()) != 0 || len(h.pub.Events()) != 0 {
		t.Fatalf("回滚后不应有事件")
	}
}

func TestConductAttack_防守方聚合缺失(t *testing.T) {
	h := newHarness(t, nil)
	h.put(1, "attacker", domain.ResourceLedger{Soldiers: 10}, domain.CombatStats{AttackTurns: 5})
	h.store.Put(memory.Seed{Account: domain.Account{ID: 2, Name: "ghost"}, SkipStats: true})

	_, err := NewAttackService(h.deps).ConductAttack(context.Background(), 1, "ghost", domain.AttackPlunder)
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("期望 ErrDataIntegrity, got=%v", err)
	}
	if !errors.Is(err, domain.ErrStatsNotFound) {
		t.Fatalf("期望保留 cause 链, got=%v", err)
	}
}

func TestConductAttack_遭遇战不掠夺(t *testing.T) {
	h := newHarness(t, flatBalance())
	h.put(1, "attacker", domain.ResourceLedger{Soldiers: 1000}, domain.CombatStats{AttackTurns: 5})
	h.put(2, "defender", domain.ResourceLedger{Guards: 1, Credits: 10000}, domain.CombatStats{NetWorth: 2000})

	res, err := NewAttackService(h.deps).ConductAttack(context.Background(), 1, "2", domain.AttackSkirmish)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if res.Spoils.CreditsPlundered != 0 || res.Spoils.NetWorthStolen != 0 || res.Spoils.PrestigeGained != h.cfg.Attack.PrestigeGain {
		t.Fatalf("遭遇战只应获得声望, got=%+v", res.Spoils)
	}
	if got := h.store.Ledger(2).Credits; got != 10000 {
		t.Fatalf("防守方信用点不应减少, got=%d", got)
	}
}

func TestConductAttack_战报可复盘(t *testing.T) {
	h := newHarness(t, nil)
	h.put(1, "attacker", domain.ResourceLedger{Soldiers: 800}, domain.CombatStats{AttackTurns: 5, Strength: 3})
	h.put(2, "defender", domain.ResourceLedger{Guards: 790, Credits: 5000}, domain.CombatStats{NetWorth: 900})

	res, err := NewAttackService(h.deps).ConductAttack(context.Background(), 1, "2", domain.AttackPlunder)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	replayed := resolve.ReplayBattle(h.cfg.Attack, res.Report)
	if replayed.Result != res.Outcome ||
		replayed.AttackerLosses != res.Casualties.AttackerSoldiersLost ||
		replayed.DefenderLosses != res.Casualties.DefenderGuardsLost ||
		replayed.Spoils != res.Spoils {
		t.Fatalf("复盘不一致: replayed=%+v res=%+v", replayed, res)
	}
}

func TestConductAttack_并发攻击同一防守方不丢更新(t *testing.T) {
	h := newHarness(t, flatBalance())
	h.put(100, "defender", domain.ResourceLedger{Guards: 10, Credits: 1_000_000}, domain.CombatStats{NetWorth: 50_000})
	for i := 1; i <= 8; i++ {
		h.put(domain.AccountID(i), fmt.Sprintf("raider-%d", i), domain.ResourceLedger{Soldiers: 500}, domain.CombatStats{AttackTurns: 3})
	}
	svc := NewAttackService(h.deps)

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		for j := 0; j < 3; j++ {
			wg.Add(1)
			go func(id domain.AccountID) {
				defer wg.Done()
				if _, err := svc.ConductAttack(context.Background(), id, "100", domain.AttackPlunder); err != nil {
					t.Errorf("attacker %d: %v", id, err)
				}
			}(domain.AccountID(i))
		}
	}
	wg.Wait()

	var plundered, gained int64
	for _, r := range h.store.BattleReports() {
		plundered += r.CreditsPlundered
		gained += r.AttackerCreditGain
	}
	if got := h.store.Ledger(100).Credits; got != 1_000_000-plundered {
		t.Fatalf("防守方信用点 %d != 初始 - 掠夺总额 %d", got, 1_000_000-plundered)
	}
	var sum int64
	for i := 1; i <= 8; i++ {
		sum += h.store.Ledger(domain.AccountID(i)).Credits
	}
	if sum != gained {
		t.Fatalf("进攻方所得 %d != 战报记录 %d", sum, gained)
	}
	if n := len(h.store.BattleReports()); n != 24 {
		t.Fatalf("期望 24 份战报, got=%d", n)
	}
}
