package mysql

import (
	"time"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/infra/persistence/model"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/gameconfig/balance"
)

func accountToDomain(m model.Account) domain.Account {
	return domain.Account{ID: domain.AccountID(m.ID), Name: m.Name, AllianceID: domain.AllianceID(m.AllianceID)}
}

func ledgerToDomain(m model.Ledger) domain.ResourceLedger {
	return domain.ResourceLedger{
		AccountID: domain.AccountID(m.AccountID),
		Credits:   m.Credits,
		Banked:    m.Banked,
		Gemstones: m.Gemstones,
		Citizens:  m.Citizens,
		Workers:   m.Workers,
		Soldiers:  m.Soldiers,
		Guards:    m.Guards,
		Spies:     m.Spies,
		Sentries:  m.Sentries,
	}
}

func statsToDomain(m model.Stats) domain.CombatStats {
	return domain.CombatStats{
		AccountID:    domain.AccountID(m.AccountID),
		Level:        m.Level,
		Experience:   m.Experience,
		NetWorth:     m.NetWorth,
		WarPrestige:  m.WarPrestige,
		AttackTurns:  m.AttackTurns,
		Strength:     m.Strength,
		Constitution: m.Constitution,
		Wealth:       m.Wealth,
		Dexterity:    m.Dexterity,
		Charisma:     m.Charisma,
	}
}

func structuresToDomain(m model.Structures) domain.StructureLevels {
	return domain.StructureLevels{
		AccountID: domain.AccountID(m.AccountID),
		Levels: map[domain.StructureKind]int64{
			domain.StructureOffense:       m.Offense,
			domain.StructureDefense:       m.Defense,
			domain.StructureFortification: m.Fortification,
			domain.StructureEconomy:       m.Economy,
			domain.StructurePopulation:    m.Population,
			domain.StructureArmory:        m.Armory,
			domain.StructureSpy:           m.Spy,
			domain.StructureSentry:        m.Sentry,
		},
	}
}

func armoryToDomain(id domain.AccountID, stock []model.ArmoryStock, loadout []model.ArmoryLoadout) domain.Armory {
	a := domain.Armory{
		AccountID: id,
		Stock:     make(map[string]int64, len(stock)),
		Loadout:   make(map[domain.LoadoutSlot]string, len(loadout)),
	}
	for _, s := range stock {
		a.Stock[s.ItemKey] = s.Quantity
	}
	for _, l := range loadout {
		a.Loadout[domain.LoadoutSlot{Unit: balance.Unit(l.Unit), Slot: l.Slot}] = l.ItemKey
	}
	return a
}

func allianceToDomain(m model.Alliance) domain.Alliance {
	a := domain.Alliance{
		ID:             domain.AllianceID(m.ID),
		Name:           m.Name,
		Treasury:       m.Treasury,
		BattleTaxRate:  m.BattleTaxRate,
		TributeTaxRate: m.TributeTaxRate,
		InterestRate:   m.InterestRate,
	}
	if m.LastCompoundedAt != nil {
		a.LastCompoundedAt = *m.LastCompoundedAt
	}
	return a
}

func treasuryLogToModel(l domain.TreasuryLog) model.TreasuryLog {
	return model.TreasuryLog{
		ID:         l.ID,
		AllianceID: int64(l.AllianceID),
		AccountID:  int64(l.AccountID),
		Kind:       string(l.Kind),
		Amount:     l.Amount,
		Note:       l.Note,
		CreatedAt:  l.CreatedAt,
	}
}

func battleReportToModel(r *domain.BattleReport) model.BattleReport {
	return model.BattleReport{
		ID:                 r.ID,
		AttackerID:         int64(r.AttackerID),
		DefenderID:         int64(r.DefenderID),
		Mode:               string(r.Mode),
		Result:             int8(r.Result),
		OffensePower:       r.OffensePower,
		DefensePower:       r.DefensePower,
		SoldiersSent:       r.SoldiersSent,
		GuardsDefending:    r.GuardsDefending,
		DefenderCredits:    r.DefenderCredits,
		DefenderNetWorth:   r.DefenderNetWorth,
		BattleTaxRate:      r.BattleTaxRate,
		TributeTaxRate:     r.TributeTaxRate,
		AttackerLosses:     r.AttackerLosses,
		DefenderLosses:     r.DefenderLosses,
		CreditsPlundered:   r.CreditsPlundered,
		BattleTax:          r.BattleTax,
		TributeTax:         r.TributeTax,
		AttackerCreditGain: r.AttackerCreditGain,
		NetWorthStolen:     r.NetWorthStolen,
		PrestigeGained:     r.PrestigeGained,
		AttackerXP:         r.AttackerXP,
		DefenderXP:         r.DefenderXP,
		Seed:               r.Seed,
		CreatedAt:          r.CreatedAt,
	}
}

func battleReportToDomain(m model.BattleReport) domain.BattleReport {
	return domain.BattleReport{
		ID:                 m.ID,
		AttackerID:         domain.AccountID(m.AttackerID),
		DefenderID:         domain.AccountID(m.DefenderID),
		Mode:               domain.AttackMode(m.Mode),
		Result:             domain.BattleResult(m.Result),
		OffensePower:       m.OffensePower,
		DefensePower:       m.DefensePower,
		SoldiersSent:       m.SoldiersSent,
		GuardsDefending:    m.GuardsDefending,
		DefenderCredits:    m.DefenderCredits,
		DefenderNetWorth:   m.DefenderNetWorth,
		BattleTaxRate:      m.BattleTaxRate,
		TributeTaxRate:     m.TributeTaxRate,
		AttackerLosses:     m.AttackerLosses,
		DefenderLosses:     m.DefenderLosses,
		CreditsPlundered:   m.CreditsPlundered,
		BattleTax:          m.BattleTax,
		TributeTax:         m.TributeTax,
		AttackerCreditGain: m.AttackerCreditGain,
		NetWorthStolen:     m.NetWorthStolen,
		PrestigeGained:     m.PrestigeGained,
		AttackerXP:         m.AttackerXP,
		DefenderXP:         m.DefenderXP,
		Seed:               m.Seed,
		CreatedAt:          m.CreatedAt,
	}
}

func spyReportToModel(r *domain.SpyReport) model.SpyReport {
	m := model.SpyReport{
		ID:              r.ID,
		AttackerID:      int64(r.AttackerID),
		DefenderID:      int64(r.DefenderID),
		Success:         r.Success,
		Detected:        r.Detected,
		SpyPower:        r.SpyPower,
		SentryPower:     r.SentryPower,
		SuccessChance:   r.SuccessChance,
		DetectionChance: r.DetectionChance,
		SpiesSent:       r.SpiesSent,
		SentriesPosted:  r.SentriesPosted,
		SpiesLost:       r.SpiesLost,
		SentriesLost:    r.SentriesLost,
		AttackerXP:      r.AttackerXP,
		DefenderXP:      r.DefenderXP,
		Seed:            r.Seed,
		CreatedAt:       r.CreatedAt,
	}
	if in := r.Intel; in != nil {
		structures := make(map[string]int64, len(in.Structures))
		for k, v := range in.Structures {
			structures[string(k)] = v
		}
		m.Intel = &model.Intel{
			Credits:      in.Credits,
			Banked:       in.Banked,
			Gemstones:    in.Gemstones,
			Citizens:     in.Citizens,
			Workers:      in.Workers,
			Soldiers:     in.Soldiers,
			Guards:       in.Guards,
			Spies:        in.Spies,
			Sentries:     in.Sentries,
			OffensePower: in.OffensePower,
			DefensePower: in.DefensePower,
			SpyPower:     in.SpyPower,
			SentryPower:  in.SentryPower,
			Structures:   structures,
		}
	}
	return m
}

func spyReportToDomain(m model.SpyReport) domain.SpyReport {
	r := domain.SpyReport{
		ID:              m.ID,
		AttackerID:      domain.AccountID(m.AttackerID),
		DefenderID:      domain.AccountID(m.DefenderID),
		Success:         m.Success,
		Detected:        m.Detected,
		SpyPower:        m.SpyPower,
		SentryPower:     m.SentryPower,
		SuccessChance:   m.SuccessChance,
		DetectionChance: m.DetectionChance,
		SpiesSent:       m.SpiesSent,
		SentriesPosted:  m.SentriesPosted,
		SpiesLost:       m.SpiesLost,
		SentriesLost:    m.SentriesLost,
		AttackerXP:      m.AttackerXP,
		DefenderXP:      m.DefenderXP,
		Seed:            m.Seed,
		CreatedAt:       m.CreatedAt,
	}
	if in := m.Intel; in != nil {
		structures := make(map[domain.StructureKind]int64, len(in.Structures))
		for k, v := range in.Structures {
			structures[domain.StructureKind(k)] = v
		}
		r.Intel = &domain.IntelSnapshot{
			Credits:      in.Credits,
			Banked:       in.Banked,
			Gemstones:    in.Gemstones,
			Citizens:     in.Citizens,
			Workers:      in.Workers,
			Soldiers:     in.Soldiers,
			Guards:       in.Guards,
			Spies:        in.Spies,
			Sentries:     in.Sentries,
			OffensePower: in.OffensePower,
			DefensePower: in.DefensePower,
			SpyPower:     in.SpyPower,
			SentryPower:  in.SentryPower,
			Structures:   structures,
		}
	}
	return r
}

func eventToModel(e domain.Event) model.OutboxEvent {
	return model.OutboxEvent{
		ID:         e.ID,
		Kind:       string(e.Kind),
		AttackerID: int64(e.AttackerID),
		DefenderID: int64(e.DefenderID),
		ReportID:   e.ReportID,
		Result:     e.Result,
		Numbers:    e.Numbers,
		OccurredAt: e.OccurredAt,
	}
}

func eventToDomain(m model.OutboxEvent) domain.Event {
	return domain.Event{
		ID:         m.ID,
		Kind:       domain.EventKind(m.Kind),
		AttackerID: domain.AccountID(m.AttackerID),
		DefenderID: domain.AccountID(m.DefenderID),
		ReportID:   m.ReportID,
		Result:     m.Result,
		Numbers:    m.Numbers,
		OccurredAt: m.OccurredAt,
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
