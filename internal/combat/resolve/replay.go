package resolve

import (
	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/rng"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/gameconfig/balance"
)

// ReplayBattle 用战报里记录的输入与种子重新结算一次。
// 平衡表需与当时一致，否则结果可能不同。
func ReplayBattle(cfg balance.AttackConfig, rep domain.BattleReport) BattleOutcome {
	in := BattleInput{
		Mode:             rep.Mode,
		OffensePower:     rep.OffensePower,
		DefensePower:     rep.DefensePower,
		SoldiersSent:     rep.SoldiersSent,
		GuardsDefending:  rep.GuardsDefending,
		DefenderCredits:  rep.DefenderCredits,
		DefenderNetWorth: rep.DefenderNetWorth,
		Allied:           rep.BattleTaxRate > 0 || rep.TributeTaxRate > 0,
		BattleTaxRate:    rep.BattleTaxRate,
		TributeTaxRate:   rep.TributeTaxRate,
	}
	return ResolveBattle(cfg, in, rng.New(rep.Seed))
}

func ReplayEspionage(cfg balance.SpyConfig, rep domain.SpyReport) EspionageOutcome {
	in := EspionageInput{
		SpyPower:    rep.SpyPower,
		SentryPower: rep.SentryPower,
		Spies:       rep.SpiesSent,
		Sentries:    rep.SentriesPosted,
	}
	return ResolveEspionage(cfg, in, rng.New(rep.Seed))
}
