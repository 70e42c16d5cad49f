package app

import (
	"context"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/resolve"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/gameconfig/balance"
)

// BattleReplay 历史战报与用相同输入、种子重新结算的结果。
// Consistent 为 false 说明平衡表已变更或战报被改写。
type BattleReplay struct {
	Report     domain.BattleReport
	Replayed   resolve.BattleOutcome
	Consistent bool
}

type SpyReplay struct {
	Report     domain.SpyReport
	Replayed   resolve.EspionageOutcome
	Consistent bool
}

type ReplayService struct {
	reports ReportReader
	balance *balance.Config
}

func NewReplayService(reports ReportReader, cfg *balance.Config) *ReplayService {
	return &ReplayService{reports: reports, balance: cfg}
}

func (s *ReplayService) ReplayBattle(ctx context.Context, id int64) (*BattleReplay, error) {
	rep, err := s.reports.GetBattleReport(ctx, id)
	if err != nil {
		return nil, err
	}
	out := resolve.ReplayBattle(s.balance.Attack, rep)
	return &BattleReplay{
		Report:   rep,
		Replayed: out,
		Consistent: out.Result == rep.Result &&
			out.AttackerLosses == rep.AttackerLosses &&
			out.DefenderLosses == rep.DefenderLosses &&
			out.Spoils.CreditsPlundered == rep.CreditsPlundered &&
			out.Spoils.AttackerCreditGain == rep.AttackerCreditGain &&
			out.AttackerXP == rep.AttackerXP,
	}, nil
}

func (s *ReplayService) ReplaySpy(ctx context.Context, id int64) (*SpyReplay, error) {
	rep, err := s.reports.GetSpyReport(ctx, id)
	if err != nil {
		return nil, err
	}
	out := resolve.ReplayEspionage(s.balance.Spy, rep)
	return &SpyReplay{
		Report:   rep,
		Replayed: out,
		Consistent: out.Success == rep.Success &&
			out.Detected == rep.Detected &&
			out.SpiesLost == rep.SpiesLost &&
			out.SentriesLost == rep.SentriesLost,
	}, nil
}
