package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/resolve"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/rng"
)

// SpyOutcome 谍报的两次独立判定结果。
type SpyOutcome struct {
	Success  bool
	Detected bool
}

type SpyResult struct {
	Outcome  SpyOutcome
	ReportID int64
	// Intel 仅在成功时非 nil。
	Intel  *domain.IntelSnapshot
	Report domain.SpyReport
}

// SpyService 谍报结算，落库纪律与进攻一致：一次操作一个事务。
type SpyService struct {
	core
}

func NewSpyService(d Deps) *SpyService {
	return &SpyService{core: newCore(d)}
}

// ConductSpyOperation 派出全部间谍侦察目标。
func (s *SpyService) ConductSpyOperation(ctx context.Context, attackerID domain.AccountID, target string) (*SpyResult, error) {
	fields := []zap.Field{zap.Int64("attacker_id", int64(attackerID)), zap.String("target", target)}
	res, events, err := s.conduct(ctx, attackerID, target)
	if err != nil {
		return nil, s.finishErr(ctx, "combat.spy", err, fields...)
	}

	s.Publisher.Publish(ctx, events...)
	s.Metrics.ObserveSpy(res.Outcome.Success, res.Outcome.Detected)
	s.Log.WithContext(ctx).Info("spy operation resolved", append(fields,
		zap.Int64("defender_id", int64(res.Report.DefenderID)),
		zap.Bool("success", res.Outcome.Success),
		zap.Bool("detected", res.Outcome.Detected),
		zap.Float64("success_chance", res.Report.SuccessChance),
		zap.Float64("detection_chance", res.Report.DetectionChance),
		zap.Int64("report_id", res.ReportID),
		zap.Int64("seed", res.Report.Seed),
	)...)
	return res, nil
}

func (s *SpyService) conduct(ctx context.Context, attackerID domain.AccountID, target string) (*SpyResult, []domain.Event, error) {
	attacker, err := s.getAttacker(ctx, attackerID)
	if err != nil {
		return nil, nil, err
	}
	defender, err := s.resolveTarget(ctx, target)
	if err != nil {
		return nil, nil, err
	}
	if defender.ID == attacker.ID {
		return nil, nil, ErrSelfTarget.WithData("attacker_id", int64(attacker.ID))
	}

	var (
		res    SpyResult
		events []domain.Event
	)
	err = s.Repos.Tx.InTx(ctx, func(ctx context.Context) error {
		atk, def, err := s.loadPair(ctx, attacker.ID, defender.ID)
		if err != nil {
			return err
		}

		cost := s.Balance.Spy.TurnCost
		if atk.Ledger.Spies <= 0 {
			return ErrNoSpies.WithData("attacker_id", int64(attacker.ID))
		}
		if atk.Stats.AttackTurns < cost {
			return ErrInsufficientTurns.WithData("have", atk.Stats.AttackTurns).WithData("need", cost)
		}

		in := resolve.EspionageInput{
			SpyPower:    s.calc.SpyPower(atk, s.calc.ArmoryLookup(atk.Armory)),
			SentryPower: s.calc.SentryPower(def, s.calc.ArmoryLookup(def.Armory)),
			Spies:       atk.Ledger.Spies,
			Sentries:    def.Ledger.Sentries,
		}
		seed := s.Seeder.NextSeed()
		out := resolve.ResolveEspionage(s.Balance.Spy, in, rng.New(seed))

		rep := domain.SpyReport{
			ID:              s.IDs.NextID(),
			AttackerID:      attacker.ID,
			DefenderID:      defender.ID,
			Success:         out.Success,
			Detected:        out.Detected,
			SpyPower:        in.SpyPower,
			SentryPower:     in.SentryPower,
			SuccessChance:   out.SuccessChance,
			DetectionChance: out.DetectionChance,
			SpiesSent:       in.Spies,
			SentriesPosted:  in.Sentries,
			SpiesLost:       out.SpiesLost,
			SentriesLost:    out.SentriesLost,
			AttackerXP:      out.AttackerXP,
			DefenderXP:      out.DefenderXP,
			Seed:            seed,
			CreatedAt:       s.Now(),
		}
		if out.Success {
			p := s.calc.All(def)
			rep.Intel = resolve.Intel(def.Ledger, def.Structures, p.Offense, p.Defense, p.Spy, p.Sentry)
		}

		if err := s.apply(ctx, atk.Stats, def.Stats, cost, rep); err != nil {
			return err
		}

		evs := []domain.Event{spyEvent(s.IDs.NextID(), domain.EventSpyConcluded, rep)}
		if rep.Detected {
			evs = append(evs, spyEvent(s.IDs.NextID(), domain.EventSpyDetectedNotified, rep))
		}
		for _, ev := range evs {
			if err := s.Repos.Outbox.Append(ctx, ev); err != nil {
				return persistErr(ReasonOutboxWriteFail, err)
			}
		}

		res = SpyResult{
			Outcome:  SpyOutcome{Success: rep.Success, Detected: rep.Detected},
			ReportID: rep.ID,
			Intel:    rep.Intel,
			Report:   rep,
		}
		events = evs
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &res, events, nil
}

func (s *SpyService) apply(ctx context.Context, atkStats, defStats domain.CombatStats, cost int64, rep domain.SpyReport) error {
	if rep.SpiesLost > 0 {
		if err := s.Repos.Ledgers.ApplyLedgerDelta(ctx, rep.AttackerID, domain.LedgerDelta{Spies: -rep.SpiesLost}); err != nil {
			return persistErr(ReasonLedgerWriteFail, err)
		}
	}
	if err := s.Repos.Stats.ApplyStatsDelta(ctx, rep.AttackerID, domain.StatsDelta{
		Experience:  rep.AttackerXP,
		AttackTurns: -cost,
		Level:       s.levelAfter(atkStats, rep.AttackerXP),
	}); err != nil {
		return persistErr(ReasonStatsWriteFail, err)
	}

	if rep.SentriesLost > 0 {
		if err := s.Repos.Ledgers.ApplyLedgerDelta(ctx, rep.DefenderID, domain.LedgerDelta{Sentries: -rep.SentriesLost}); err != nil {
			return persistErr(ReasonLedgerWriteFail, err)
		}
	}
	if rep.DefenderXP > 0 {
		if err := s.Repos.Stats.ApplyStatsDelta(ctx, rep.DefenderID, domain.StatsDelta{
			Experience: rep.DefenderXP,
			Level:      s.levelAfter(defStats, rep.DefenderXP),
		}); err != nil {
			return persistErr(ReasonStatsWriteFail, err)
		}
	}

	if err := s.Repos.Reports.SaveSpyReport(ctx, &rep); err != nil {
		return persistErr(ReasonReportWriteFail, err)
	}
	return nil
}

func spyEvent(id int64, kind domain.EventKind, rep domain.SpyReport) domain.Event {
	result := "failure"
	if rep.Success {
		result = "success"
	}
	return domain.Event{
		ID:         id,
		Kind:       kind,
		AttackerID: rep.AttackerID,
		DefenderID: rep.DefenderID,
		ReportID:   rep.ID,
		Result:     result,
		Numbers: map[string]int64{
			"spy_power":     rep.SpyPower,
			"sentry_power":  rep.SentryPower,
			"spies_lost":    rep.SpiesLost,
			"sentries_lost": rep.SentriesLost,
			"detected":      boolInt(rep.Detected),
		},
		OccurredAt: rep.CreatedAt,
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
