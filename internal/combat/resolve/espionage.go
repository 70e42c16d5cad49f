package resolve

import (
	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/rng"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/gameconfig/balance"
)

type EspionageInput struct {
	SpyPower    int64
	SentryPower int64
	Spies       int64
	Sentries    int64
}

type EspionageOutcome struct {
	SuccessChance   float64
	DetectionChance float64
	Success         bool
	Detected        bool
	SpiesLost       int64
	SentriesLost    int64
	AttackerXP      int64
	DefenderXP      int64
}

// Chances 成功率与被发现率，两者分别裁剪。
//
//	success   = clamp(offShare * SuccessMultiplier, SuccessFloor, SuccessCap)
//	detection = clamp(defShare * CounterMultiplier, 0, CounterCap)
//
// 反谍战力为 0 时 offShare = 1。
func Chances(cfg balance.SpyConfig, spyPower, sentryPower int64) (success, detection float64) {
	off := float64(max(0, spyPower))
	def := float64(max(0, sentryPower))

	offShare, defShare := 1.0, 0.0
	if def > 0 {
		offShare = off / (off + def)
		defShare = def / (off + def)
	}
	success = clamp(offShare*cfg.SuccessMultiplier, cfg.SuccessFloor, cfg.SuccessCap)
	detection = clamp(defShare*cfg.CounterMultiplier, 0, cfg.CounterCap)
	return success, detection
}

// ResolveEspionage 两次独立判定：先成功判定，再发现判定；
// 只有被发现才结算双方损失（间谍先、哨兵后）。
func ResolveEspionage(cfg balance.SpyConfig, in EspionageInput, r rng.Source) EspionageOutcome {
	var out EspionageOutcome
	out.SuccessChance, out.DetectionChance = Chances(cfg, in.SpyPower, in.SentryPower)

	out.Success = r.Float64() < out.SuccessChance
	out.Detected = r.Float64() < out.DetectionChance

	if out.Detected {
		out.SpiesLost = RollCasualties(r, in.Spies, cfg.SpyLoss, 1)
		out.SentriesLost = RollCasualties(r, in.Sentries, cfg.SentryLoss, 1)
	}

	switch {
	case out.Detected:
		out.AttackerXP = cfg.XPCaught
		out.DefenderXP = cfg.XPDefenderCaught
	case out.Success:
		out.AttackerXP = cfg.XPSuccess
	default:
		out.AttackerXP = cfg.XPFailure
	}
	return out
}

// Intel 把防守方状态拍成情报快照。
func Intel(l domain.ResourceLedger, st domain.StructureLevels, offense, defense, spy, sentry int64) *domain.IntelSnapshot {
	structures := make(map[domain.StructureKind]int64, len(domain.AllStructures))
	for _, k := range domain.AllStructures {
		structures[k] = st.Level(k)
	}
	return &domain.IntelSnapshot{
		Credits:      l.Credits,
		Banked:       l.Banked,
		Gemstones:    l.Gemstones,
		Citizens:     l.Citizens,
		Workers:      l.Workers,
		Soldiers:     l.Soldiers,
		Guards:       l.Guards,
		Spies:        l.Spies,
		Sentries:     l.Sentries,
		OffensePower: offense,
		DefensePower: defense,
		SpyPower:     spy,
		SentryPower:  sentry,
		Structures:   structures,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
