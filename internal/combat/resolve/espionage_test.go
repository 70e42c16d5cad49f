package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/rng"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/gameconfig/balance"
)

func TestChances_反谍为零时成功率封顶且不会被发现(t *testing.T) {
	cfg := balance.Default().Spy
	success, detection := Chances(cfg, 500, 0)
	assert.Equal(t, cfg.SuccessCap, success)
	assert.Less(t, success, 1.0)
	assert.Equal(t, 0.0, detection)
}

func TestChances_双方为零(t *testing.T) {
	cfg := balance.Default().Spy
	success, detection := Chances(cfg, 0, 0)
	assert.Equal(t, cfg.SuccessCap, success)
	assert.Equal(t, 0.0, detection)
}

func TestChances_下限与反谍上限(t *testing.T) {
	cfg := balance.Default().Spy
	success, detection := Chances(cfg, 1, 1_000_000)
	assert.Equal(t, cfg.SuccessFloor, success)
	assert.Equal(t, cfg.CounterCap, detection)
}

func TestResolveEspionage_成功且被发现(t *testing.T) {
	cfg := balance.Default().Spy
	in := EspionageInput{SpyPower: 100, SentryPower: 100, Spies: 100, Sentries: 100}
	// 成功判定 0.0 < 0.6；发现判定 0.0 < 0.5；两次损失各取 0.0（取区间下限）。
	out := ResolveEspionage(cfg, in, rng.NewFixed(0))
	require.True(t, out.Success)
	require.True(t, out.Detected)
	assert.Equal(t, int64(5), out.SpiesLost)
	assert.Equal(t, int64(1), out.SentriesLost)
	assert.Equal(t, cfg.XPCaught, out.AttackerXP)
	assert.Equal(t, cfg.XPDefenderCaught, out.DefenderXP)
}

func TestResolveEspionage_失败但未被发现(t *testing.T) {
	cfg := balance.Default().Spy
	in := EspionageInput{SpyPower: 100, SentryPower: 100, Spies: 100, Sentries: 100}
	r := rng.NewFixed(0.99)
	out := ResolveEspionage(cfg, in, r)
	assert.False(t, out.Success)
	assert.False(t, out.Detected)
	assert.Zero(t, out.SpiesLost)
	assert.Zero(t, out.SentriesLost)
	assert.Equal(t, cfg.XPFailure, out.AttackerXP)
	assert.Zero(t, out.DefenderXP)
	assert.Equal(t, 2, r.Draws(), "未被发现时不应再取伤亡随机数")
}

func TestResolveEspionage_成功未被发现(t *testing.T) {
	cfg := balance.Default().Spy
	in := EspionageInput{SpyPower: 100, SentryPower: 100, Spies: 100, Sentries: 100}
	out := ResolveEspionage(cfg, in, rng.NewFixed(0.1, 0.9))
	assert.True(t, out.Success)
	assert.False(t, out.Detected)
	assert.Equal(t, cfg.XPSuccess, out.AttackerXP)
}

func TestResolveEspionage_两次判定独立且收敛到配置概率(t *testing.T) {
	cfg := balance.Default().Spy
	in := EspionageInput{SpyPower: 300, SentryPower: 100, Spies: 10, Sentries: 10}
	wantSuccess, wantDetect := Chances(cfg, in.SpyPower, in.SentryPower)

	const trials = 20000
	r := rng.New(2024)
	var success, detected, both int
	for i := 0; i < trials; i++ {
		out := ResolveEspionage(cfg, in, r)
		if out.Success {
			success++
		}
		if out.Detected {
			detected++
		}
		if out.Success && out.Detected {
			both++
		}
	}
	ps := float64(success) / trials
	pd := float64(detected) / trials
	pb := float64(both) / trials
	assert.InDelta(t, wantSuccess, ps, 0.02)
	assert.InDelta(t, wantDetect, pd, 0.02)
	// 独立：P(成功且被发现) ≈ P(成功) * P(被发现)
	assert.InDelta(t, wantSuccess*wantDetect, pb, 0.02)
}

func TestIntel_包含全部建筑(t *testing.T) {
	l := domain.ResourceLedger{Credits: 10, Guards: 3}
	st := domain.StructureLevels{Levels: map[domain.StructureKind]int64{domain.StructureEconomy: 4}}
	intel := Intel(l, st, 1, 2, 3, 4)
	require.NotNil(t, intel)
	assert.Equal(t, int64(10), intel.Credits)
	assert.Equal(t, int64(4), intel.Structures[domain.StructureEconomy])
	assert.Len(t, intel.Structures, len(domain.AllStructures))
}
