package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/app"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
)

// value 从 registry 中取某个指标在给定标签下的值（counter 或 histogram 样本数）。
func value(t *testing.T, r *Recorder, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := r.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			if h := m.GetHistogram(); h != nil {
				return float64(h.GetSampleCount())
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestRecorder_按标签计数(t *testing.T) {
	r := NewRecorder()
	r.ObserveAttack(domain.AttackPlunder, domain.BattleVictory)
	r.ObserveAttack(domain.AttackPlunder, domain.BattleVictory)
	r.ObserveAttack(domain.AttackSkirmish, domain.BattleDefeat)
	r.ObserveSpy(true, false)
	r.ObserveFailure("combat.attack")

	require.Equal(t, 2.0, value(t, r, "starlight_combat_attacks_total", map[string]string{"mode": "plunder", "result": "victory"}))
	require.Equal(t, 1.0, value(t, r, "starlight_combat_attacks_total", map[string]string{"mode": "skirmish", "result": "defeat"}))
	require.Equal(t, 1.0, value(t, r, "starlight_combat_spy_operations_total", map[string]string{"success": "true", "detected": "false"}))
	require.Equal(t, 1.0, value(t, r, "starlight_combat_failures_total", map[string]string{"op": "combat.attack"}))
}

func TestRecorder_回合结算汇总(t *testing.T) {
	r := NewRecorder()
	r.ObserveTick(150*time.Millisecond, app.TickResult{AccountsProcessed: 8, AccountsSkipped: 1, AccountsFailed: 2, AlliancesProcessed: 3})

	require.Equal(t, 8.0, value(t, r, "starlight_tick_accounts_total", map[string]string{"status": "processed"}))
	require.Equal(t, 1.0, value(t, r, "starlight_tick_accounts_total", map[string]string{"status": "skipped"}))
	require.Equal(t, 2.0, value(t, r, "starlight_tick_accounts_total", map[string]string{"status": "failed"}))
	require.Equal(t, 3.0, value(t, r, "starlight_tick_alliances_compounded_total", nil))
	require.Equal(t, 1.0, value(t, r, "starlight_tick_duration_seconds", nil))
}

func TestRecorder_Handler输出指标(t *testing.T) {
	r := NewRecorder()
	r.ObserveAttack(domain.AttackPlunder, domain.BattleStalemate)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `starlight_combat_attacks_total{mode="plunder",result="stalemate"} 1`))
}
