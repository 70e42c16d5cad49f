package http

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/app"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/infra/persistence/memory"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/gameconfig/balance"
)

func newTestRouter(store *memory.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewReplayHandler(app.NewReplayService(store, balance.Default()), nil).Register(engine.Group(""))
	return engine
}

func TestReplayHandler_复盘战报(t *testing.T) {
	store := memory.NewStore()
	err := store.SaveBattleReport(context.Background(), &domain.BattleReport{
		ID:           7,
		Mode:         domain.AttackPlunder,
		Result:       domain.BattleDefeat,
		OffensePower: 10,
		DefensePower: 20,
		AttackerXP:   balance.Default().Attack.XPDefeat,
		Seed:         99,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	w := httptest.NewRecorder()
	newTestRouter(store).ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/combat/battle-reports/7/replay", nil))
	if w.Code != nethttp.StatusOK {
		t.Fatalf("期望 200, got=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"consistent":true`) {
		t.Fatalf("期望复盘一致, body=%s", w.Body.String())
	}
}

func TestReplayHandler_参数与不存在(t *testing.T) {
	router := newTestRouter(memory.NewStore())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/combat/spy-reports/abc/replay", nil))
	if w.Code != nethttp.StatusBadRequest {
		t.Fatalf("期望 400, got=%d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/combat/spy-reports/5/replay", nil))
	if w.Code != nethttp.StatusNotFound {
		t.Fatalf("期望 404, got=%d", w.Code)
	}
}
