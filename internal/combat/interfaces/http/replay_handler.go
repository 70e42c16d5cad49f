// Package http 结算核心的运维只读接口（战报复盘）。
package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/app"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/modules/kit/logx"
)

type Replayer interface {
	ReplayBattle(ctx context.Context, id int64) (*app.BattleReplay, error)
	ReplaySpy(ctx context.Context, id int64) (*app.SpyReplay, error)
}

type ReplayHandler struct {
	svc Replayer
	log logx.Logger
}

func NewReplayHandler(svc Replayer, l logx.Logger) *ReplayHandler {
	if l == nil {
		l = logx.Nop()
	}
	return &ReplayHandler{svc: svc, log: l}
}

func (h *ReplayHandler) Register(g *gin.RouterGroup) {
	g.GET("/combat/battle-reports/:id/replay", h.battle)
	g.GET("/combat/spy-reports/:id/replay", h.spy)
}

type battleReplayDTO struct {
	ReportID       int64  `json:"report_id"`
	Seed           int64  `json:"seed"`
	Consistent     bool   `json:"consistent"`
	Result         string `json:"result"`
	ReplayedResult string `json:"replayed_result"`
	AttackerLosses int64  `json:"attacker_losses"`
	DefenderLosses int64  `json:"defender_losses"`
	Plundered      int64  `json:"credits_plundered"`
}

type spyReplayDTO struct {
	ReportID         int64 `json:"report_id"`
	Seed             int64 `json:"seed"`
	Consistent       bool  `json:"consistent"`
	Success          bool  `json:"success"`
	Detected         bool  `json:"detected"`
	ReplayedSuccess  bool  `json:"replayed_success"`
	ReplayedDetected bool  `json:"replayed_detected"`
}

func (h *ReplayHandler) battle(c *gin.Context) {
	id, ok := reportID(c)
	if !ok {
		return
	}
	r, err := h.svc.ReplayBattle(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "combat.replay.battle", id, err)
		return
	}
	c.JSON(nethttp.StatusOK, gin.H{"code": 0, "data": battleReplayDTO{
		ReportID:       r.Report.ID,
		Seed:           r.Report.Seed,
		Consistent:     r.Consistent,
		Result:         r.Report.Result.String(),
		ReplayedResult: r.Replayed.Result.String(),
		AttackerLosses: r.Replayed.AttackerLosses,
		DefenderLosses: r.Replayed.DefenderLosses,
		Plundered:      r.Replayed.Spoils.CreditsPlundered,
	}})
}

func (h *ReplayHandler) spy(c *gin.Context) {
	id, ok := reportID(c)
	if !ok {
		return
	}
	r, err := h.svc.ReplaySpy(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "combat.replay.spy", id, err)
		return
	}
	c.JSON(nethttp.StatusOK, gin.H{"code": 0, "data": spyReplayDTO{
		ReportID:         r.Report.ID,
		Seed:             r.Report.Seed,
		Consistent:       r.Consistent,
		Success:          r.Report.Success,
		Detected:         r.Report.Detected,
		ReplayedSuccess:  r.Replayed.Success,
		ReplayedDetected: r.Replayed.Detected,
	}})
}

func reportID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(nethttp.StatusBadRequest, gin.H{"code": nethttp.StatusBadRequest, "msg": "invalid report id"})
		return 0, false
	}
	return id, true
}

func (h *ReplayHandler) fail(c *gin.Context, action string, id int64, err error) {
	if errors.Is(err, domain.ErrReportNotFound) {
		c.JSON(nethttp.StatusNotFound, gin.H{"code": nethttp.StatusNotFound, "msg": "report not found"})
		return
	}
	logx.ReportSysErrorWithLoggerContext(c.Request.Context(), h.log, logx.NewSysLog(action, err), zap.Int64("report_id", id))
	c.JSON(nethttp.StatusInternalServerError, gin.H{"code": nethttp.StatusInternalServerError, "msg": "replay failed"})
}
