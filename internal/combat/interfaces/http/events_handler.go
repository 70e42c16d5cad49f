package http

import (
	"context"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/modules/kit/logx"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 200
)

// EventLister 归档事件查询，由 mongodb.EventArchive 实现。
type EventLister interface {
	ListByAccount(ctx context.Context, id domain.AccountID, limit int64) ([]domain.Event, error)
}

type EventsHandler struct {
	events EventLister
	log    logx.Logger
}

func NewEventsHandler(events EventLister, l logx.Logger) *EventsHandler {
	if l == nil {
		l = logx.Nop()
	}
	return &EventsHandler{events: events, log: l}
}

func (h *EventsHandler) Register(g *gin.RouterGroup) {
	g.GET("/combat/accounts/:id/events", h.list)
}

type eventDTO struct {
	ID         int64            `json:"id"`
	Kind       string           `json:"kind"`
	AttackerID int64            `json:"attacker_id"`
	DefenderID int64            `json:"defender_id"`
	ReportID   int64            `json:"report_id"`
	Result     string           `json:"result"`
	Numbers    map[string]int64 `json:"numbers,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// list limit 缺省 50，超过 200 按 200 处理。
func (h *EventsHandler) list(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(nethttp.StatusBadRequest, gin.H{"code": nethttp.StatusBadRequest, "msg": "invalid account id"})
		return
	}
	limit := int64(defaultEventLimit)
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || limit <= 0 {
			c.JSON(nethttp.StatusBadRequest, gin.H{"code": nethttp.StatusBadRequest, "msg": "invalid limit"})
			return
		}
		limit = min(limit, maxEventLimit)
	}

	events, err := h.events.ListByAccount(c.Request.Context(), domain.AccountID(id), limit)
	if err != nil {
		logx.ReportSysErrorWithLoggerContext(c.Request.Context(), h.log, logx.NewSysLog("combat.events.list", err),
			zap.Int64("account_id", id))
		c.JSON(nethttp.StatusInternalServerError, gin.H{"code": nethttp.StatusInternalServerError, "msg": "list events failed"})
		return
	}
	out := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		out = append(out, eventDTO{
			ID:         ev.ID,
			Kind:       string(ev.Kind),
			AttackerID: int64(ev.AttackerID),
			DefenderID: int64(ev.DefenderID),
			ReportID:   ev.ReportID,
			Result:     ev.Result,
			Numbers:    ev.Numbers,
			OccurredAt: ev.OccurredAt,
		})
	}
	c.JSON(nethttp.StatusOK, gin.H{"code": 0, "data": out})
}
