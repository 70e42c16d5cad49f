package http

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
)

type fakeEventLister struct {
	events    []domain.Event
	err       error
	gotID     domain.AccountID
	gotLimit  int64
	callCount int
}

func (f *fakeEventLister) ListByAccount(_ context.Context, id domain.AccountID, limit int64) ([]domain.Event, error) {
	f.callCount++
	f.gotID, f.gotLimit = id, limit
	return f.events, f.err
}

func newEventsRouter(f *fakeEventLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewEventsHandler(f, nil).Register(engine.Group(""))
	return engine
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, path, nil))
	return w
}

func TestEventsHandler_按账号列出事件(t *testing.T) {
	f := &fakeEventLister{events: []domain.Event{
		{ID: 2, Kind: domain.EventBattleConcluded, AttackerID: 3, DefenderID: 4, ReportID: 20, Result: "victory"},
		{ID: 1, Kind: domain.EventSpyDetectedNotified, AttackerID: 4, DefenderID: 3, ReportID: 10, Result: "caught"},
	}}

	w := get(newEventsRouter(f), "/combat/accounts/3/events?limit=5")
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())
	require.EqualValues(t, 3, f.gotID)
	require.EqualValues(t, 5, f.gotLimit)

	var body struct {
		Code int        `json:"code"`
		Data []eventDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.EqualValues(t, 2, body.Data[0].ID)
	require.Equal(t, string(domain.EventSpyDetectedNotified), body.Data[1].Kind)
}

func TestEventsHandler_limit缺省与上限(t *testing.T) {
	f := &fakeEventLister{}
	router := newEventsRouter(f)

	require.Equal(t, nethttp.StatusOK, get(router, "/combat/accounts/3/events").Code)
	require.EqualValues(t, defaultEventLimit, f.gotLimit)

	require.Equal(t, nethttp.StatusOK, get(router, "/combat/accounts/3/events?limit=100000").Code)
	require.EqualValues(t, maxEventLimit, f.gotLimit)
}

func TestEventsHandler_非法参数与存储失败(t *testing.T) {
	f := &fakeEventLister{}
	router := newEventsRouter(f)

	require.Equal(t, nethttp.StatusBadRequest, get(router, "/combat/accounts/abc/events").Code)
	require.Equal(t, nethttp.StatusBadRequest, get(router, "/combat/accounts/3/events?limit=-1").Code)
	require.Zero(t, f.callCount, "参数非法时不应查询")

	f.err = domain.ErrSystemUnavailable.WithCause(errors.New("mongo down"))
	require.Equal(t, nethttp.StatusInternalServerError, get(router, "/combat/accounts/3/events").Code)
}
