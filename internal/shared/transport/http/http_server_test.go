package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mungus451/starlight-v2-sub001/modules/kit/logx"
)

func TestNewHttpServer_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", logx.Nop(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("unexpected status code: got=%d want=%d", w.Code, nethttp.StatusOK)
	}
}

func TestHealthz_探针失败返回503(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", logx.Nop(), nil)
	s.AddProbe("db", func(context.Context) error { return errors.New("connection refused") })

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/healthz", nil))

	if w.Code != nethttp.StatusServiceUnavailable {
		t.Fatalf("期望 503, got=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "connection refused") {
		t.Fatalf("期望返回失败原因, body=%s", w.Body.String())
	}
}

func TestMetrics_挂载指标处理器(t *testing.T) {
	gin.SetMode(gin.TestMode)

	metrics := nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		_, _ = w.Write([]byte("starlight_up 1\n"))
	})
	s := NewHttpServer(":0", logx.Nop(), metrics)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	if w.Code != nethttp.StatusOK || !strings.Contains(w.Body.String(), "starlight_up 1") {
		t.Fatalf("unexpected metrics response: %d %s", w.Code, w.Body.String())
	}
}
