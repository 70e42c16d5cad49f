package http

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mungus451/starlight-v2-sub001/internal/shared/transport/http/middleware"
	"github.com/mungus451/starlight-v2-sub001/modules/kit/logx"
)

// Probe 就绪检查，返回错误时 /healthz 返回 503。
type Probe func(ctx context.Context) error

type Server struct {
	engine *gin.Engine
	group  *gin.RouterGroup
	srv    *nethttp.Server
	probes map[string]Probe
}

// NewHttpServer 运维端口：/healthz、/metrics，以及调用方挂载的只读路由。
func NewHttpServer(addr string, logger logx.Logger, metrics nethttp.Handler) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.AccessLog(logger))

	s := &Server{
		engine: engine,
		group:  engine.Group(""),
		probes: make(map[string]Probe),
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
	engine.GET("/healthz", s.healthz)
	if metrics != nil {
		engine.GET("/metrics", gin.WrapH(metrics))
	}
	return s
}

// AddProbe 在 Start 之前调用。
func (s *Server) AddProbe(name string, p Probe) {
	s.probes[name] = p
}

func (s *Server) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, p := range s.probes {
		if err := p(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		c.JSON(nethttp.StatusServiceUnavailable, gin.H{"status": "degraded", "failed": failed})
		return
	}
	c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
}

// Start 启动 HTTP 服务（阻塞）。关闭时返回 net/http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Group() *gin.RouterGroup {
	return s.group
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}
