// Package metrics 结算核心的 prometheus 指标。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/app"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
)

const namespace = "starlight"

// Recorder 实现 app.Recorder。每个 Recorder 持有独立的 registry，测试之间互不干扰。
type Recorder struct {
	reg *prometheus.Registry

	attacks      *prometheus.CounterVec
	spyOps       *prometheus.CounterVec
	failures     *prometheus.CounterVec
	tickDuration prometheus.Histogram
	tickAccounts *prometheus.CounterVec
	tickAllies   prometheus.Counter
}

var _ app.Recorder = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		attacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "combat",
			Name:      "attacks_total",
			Help:      "已结算的进攻次数，按模式与结果。",
		}, []string{"mode", "result"}),
		spyOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "combat",
			Name:      "spy_operations_total",
			Help:      "已结算的谍报次数，按成功与是否被发现。",
		}, []string{"success", "detected"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "combat",
			Name:      "failures_total",
			Help:      "持久化失败/数据不完整等系统错误次数。",
		}, []string{"op"}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tick",
			Name:      "duration_seconds",
			Help:      "一次回合结算的耗时。",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		tickAccounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tick",
			Name:      "accounts_total",
			Help:      "回合结算中的账号数，按处理结果。",
		}, []string{"status"}),
		tickAllies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tick",
			Name:      "alliances_compounded_total",
			Help:      "金库计息的联盟数。",
		}),
	}
	r.reg.MustRegister(
		r.attacks,
		r.spyOps,
		r.failures,
		r.tickDuration,
		r.tickAccounts,
		r.tickAllies,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ObserveAttack(mode domain.AttackMode, result domain.BattleResult) {
	r.attacks.WithLabelValues(string(mode), result.String()).Inc()
}

func (r *Recorder) ObserveSpy(success, detected bool) {
	r.spyOps.WithLabelValues(strconv.FormatBool(success), strconv.FormatBool(detected)).Inc()
}

func (r *Recorder) ObserveTick(elapsed time.Duration, res app.TickResult) {
	r.tickDuration.Observe(elapsed.Seconds())
	r.tickAccounts.WithLabelValues("processed").Add(float64(res.AccountsProcessed))
	r.tickAccounts.WithLabelValues("skipped").Add(float64(res.AccountsSkipped))
	r.tickAccounts.WithLabelValues("failed").Add(float64(res.AccountsFailed))
	r.tickAllies.Add(float64(res.AlliancesProcessed))
}

func (r *Recorder) ObserveFailure(op string) {
	r.failures.WithLabelValues(op).Inc()
}

// Handler /metrics 端点。
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}
