// Package metrics exposes Prometheus counters for simulator runs, modal
// opens and proxy requests on a private registry.
package metrics

import (
	"net/http"
	"strconv"

	"demodeck/internal/modal"
	"demodeck/internal/progress"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "demodeck"

// Metrics owns a registry and the collectors registered on it.
type Metrics struct {
	Registry *prom.Registry

	progressEvents *prom.CounterVec
	progressValue  *prom.GaugeVec
	modalOpens     *prom.CounterVec
	apiRequests    *prom.CounterVec
}

// New creates and registers all collectors. withRuntime adds the Go and
// process collectors, which the tests leave out.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		Registry: prom.NewRegistry(),
		progressEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "progress_events_total",
			Help:      "Simulator events by simulator and status",
		}, []string{"sim", "status"}),
		progressValue: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "progress_value",
			Help:      "Last reported progress percentage per simulator",
		}, []string{"sim"}),
		modalOpens: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "modal_opens_total",
			Help:      "Modals opened by kind",
		}, []string{"kind"}),
		apiRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Proxy requests by action, method and response code",
		}, []string{"action", "method", "code"}),
	}
	m.Registry.MustRegister(m.progressEvents, m.progressValue, m.modalOpens, m.apiRequests)
	if withRuntime {
		m.Registry.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	}
	return m
}

// ObserveProgress records a simulator event. It has the progress.FuncEmitter
// signature so it can sit in a MultiEmitter.
func (m *Metrics) ObserveProgress(ev progress.Event) {
	if m == nil {
		return
	}
	m.progressEvents.WithLabelValues(ev.SimID, string(ev.Status)).Inc()
	m.progressValue.WithLabelValues(ev.SimID).Set(ev.Value)
}

// ProgressEmitter returns ObserveProgress as a progress.Emitter.
func (m *Metrics) ProgressEmitter() progress.Emitter {
	return progress.FuncEmitter(m.ObserveProgress)
}

// ObserveModal records a modal open; suitable for modal.WithOpenHook.
func (m *Metrics) ObserveModal(kind modal.Kind) {
	if m == nil {
		return
	}
	m.modalOpens.WithLabelValues(string(kind)).Inc()
}

// ObserveRequest records one proxy request.
func (m *Metrics) ObserveRequest(action, method string, code int) {
	if m == nil {
		return
	}
	if action == "" {
		action = "none"
	}
	m.apiRequests.WithLabelValues(action, method, strconv.Itoa(code)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
