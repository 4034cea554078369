package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"demodeck/internal/modal"
	"demodeck/internal/progress"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveProgress(t *testing.T) {
	m := New(false)
	em := m.ProgressEmitter()
	em.Emit(progress.Event{SimID: "upload", Status: progress.StatusRunning, Value: 40})
	em.Emit(progress.Event{SimID: "upload", Status: progress.StatusRunning, Value: 55})
	em.Emit(progress.Event{SimID: "upload", Status: progress.StatusDone, Value: 100})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.progressEvents.WithLabelValues("upload", "running")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.progressEvents.WithLabelValues("upload", "done")))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.progressValue.WithLabelValues("upload")))
}

func TestObserveModalAndRequest(t *testing.T) {
	m := New(false)
	m.ObserveModal(modal.KindSubscribe)
	m.ObserveModal(modal.KindSubscribe)
	m.ObserveRequest("env", http.MethodPost, 201)
	m.ObserveRequest("", http.MethodGet, 400)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.modalOpens.WithLabelValues("subscribe")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("env", "POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("none", "GET", "400")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveProgress(progress.Event{})
	m.ObserveModal(modal.KindAPIError)
	m.ObserveRequest("teams", "GET", 200)
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New(true)
	m.ObserveModal(modal.KindAddToCart)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `demodeck_modal_opens_total{kind="add-to-cart"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
