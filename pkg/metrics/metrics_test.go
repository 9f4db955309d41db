package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	r := New()

	r.Removals.Inc()
	r.Failures.WithLabelValues("remove", "no_replacement").Inc()
	r.Failures.WithLabelValues("remove", "no_replacement").Inc()
	r.Members.Set(18)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.Removals))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Failures.WithLabelValues("remove", "no_replacement")))
	assert.Equal(t, 18.0, testutil.ToFloat64(r.Members))
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.RosterLoads.WithLabelValues("file").Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `succession_roster_loads_total{source="file"} 1`)
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.Removals.Inc()

	assert.Equal(t, 0.0, testutil.ToFloat64(b.Removals))
}
