package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/chirp/pkg/apperr"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "conflict", Outcome(apperr.Conflict("Already liked this tweet")))
	assert.Equal(t, "not_found", Outcome(apperr.NotFound("Like not found")))
	assert.Equal(t, "storage", Outcome(errors.New("boom")))
}

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveMutation("like", nil)
	m.ObserveMutation("like", nil)
	m.ObserveMutation("like", apperr.Conflict("Already liked this tweet"))
	m.AddDrift("likes", 3)
	m.AddDrift("likes", 0)
	m.ObserveTimeline(5 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("like", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("like", "conflict")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.counterDrift.WithLabelValues("likes")))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "chirp_timeline_duration_seconds_count 1"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveMutation("follow", nil)
		m.ObserveTimeline(time.Second)
		m.AddDrift("followers", 1)
	})
}
