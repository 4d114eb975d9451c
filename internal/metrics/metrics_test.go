package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidgetEvents(t *testing.T) {
	m := New()

	m.WidgetEvent("table", "sort")
	m.WidgetEvent("table", "sort")
	m.WidgetEvent("carousel", "next")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WidgetEvents.WithLabelValues("table", "sort")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WidgetEvents.WithLabelValues("carousel", "next")))
}

func TestIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.FixtureReloads.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.FixtureReloads))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.FixtureReloads))
}

func TestHandlerExposition(t *testing.T) {
	m := New()
	m.SessionsActive.Set(3)
	m.ObserveRequest(http.MethodPost, "/widgets/table/sort/{column}", http.StatusOK, 5*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, "widgetkit_sessions_active 3")
	assert.Contains(t, out, `route="/widgets/table/sort/{column}"`)
	assert.Contains(t, out, `route="unmatched"`)
	assert.True(t, strings.Contains(out, "go_goroutines"))
}
