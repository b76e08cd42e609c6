package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpersWithoutGlobal(t *testing.T) {
	SetGlobal(nil)

	assert.NotPanics(t, func() {
		ObserveCompletion("ad_copy", "ok", 0.1)
		IncGenerations("fallback")
		IncCampaignsCreated()
		DecCampaignsActive()
		IncDeploys("ok")
		IncChatMessages()
		IncRateLimitExceeded()
		ObserveAPIRequest("GET", "/health", "200", 0.01)
	})
}

func TestHelpersRecordOnGlobal(t *testing.T) {
	m := New()
	SetGlobal(m)
	t.Cleanup(func() { SetGlobal(nil) })

	IncGenerations("fallback")
	IncGenerations("fallback")
	IncGenerations("generated")
	IncCampaignsCreated()
	IncCampaignsCreated()
	DecCampaignsActive()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("generated")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CampaignsCreatedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CampaignsActive))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.DeploysTotal.WithLabelValues("ok").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `adspark_deploys_total{result="ok"} 1`))
}
