package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/portfolio/stock/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/portfolio/stock/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}
	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/portfolio/stock/:id", "204")))
}

func TestObserversAndExposition(t *testing.T) {
	m := New()
	m.ObserveGateway("alphavantage", time.Now(), nil)
	m.ObserveGateway("alphavantage", time.Now(), errors.New("x"))
	m.ObserveCache("market:movers", "hit")
	m.ObserveEvent("position.merged", nil)
	m.SetPortfolio(3100.05, 2)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.GatewayRequests.WithLabelValues("alphavantage", "error")))
	assert.Equal(t, 3100.05, testutil.ToFloat64(m.PortfolioValue))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "galaxy_cache_results_total"))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ObserveGateway("x", time.Now(), nil) })
}
