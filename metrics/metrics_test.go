package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(Handler()))

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/items/:id", "204"))
	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/items/:id", "204"))
	assert.Equal(t, before+2, after)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(w.Body.String(), `http_requests_total{method="GET",route="/items/:id",status="204"}`))
}

func TestBusinessCounters(t *testing.T) {
	before := testutil.ToFloat64(uploadRowsParsedTotal)
	RecordUpload(true, 3)
	RecordUpload(false, 0)
	assert.Equal(t, before+3, testutil.ToFloat64(uploadRowsParsedTotal))

	loginsBefore := testutil.ToFloat64(authLoginsTotal.WithLabelValues("failure"))
	RecordLogin("failure")
	assert.Equal(t, loginsBefore+1, testutil.ToFloat64(authLoginsTotal.WithLabelValues("failure")))
}
