package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/classifier"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/ingest"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/logger"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/metrics"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/scheduler"
)

type fakeTrigger struct {
	report *ingest.RunReport
	err    error
}

func (f *fakeTrigger) TriggerNow(context.Context) (*ingest.RunReport, error) {
	return f.report, f.err
}

func newTestRouter(t *testing.T, trigger Trigger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cls := classifier.New(nil, classifier.DefaultWeights(), logger.NewNop())
	cls.Init(context.Background())

	registry := prometheus.NewRegistry()
	metrics.New(registry)

	router := gin.New()
	SetupRoutes(router, NewHandler(trigger, cls, logger.NewNop()), registry)
	return router
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, &fakeTrigger{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, string(classifier.StateDegraded), resp.Classifier)
}

func TestRunIngestion(t *testing.T) {
	report := &ingest.RunReport{
		Sources: []ingest.SourceReport{{Source: "topcv", Fetched: 3, Accepted: 2}},
	}
	router := newTestRouter(t, &fakeTrigger{report: report})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/run", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got ingest.RunReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Sources, 1)
	assert.Equal(t, "topcv", got.Sources[0].Source)
	assert.Equal(t, 2, got.Sources[0].Accepted)
}

func TestRunIngestion_Conflict(t *testing.T) {
	router := newTestRouter(t, &fakeTrigger{err: scheduler.ErrRunInProgress})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/run", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRunIngestion_Failure(t *testing.T) {
	router := newTestRouter(t, &fakeTrigger{err: errors.New("session exploded")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/run", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "session exploded")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeTrigger{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ingest_runs_started_total")
}
