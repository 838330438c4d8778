package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/classifier"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/ingest"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/logger"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/scheduler"
)

// Trigger starts an ingestion run on demand. The scheduler owns the run
// lock, so manual and periodic triggers cannot overlap.
type Trigger interface {
	TriggerNow(ctx context.Context) (*ingest.RunReport, error)
}

// Handler handles HTTP requests for the ingestion service.
type Handler struct {
	trigger    Trigger
	classifier *classifier.InternClassifier
	logger     logger.Logger
	started    time.Time
}

// NewHandler creates a new API handler.
func NewHandler(trigger Trigger, cls *classifier.InternClassifier, log logger.Logger) *Handler {
	return &Handler{
		trigger:    trigger,
		classifier: cls,
		logger:     log,
		started:    time.Now(),
	}
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status     string `json:"status"`
	Classifier string `json:"classifier"`
	Uptime     string `json:"uptime"`
}

// HealthCheck reports service liveness. A degraded classifier is still
// healthy: the pipeline keeps running on the rule-based fallback.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:     "ok",
		Classifier: string(h.classifier.State()),
		Uptime:     time.Since(h.started).Round(time.Second).String(),
	})
}

// RunIngestion triggers a synchronous ingestion run and returns its report.
func (h *Handler) RunIngestion(c *gin.Context) {
	report, err := h.trigger.TriggerNow(c.Request.Context())
	if err != nil {
		if errors.Is(err, scheduler.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("manual ingestion run failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
