package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handlers) HealthCheck(c *gin.Context) {
	log.Debug("Health check endpoint hit")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{"status": "ok", "message": "Fablemaze API is running", "database": "ok"}
	if h.Predictor != nil {
		body["predictor"] = h.Predictor.State()
	}

	if err := h.DB.PingContext(ctx); err != nil {
		log.Errorf("Health check: database ping failed: %v", err)
		body["status"] = "degraded"
		body["database"] = "unreachable"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}
