package server

import (
	"net/http"
	"time"

	"github.com/dustin/commerce-backend/config"
	"github.com/dustin/commerce-backend/internal/health"
	"github.com/gin-gonic/gin"
)

type handlers struct {
	cfg      *config.Config
	registry *health.Registry
	// maxAge bounds how old a report may be before a request refreshes it.
	// Zero serves the last report as is.
	maxAge time.Duration
}

func (h *handlers) service() string {
	if h.cfg.Logging.ServiceName != "" {
		return h.cfg.Logging.ServiceName
	}
	return serviceName
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now(),
		"service":     h.service(),
		"worker_mode": h.cfg.Project.WorkerMode.Resolve(),
	})
}

// healthDetailed reports the last probe run; 503 until every backend is up.
func (h *handlers) healthDetailed(c *gin.Context) {
	report := h.registry.Last()
	if h.maxAge > 0 {
		report = h.registry.Fresh(c.Request.Context(), h.maxAge)
	}

	status, code := "healthy", http.StatusOK
	switch {
	case report.RunID == "":
		status, code = "pending", http.StatusServiceUnavailable
	case !report.Healthy():
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now(),
		"service":   h.service(),
		"report":    report,
	})
}

func (h *handlers) storeInfo(c *gin.Context) {
	resp := gin.H{}
	if fp, ok := h.cfg.FileProvider(); ok {
		resp["file_provider"] = fp.Options.Kind()
		if local, ok := fp.Options.(config.LocalOptions); ok {
			resp["file_url"] = local.BackendURL
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) session(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No session"})
		return
	}

	resp := gin.H{
		"actor_id":   claims.ActorID,
		"actor_type": claims.ActorType,
	}
	if claims.ExpiresAt != nil {
		resp["expires_at"] = claims.ExpiresAt.Time
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) adminConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.cfg.Redacted())
}

func (h *handlers) adminApp(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"backend_url": h.cfg.Admin.BackendURL,
	})
}
