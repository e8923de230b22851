package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/commerce-backend/config"
	"github.com/dustin/commerce-backend/internal/health"
	"github.com/dustin/commerce-backend/pkg/logger"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

const serviceName = "commerce-backend"

// AdminActor is the actor type allowed on the admin routes.
const AdminActor = "user"

// Dependencies are the pieces the router is built from.
type Dependencies struct {
	Config *config.Config
	Health *health.Registry
	Logger *logger.Logger
	// StaticDir is served under /static when set.
	StaticDir string
	// HealthMaxAge makes the detailed health endpoints refresh reports older
	// than this before answering.
	HealthMaxAge time.Duration
}

// NewRouter mounts the HTTP surface allowed by the worker mode.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	cfg := deps.Config
	log := deps.Logger.WithComponent("http")

	router := gin.New()
	router.Use(requestid.New())
	router.Use(requestLogger(log))
	router.Use(gin.Recovery())

	h := &handlers{cfg: cfg, registry: deps.Health, maxAge: deps.HealthMaxAge}

	router.GET("/health", h.health)
	router.GET("/health/detailed", h.healthDetailed)

	if !cfg.Project.WorkerMode.ServesHTTP() {
		log.Info("Worker mode " + string(cfg.Project.WorkerMode.Resolve()) + ": only health endpoints are mounted")
		return router, nil
	}

	httpCfg := cfg.Project.HTTP
	audiences := []struct {
		name string
		list string
	}{
		{"store", httpCfg.StoreCORS},
		{"auth", httpCfg.AuthCORS},
		{"admin", httpCfg.AdminCORS},
	}
	groups := map[string]*gin.RouterGroup{}
	for _, a := range audiences {
		policy, err := ParseOrigins(a.list)
		if err != nil {
			return nil, fmt.Errorf("%s cors: %w", a.name, err)
		}
		if policy.Empty() {
			log.Warn("No origins allowed for " + a.name + " routes")
		}

		g := router.Group("/"+a.name, corsMiddleware(policy))
		g.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		groups[a.name] = g
	}

	groups["store"].GET("/info", h.storeInfo)

	groups["auth"].GET("/session", jwtMiddleware(httpCfg.JWTSecret, ""), h.session)

	admin := groups["admin"]
	admin.Use(jwtMiddleware(httpCfg.JWTSecret, AdminActor))
	admin.GET("/config", h.adminConfig)
	admin.GET("/health", h.healthDetailed)

	if !cfg.Admin.Disable {
		router.GET("/app", h.adminApp)
	}

	if deps.StaticDir != "" {
		router.Static("/static", deps.StaticDir)
	}

	return router, nil
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	zl := log.Zerolog()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		zl.Info().
			Str("request_id", requestid.Get(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
