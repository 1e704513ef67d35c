package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobs-backend/internal/admin"
	"jobs-backend/internal/applications"
	"jobs-backend/internal/jobs"
	"jobs-backend/internal/services/health"
	"jobs-backend/internal/shared/config"
	"jobs-backend/internal/shared/metrics"
	"jobs-backend/internal/shared/server/middleware"
	"jobs-backend/internal/shared/server/respond"
)

const (
	loginGroup   = "LOGIN"
	defaultGroup = "DEFAULT"
	loginPath    = "/api/v1/auth/login"
)

// RouterDeps bundles the handlers mounted by NewRouter.
type RouterDeps struct {
	Config              config.Config
	Verifier            middleware.TokenVerifier
	Health              *health.Service
	AuthHandler         *admin.AuthHandler
	AdminHandler        *admin.Handler
	JobsHandler         *jobs.Handler
	ApplicationsHandler *applications.Handler
	RateLimiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		metrics.Middleware(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: defaultGroup,
			GroupFor:     rateLimitGroup,
			Limiter:      deps.RateLimiter,
			Rules: map[string]middleware.RateLimitRule{
				loginGroup:   {Rate: 5.0 / 60.0, Burst: 5},
				defaultGroup: {Rate: 20, Burst: 40},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		ok, checks := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, gin.H{"ok": ok, "checks": checks})
	})
	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterRoutes(api)
	}

	protected := api.Group("/admin", middleware.Auth(deps.Verifier))
	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterAdminRoutes(protected)
	}
	if deps.AdminHandler != nil {
		deps.AdminHandler.RegisterRoutes(protected)
	}
	if deps.JobsHandler != nil {
		deps.JobsHandler.RegisterRoutes(protected)
	}
	if deps.ApplicationsHandler != nil {
		deps.ApplicationsHandler.RegisterRoutes(protected)
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == loginPath {
		return loginGroup
	}
	return defaultGroup
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
