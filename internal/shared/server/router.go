package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/shared/config"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/server/middleware"
	"interview-backend/internal/shared/server/respond"
)

// Rate limit groups.
const (
	RateGroupAnswers = "ANSWERS"
)

const (
	healthPath  = "/api/v1/health"
	metricsPath = "/metrics"
)

// RouteRegistrar attaches a feature's routes to the API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// HealthReporter produces the /health payload.
type HealthReporter interface {
	Status(ctx context.Context) map[string]any
}

// RouterDeps holds everything NewRouter wires.
type RouterDeps struct {
	Config   config.Config
	Health   HealthReporter
	Handlers []RouteRegistrar
	// Limiter is shared across requests; nil builds a fresh one.
	Limiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Identity(healthPath, metricsPath),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    rateRules(deps.Config),
			GroupFor: rateGroup,
			Limiter:  deps.Limiter,
		}),
	)

	r.GET(metricsPath, metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := map[string]any{"ok": true}
		if deps.Health != nil {
			status = deps.Health.Status(c.Request.Context())
		}
		code := http.StatusOK
		if ok, _ := status["ok"].(bool); !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	registerMeRoutes(api)
	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	return r
}

func rateRules(cfg config.Config) map[string]middleware.RateLimitRule {
	rules := map[string]middleware.RateLimitRule{}
	if cfg.AnswerRatePerSecond > 0 && cfg.AnswerBurst > 0 {
		rules[RateGroupAnswers] = middleware.RateLimitRule{Rate: cfg.AnswerRatePerSecond, Burst: cfg.AnswerBurst}
	}
	return rules
}

// rateGroup limits answer submission only; everything else is unlimited.
func rateGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && strings.HasSuffix(c.FullPath(), "/interviews/:id/answers") {
		return RateGroupAnswers
	}
	return ""
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
