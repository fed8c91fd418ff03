package handler

import (
	"context"
	"log/slog"
	"net/http"

	"forum_api/internal/middleware"
	"forum_api/internal/ratelimit"
	"forum_api/internal/utils"

	"github.com/gin-gonic/gin"
)

// RouterDeps is everything NewRouter wires together
type RouterDeps struct {
	Users        *UserHandler
	Questions    *QuestionHandler
	Answers      *AnswerHandler
	JWT          *utils.JWTUtil
	LoginLimiter *ratelimit.Limiter
	Logger       *slog.Logger
	// TrustedProxies may set the client IP through X-Forwarded-For; nil trusts none
	TrustedProxies []string
	// Health reports whether the database answers; nil means always healthy
	Health func(ctx context.Context) error
}

// NewRouter builds the gin engine with every API route under /api
func NewRouter(d RouterDeps) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.MaxMultipartMemory = 8 << 20
	if err := router.SetTrustedProxies(d.TrustedProxies); err != nil {
		d.Logger.Error("invalid trusted proxies, trusting none", "error", err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery(), middleware.RequestLogger(d.Logger), middleware.CORS())

	jwtAuthMW := middleware.JWTAuthMiddleware(d.JWT)
	loginMW := middleware.RateLimit(d.LoginLimiter, d.Logger)

	apiGroup := router.Group("/api")
	d.Users.RegisterUserRoutes(apiGroup, jwtAuthMW, loginMW)
	d.Questions.RegisterQuestionRoutes(apiGroup, jwtAuthMW)
	d.Answers.RegisterAnswerRoutes(apiGroup, jwtAuthMW)

	router.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c.Request.Context()); err != nil {
				d.Logger.Error("health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	return router
}
