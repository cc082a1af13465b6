package api

import (
	stdhttp "net/http"
	"time"

	intconfig "courses/internal/config"
	h "courses/internal/http/handlers"
	"courses/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(env intconfig.Env, log *zap.Logger, courses *h.CourseHandler, system *h.SystemHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, h.ErrorResponse{
			Status:    stdhttp.StatusNotFound,
			Message:   "route not found: " + c.Request.Method + " " + c.Request.URL.Path,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", system.Health)
		api.GET("/db-check", system.DBCheck)
		api.GET("/routes", system.Routes)

		guard := []gin.HandlerFunc{middleware.Auth(env.JWTSecret)}
		if env.JWTSecret != "" && len(env.JWTWriteRoles) > 0 {
			guard = append(guard, middleware.RequireRoles(env.JWTWriteRoles...))
		}
		courses.Register(api.Group("/courses"), guard...)
	}

	system.SetRouter(r)
	return r
}
