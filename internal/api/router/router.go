// Package router 组装 gin 引擎
package router

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/chirp/config"
	"github.com/d60-Lab/chirp/docs"
	"github.com/d60-Lab/chirp/internal/api/handler"
	"github.com/d60-Lab/chirp/internal/api/middleware"
	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/logger"
	"github.com/d60-Lab/chirp/pkg/metrics"
)

// Options 可选组件；nil 表示不启用
type Options struct {
	Metrics      *metrics.Metrics
	SentryEnable bool
}

func New(cfg *config.Config, svc *service.Services, opts Options) *gin.Engine {
	gin.SetMode(ginMode(cfg.Server.Mode))
	r := gin.New()
	r.Use(logger.GinRecovery(), logger.GinLogger())
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	if opts.SentryEnable {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	if cfg.Swagger.Enabled {
		docs.SwaggerInfo.BasePath = "/"
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if cfg.Metrics.Enabled && opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	h := handler.New(svc)
	requireAuth := middleware.Auth(svc.Auth)

	api := r.Group("/api")
	api.GET("/health", h.Health)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", requireAuth, h.Me)
		authGroup.POST("/logout", requireAuth, h.Logout)
	}

	users := api.Group("/users")
	{
		users.PUT("/profile", requireAuth, h.UpdateProfile)
		users.GET("/:username", h.GetUser)
		users.GET("/:username/tweets", h.UserTweets)
		users.GET("/:username/followers", h.ListFollowers)
		users.GET("/:username/following", h.ListFollowing)
		users.POST("/:username/follow", requireAuth, h.Follow)
		users.DELETE("/:username/unfollow", requireAuth, h.Unfollow)
	}

	tweets := api.Group("/tweets", requireAuth)
	{
		tweets.POST("", h.CreateTweet)
		tweets.GET("/timeline", h.Timeline)
		tweets.GET("/:id", h.GetTweet)
		tweets.DELETE("/:id", h.DeleteTweet)
		tweets.POST("/:id/like", h.Like)
		tweets.DELETE("/:id/unlike", h.Unlike)
	}
	return r
}

func ginMode(mode string) string {
	switch mode {
	case gin.ReleaseMode, gin.TestMode:
		return mode
	default:
		return gin.DebugMode
	}
}
