package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"resumeforge/internal/api/middleware"
	"resumeforge/internal/config"
	"resumeforge/internal/metrics"
	"resumeforge/internal/render"
	"resumeforge/internal/templates"
)

// Deps 汇总路由所需的外部依赖。Redis 为 nil 时不注册 WebSocket，也不限制导出频率。
type Deps struct {
	DB             *gorm.DB
	Templates      *templates.Service
	Queue          TaskEnqueuer
	Links          LinkSigner
	Redis          *redis.Client
	Logger         *slog.Logger
	Render         render.Options
	Export         config.ExportConfig
	AllowedOrigins []string
}

// NewRouter 构建 Gin 路由引擎并注册全部路由。
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(d.Logger),
		metrics.GinMiddleware(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	RegisterRoutes(router, d)
	return router
}

// RegisterRoutes 注册 /v1 下的业务路由。
func RegisterRoutes(router *gin.Engine, d Deps) {
	var limiter redisRateCounter
	if d.Redis != nil {
		limiter = d.Redis
	}

	templateHandler := NewTemplateHandler(d.Templates)
	renderHandler := NewRenderHandler(d.Templates, d.Render)
	resumeHandler := NewResumeHandler(d.DB, d.Templates, d.Queue, d.Links, limiter, d.Render, d.Export)

	v1 := router.Group("/v1")
	v1.Use(middleware.IdentityMiddleware())
	{
		if d.Redis != nil {
			wsHandler := NewWsHandler(d.Redis, d.Logger, d.AllowedOrigins)
			v1.GET("/ws", wsHandler.HandleConnection)
		}

		v1.POST("/render", renderHandler.Render)
		v1.POST("/render/html", renderHandler.RenderHTML)

		templateGroup := v1.Group("/templates")
		{
			templateGroup.GET("", templateHandler.ListTemplates)
			templateGroup.GET("/:id", templateHandler.GetTemplate)
			templateGroup.PUT("/:id", templateHandler.SaveTemplate)
			templateGroup.DELETE("/:id", templateHandler.DeleteTemplate)
			templateGroup.POST("/:id/clone", templateHandler.CloneTemplate)
			templateGroup.POST("/:id/ops", templateHandler.EditTemplate)
		}

		resumeGroup := v1.Group("/resumes")
		{
			resumeGroup.GET("", resumeHandler.ListResumes)
			resumeGroup.POST("", resumeHandler.CreateResume)
			resumeGroup.GET("/:id", resumeHandler.GetResume)
			resumeGroup.PUT("/:id", resumeHandler.UpdateResume)
			resumeGroup.DELETE("/:id", resumeHandler.DeleteResume)
			resumeGroup.GET("/:id/preview", resumeHandler.PreviewResume)
			resumeGroup.POST("/:id/export", resumeHandler.ExportResume)
			resumeGroup.GET("/:id/download-link", resumeHandler.GetDownloadLink)
		}
	}
}
