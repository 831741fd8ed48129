package routers

import (
	_ "github.com/haierkeys/note-tree-service/docs"
	"github.com/haierkeys/note-tree-service/internal/app"
	"github.com/haierkeys/note-tree-service/internal/middleware"
	"github.com/haierkeys/note-tree-service/internal/routers/api_router"
	"github.com/haierkeys/note-tree-service/internal/routers/websocket_router"
	"github.com/haierkeys/note-tree-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter 创建公开 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()
	lg := appContainer.Logger()

	methodLimiters := limiter.NewMethodLimiter()
	if cfg.Limiter.Enabled {
		methodLimiters.AddBuckets(cfg.GetLimiterRules()...)
	}

	events := websocket_router.NewEventsServer(appContainer.Events, lg, websocket_router.DefaultConfig())

	r := gin.New()
	r.Use(middleware.Cors())

	if cfg.Server.RunMode == gin.DebugMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(middleware.NewHTTPMetrics(nil).Handler())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(lg))
		api.Use(middleware.RecoveryWithLogger(lg))
		api.Use(middleware.RateLimiter(methodLimiters))

		healthHandler := api_router.NewHealthHandler(appContainer)
		api.GET("/health", healthHandler.Check)

		// 以下接口在配置了 security.auth-token 时需要认证
		api.Use(middleware.AuthTokenWithConfig(cfg.Security.AuthToken))

		// websocket 为长连接，不经过超时中间件
		api.GET("/notes/events", events.Run())

		api.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))

		noteHandler := api_router.NewNoteHandler(appContainer)
		imageHandler := api_router.NewImageHandler(appContainer)
		backupHandler := api_router.NewBackupHandler(appContainer)

		api.GET("/notes", noteHandler.List)
		api.POST("/notes", noteHandler.Create)
		api.GET("/notes/tree", noteHandler.Tree)
		api.GET("/notes/by-path", noteHandler.ByPath)
		api.GET("/notes/by-path/children", noteHandler.ChildrenByPath)
		api.GET("/notes/by-parent/:parentId", noteHandler.ByParent)
		api.GET("/notes/:id", noteHandler.Get)
		api.PUT("/notes/:id", noteHandler.Update)
		api.DELETE("/notes/:id", noteHandler.Delete)
		api.PATCH("/notes/:id/name", noteHandler.Rename)
		api.POST("/notes/:id/move", noteHandler.Move)
		api.GET("/notes/:id/path", noteHandler.Path)
		api.GET("/search", noteHandler.Search)

		api.POST("/images", imageHandler.Upload)
		api.GET("/images/:id", imageHandler.Get)

		api.POST("/admin/backup", backupHandler.Run)
	}

	r.NoRoute(middleware.LangWithTranslator(uni), middleware.NoFound())

	return r
}
