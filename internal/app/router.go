package app

import (
	"lingochat_backend/docs"
	"lingochat_backend/internal/config"
	"lingochat_backend/internal/middleware"
	"lingochat_backend/internal/model"
	"lingochat_backend/internal/util"
	"lingochat_backend/pkg/monitoring"
	"lingochat_backend/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const apiBase = "/api/chat"

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = apiBase
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/api/health", c.health.HealthCheck)

	gateway := gatewayLimiter(cfg)

	api := router.Group(apiBase)
	{
		// 1. 账户
		a.registerAccountRoutes(api, c, cfg)

		// 2. 聊天：可选认证，token 中的用户作为缺省 userId
		api.POST("/chatbot", middleware.TryAuthMiddleware(cfg), gateway, c.chatbot.Chat)
		api.POST("/", middleware.TryAuthMiddleware(cfg), gateway, c.chatbot.Chat)
		api.GET("/history/:userId", c.chatbot.History)

		// 3. 练习
		a.registerPracticeRoutes(api, c, cfg, gateway)

		// 4. 仪表盘
		a.registerDashboardRoutes(api, c)
	}
}

func (a *App) registerAccountRoutes(rg *gin.RouterGroup, c *controllers, cfg *config.Config) {
	rg.POST("/login", c.account.Login)
	rg.POST("/logout", c.account.Logout)
	rg.POST("/usuarios", middleware.TryAuthMiddleware(cfg), c.account.CreateUser)

	if cfg.Auth.ProtectAdminRoutes {
		rg.GET("/usuarios",
			middleware.AuthMiddleware(cfg),
			middleware.RoleMiddleware(model.RoleAdmin),
			c.account.ListUsers,
		)
	} else {
		rg.GET("/usuarios", c.account.ListUsers)
	}
}

func (a *App) registerPracticeRoutes(rg *gin.RouterGroup, c *controllers, cfg *config.Config, gateway gin.HandlerFunc) {
	practice := rg.Group("/practice")
	{
		practice.POST("/start", middleware.TryAuthMiddleware(cfg), gateway, c.practice.StartPractice)
		practice.POST("/message", middleware.TryAuthMiddleware(cfg), gateway, c.practice.SendMessage)
		practice.POST("/end", c.practice.EndPractice)
		practice.GET("/summary/:sessionId", c.practice.GetSummary)
		practice.GET("/:userId", c.practice.ListByUser)
		practice.DELETE("/:id", c.practice.DeletePractice)
	}
}

func (a *App) registerDashboardRoutes(rg *gin.RouterGroup, c *controllers) {
	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("", c.dashboard.GetOverview)
		dashboard.GET("/active-users", c.dashboard.GetActiveUsers)
		dashboard.GET("/top-languages", c.dashboard.GetTopLanguages)
		dashboard.GET("/practices-per-day", c.dashboard.GetPracticesPerDay)
		dashboard.GET("/average-duration", c.dashboard.GetAverageDuration)

		// 旧版客户端路径
		dashboard.GET("/usuarios-activos", c.dashboard.GetActiveUsers)
		dashboard.GET("/top-idiomas", c.dashboard.GetTopLanguages)
		dashboard.GET("/practicas-por-dia", c.dashboard.GetPracticesPerDay)
		dashboard.GET("/promedio-duracion", c.dashboard.GetAverageDuration)
	}
}

// gatewayLimiter 会调用语言模型的接口共用一个限流器，登录用户按用户计数
func gatewayLimiter(cfg *config.Config) gin.HandlerFunc {
	if cfg.RateLimit.GatewayMaxRequests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	return security.KeyedRateLimiter("gateway", cfg.RateLimit.GatewayMaxRequests, window, gatewayKey)
}

func gatewayKey(c *gin.Context) string {
	if claims := util.GetUserFromContext(c); claims != nil && claims.UserID != "" {
		return "user:" + claims.UserID
	}
	return security.ClientIPKey(c)
}
