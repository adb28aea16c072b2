package app

import (
	"context"
	"fmt"
	"lingochat_backend/internal/config"
	"lingochat_backend/internal/controller"
	"lingochat_backend/internal/model"
	"lingochat_backend/internal/repository"
	"lingochat_backend/internal/service"
	"lingochat_backend/pkg/configwatcher"
	"lingochat_backend/pkg/database"
	"lingochat_backend/pkg/logger"
	"lingochat_backend/pkg/monitoring"
	"lingochat_backend/pkg/security"
	"lingochat_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	// ConfigDir 热更新监听的配置目录，为空时不监听
	ConfigDir string

	services *services
	tracer   *sdktrace.TracerProvider

	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

// Dependencies 外部能力，测试时可替换为假实现
type Dependencies struct {
	Gateway service.ChatCompleter
	Mailer  service.Mailer
}

type repositories struct {
	user         *repository.UserRepository
	practice     *repository.PracticeRepository
	conversation *repository.ConversationRepository
	dashboard    *repository.DashboardRepository
}

type services struct {
	ai        *service.AIService
	prompts   *service.PromptService
	auth      *service.AuthService
	practice  *service.PracticeService
	chatbot   *service.ChatbotService
	dashboard *service.DashboardService
	storage   *service.StorageService
	digest    *service.DigestService
}

type controllers struct {
	account   *controller.AccountController
	chatbot   *controller.ChatbotController
	practice  *controller.PracticeController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		practice:     repository.NewPracticeRepository(db),
		conversation: repository.NewConversationRepository(db),
		dashboard:    repository.NewDashboardRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client, deps Dependencies) (*services, error) {
	s := &services{}

	prompts, err := service.NewPromptService(cfg.Practice, cfg.Chat)
	if err != nil {
		return nil, err
	}
	s.prompts = prompts

	gateway := deps.Gateway
	if gateway == nil {
		s.ai = service.NewAIService(cfg.AI)
		gateway = s.ai
		a.RegisterConfigCallback(func(newCfg *config.Config) {
			s.ai.UpdateConfig(newCfg.AI)
		})
	}

	mailer := deps.Mailer
	if mailer == nil {
		mailer = service.NewMailer(cfg.Mail)
	}

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	s.auth = service.NewAuthService(repos.user, cfg)
	s.practice = service.NewPracticeService(repos.practice, gateway, prompts, cfg.Practice)
	s.chatbot = service.NewChatbotService(repos.conversation, gateway, prompts, cfg.Chat)
	s.dashboard = service.NewDashboardService(repos.dashboard, repos.user, repos.conversation, rdb, cfg.Dashboard)

	s.digest, err = service.NewDigestService(s.chatbot, repos.user, mailer, storage, cfg.Mail)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		account:   controller.NewAccountController(s.auth, s.digest),
		chatbot:   controller.NewChatbotController(s.chatbot),
		practice:  controller.NewPracticeController(s.practice),
		dashboard: controller.NewDashboardController(s.dashboard),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 基于已打开的存储构建应用，不做任何进程级初始化
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, deps Dependencies) (*App, error) {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb, deps)
	if err != nil {
		return nil, err
	}
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app, nil
}

// NewApp 进程入口：初始化日志、数据库、缓存与追踪后构建应用
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode
	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app, err := New(cfg, db, rdb, Dependencies{})
	if err != nil {
		logger.Log.Fatal("Failed to initialize application", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// SendDigest 不经过登出直接发送某用户今天的摘要
func (a *App) SendDigest(ctx context.Context, userID string) (bool, error) {
	if a.services == nil {
		return false, fmt.Errorf("application is not fully initialized")
	}
	return a.services.digest.SendDaily(ctx, userID)
}

// CreateAdmin 创建管理员账户，供命令行初始化使用
func (a *App) CreateAdmin(ctx context.Context, name, email, password string) (*model.User, error) {
	if a.services == nil {
		return nil, fmt.Errorf("application is not fully initialized")
	}
	return a.services.auth.Register(ctx, service.RegisterInput{
		Name:      name,
		Email:     email,
		Password:  password,
		Role:      string(model.RoleAdmin),
		GrantRole: true,
	})
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if a.ConfigDir != "" {
		go func() {
			configFile := filepath.Join(a.ConfigDir, "config.yaml")
			if err := configwatcher.WatchConfig(watchCtx, configFile, a.applyConfig); err != nil {
				logger.Log.Warn("Config watcher disabled", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	stopWatch()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(ctx)
	logger.Log.Info("Server exiting")
}

// Close 释放追踪、缓存与数据库连接
func (a *App) Close(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	logger.Log.Sync()
}
