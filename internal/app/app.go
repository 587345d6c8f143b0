package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"lexstudy_backend/internal/apiclient"
	"lexstudy_backend/internal/config"
	"lexstudy_backend/internal/controller"
	"lexstudy_backend/internal/repository"
	"lexstudy_backend/internal/seed"
	"lexstudy_backend/internal/service"
	"lexstudy_backend/internal/viewer"
	"lexstudy_backend/pkg/configwatcher"
	"lexstudy_backend/pkg/database"
	"lexstudy_backend/pkg/logger"
	"lexstudy_backend/pkg/monitoring"
	"lexstudy_backend/pkg/security"
	"lexstudy_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configDir = "configs"

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	viewer   *viewer.Controller
	views    *viewer.Registry
	services *services
	tracer   *sdktrace.TracerProvider
	limiter  *security.RateLimiter

	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	lesson     *repository.LessonRepository
	subsection *repository.SubsectionRepository
	progress   *repository.ProgressRepository
}

type services struct {
	lesson     *service.LessonService
	subsection *service.SubsectionService
	progress   *service.ProgressService
}

type controllers struct {
	health     *controller.HealthController
	lesson     *controller.LessonController
	subsection *controller.SubsectionController
	progress   *controller.ProgressController
	viewer     *controller.ViewerController
	page       *controller.ViewerPageController
}

// RegisterConfigCallback 注册配置热更新回调
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.Config = cfg
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		lesson:     repository.NewLessonRepository(db),
		subsection: repository.NewSubsectionRepository(db),
		progress:   repository.NewProgressRepository(db),
	}
}

func initServices(cfg *config.Config, repos *repositories, rdb *redis.Client) *services {
	cacheTTL := time.Duration(cfg.Redis.CacheTTLSeconds) * time.Second
	return &services{
		lesson:     service.NewLessonService(repos.lesson, repos.subsection),
		subsection: service.NewSubsectionService(repos.subsection, repos.lesson, repos.progress, rdb, cacheTTL),
		progress:   service.NewProgressService(repos.progress, repos.subsection, repos.lesson),
	}
}

// viewerSource 根据配置选择本地数据库或远程 REST 服务
func viewerSource(cfg *config.Config, svcs *services) viewer.Source {
	if cfg.Viewer.Source == config.ViewerSourceRemote {
		logger.Log.Info("Viewer reads from remote API", zap.String("baseURL", cfg.Viewer.RemoteBaseURL))
		tokens := apiclient.SignedTokens(cfg.JWT.Secret, time.Hour)
		return apiclient.New(cfg.Viewer.RemoteBaseURL, cfg.Viewer.Timeout(), tokens)
	}
	return service.NewViewerSource(svcs.lesson, svcs.subsection, svcs.progress)
}

func viewerOptions(cfg *config.Config) viewer.Options {
	return viewer.Options{
		LockScope:     viewer.ParseLockScope(cfg.Viewer.LockScope),
		RetainAnswers: cfg.Viewer.RetainAnswers,
	}
}

func (a *App) initControllers(svcs *services) *controllers {
	return &controllers{
		health:     controller.NewHealthController(a.DB, a.Redis),
		lesson:     controller.NewLessonController(svcs.lesson),
		subsection: controller.NewSubsectionController(svcs.subsection),
		progress:   controller.NewProgressController(svcs.progress),
		viewer:     controller.NewViewerController(a.viewer, a.views),
		page:       controller.NewViewerPageController(a.views, a.Config.Viewer.BackURL),
	}
}

func (a *App) setupMiddlewares() {
	a.Router.Use(security.CORS(a.Config.CORS.AllowedOrigins))
	a.Router.Use(security.Secure())
	window := time.Duration(a.Config.RateLimit.WindowMinutes) * time.Minute
	if a.Config.RateLimit.MaxRequests > 0 && window > 0 {
		a.limiter = security.NewRateLimiter(a.Config.RateLimit.MaxRequests, window)
		a.Router.Use(a.limiter.Middleware())
	}
	if a.Config.Tracing.Enabled {
		a.Router.Use(tracing.GinMiddleware())
	}
	a.Router.Use(monitoring.MetricsMiddleware())
}

// New 用已建立的连接组装应用，rdb 可为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := initRepositories(db)
	app.services = initServices(cfg, repos, rdb)
	app.viewer = viewer.NewController(viewerSource(cfg, app.services), viewerOptions(cfg))
	app.views = viewer.NewRegistry(cfg.Viewer.ViewTTL())

	app.RegisterConfigCallback(func(c *config.Config) {
		logger.SetMode(c.Server.Mode)
	})
	app.RegisterConfigCallback(func(c *config.Config) {
		opts := viewerOptions(c)
		app.viewer.SetOptions(opts)
		logger.Log.Info("Viewer options updated",
			zap.String("lockScope", opts.LockScope.String()),
			zap.Bool("retainAnswers", opts.RetainAnswers))
	})

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	app.Router = gin.New()
	app.Router.Use(gin.Logger(), gin.Recovery())
	app.setupMiddlewares()

	c := app.initControllers(app.services)
	app.registerRoutes(app.Router, c)

	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	monitoring.Init()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to connect database", zap.Error(err))
	}
	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Redis 只用作缓存，连不上时降级为直接查库
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, subsection cache disabled", zap.Error(err))
		rdb = nil
	}

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("lexstudy-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracer", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	return app
}

// Seed 导入 YAML 课程数据，已存在的课程会跳过
func (a *App) Seed(ctx context.Context, path string) (seed.Result, error) {
	f, err := seed.Load(path)
	if err != nil {
		return seed.Result{}, err
	}
	res, err := seed.Import(ctx, a.DB, f)
	if err != nil {
		return res, err
	}
	for _, l := range f.Lessons {
		a.services.subsection.Invalidate(ctx, l.ID)
	}
	logger.Log.Info("Seed imported",
		zap.String("file", path),
		zap.Int("lessons", res.Lessons),
		zap.Int("subsections", res.Subsections),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	go a.views.Run(time.Minute)

	go func() {
		configFile := filepath.Join(configDir, "config.yaml")
		if err := configwatcher.WatchConfig(ctx, configFile, a.applyConfig); err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}()

	go func() {
		logger.Log.Info("Server starting", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(shutdownCtx)

	logger.Log.Info("Server exiting")
}

// Close 释放视图和外部连接
func (a *App) Close(ctx context.Context) {
	// 等待视图中未完成的进度写入，再关闭连接池
	if err := a.views.Stop(ctx); err != nil {
		logger.Log.Warn("Pending progress writes not finished before shutdown", zap.Error(err))
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
