package app

import (
	"clinplace_backend/internal/config"
	"clinplace_backend/internal/controller"
	"clinplace_backend/internal/docstore"
	"clinplace_backend/internal/repository"
	"clinplace_backend/internal/service"
	"clinplace_backend/pkg/database"
	"clinplace_backend/pkg/logger"
	"clinplace_backend/pkg/monitoring"
	"clinplace_backend/pkg/security"
	"clinplace_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	Store  docstore.Client
	Redis  *redis.Client
}

type repositories struct {
	user         *repository.UserRepository
	student      *repository.StudentRepository
	feedback     *repository.FeedbackRepository
	aiItem       *repository.AIItemRepository
	review       *repository.ReviewRepository
	standard     *repository.StandardRepository
	notification *repository.NotificationRepository
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	identity     *service.IdentityService
	aggregation  *service.AggregationService
	feedback     *service.FeedbackService
	review       *service.ReviewService
	student      *service.StudentService
	notification *service.NotificationService
	ai           *service.AIService
}

type controllers struct {
	auth   *controller.AuthController
	action *controller.ActionController
	health *controller.HealthController
}

func (a *App) initRepositories(store docstore.Client, rdb *redis.Client, cfg *config.Config) *repositories {
	pageSize := cfg.Docstore.PageSize
	return &repositories{
		user:         repository.NewUserRepository(store, pageSize),
		student:      repository.NewStudentRepository(store, pageSize),
		feedback:     repository.NewFeedbackRepository(store, pageSize),
		aiItem:       repository.NewAIItemRepository(store, pageSize),
		review:       repository.NewReviewRepository(store, pageSize),
		standard:     repository.NewStandardRepository(store, rdb, pageSize),
		notification: repository.NewNotificationRepository(store, pageSize),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.identity = service.NewIdentityService(repos.user)
	s.aggregation = service.NewAggregationService(
		repos.student,
		repos.feedback,
		repos.aiItem,
		repos.review,
		repos.standard,
		s.identity,
	)
	s.feedback = service.NewFeedbackService(
		repos.feedback,
		repos.aiItem,
		repos.student,
		repos.notification,
		s.aggregation,
	)
	s.review = service.NewReviewService(repos.review, repos.feedback)
	s.student = service.NewStudentService(repos.student, s.aggregation)
	s.notification = service.NewNotificationService(repos.notification)
	s.ai = service.NewAIService(cfg.AI)

	return s
}

func (a *App) initControllers(s *services, repos *repositories) *controllers {
	return &controllers{
		auth: controller.NewAuthController(s.auth),
		action: controller.NewActionController(
			repos.user,
			repos.standard,
			s.feedback,
			s.review,
			s.student,
			s.notification,
			s.ai,
			s.storage,
		),
		health: controller.NewHealthController(),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitMongo(&cfg.Docstore)
	if err != nil {
		logger.Log.Fatal("Failed to initialize document store", zap.Error(err))
	}
	store := docstore.NewMongoClient(db)

	// Redis 只服务静态评估标准目录的缓存，连不上降级为直读
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Failed to initialize redis, catalog cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		Store:  store,
		Redis:  rdb,
	}

	repos := app.initRepositories(store, rdb, cfg)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, repos)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("placement-feedback", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
