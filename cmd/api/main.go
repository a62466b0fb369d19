package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/damoang/eventhub-backend/docs" // swagger spec
	"github.com/damoang/eventhub-backend/internal/checkout"
	"github.com/damoang/eventhub-backend/internal/config"
	"github.com/damoang/eventhub-backend/internal/database"
	"github.com/damoang/eventhub-backend/internal/handler"
	"github.com/damoang/eventhub-backend/internal/jobs"
	"github.com/damoang/eventhub-backend/internal/metrics"
	"github.com/damoang/eventhub-backend/internal/middleware"
	"github.com/damoang/eventhub-backend/internal/migration"
	"github.com/damoang/eventhub-backend/internal/notify"
	"github.com/damoang/eventhub-backend/internal/realtime"
	"github.com/damoang/eventhub-backend/internal/repository"
	"github.com/damoang/eventhub-backend/internal/routes"
	"github.com/damoang/eventhub-backend/internal/service"
	"github.com/damoang/eventhub-backend/internal/upload"
	"github.com/damoang/eventhub-backend/internal/video"
	"github.com/damoang/eventhub-backend/internal/ws"
	pkgcache "github.com/damoang/eventhub-backend/pkg/cache"
	pkges "github.com/damoang/eventhub-backend/pkg/elasticsearch"
	"github.com/damoang/eventhub-backend/pkg/i18n"
	"github.com/damoang/eventhub-backend/pkg/jwt"
	pkglogger "github.com/damoang/eventhub-backend/pkg/logger"
	pkgredis "github.com/damoang/eventhub-backend/pkg/redis"
	pkgstorage "github.com/damoang/eventhub-backend/pkg/storage"
	"github.com/damoang/eventhub-backend/pkg/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"
)

// Swagger spec regenerated with: swag init -g cmd/api/main.go
//
// @title           EventHub API
// @version         1.0
// @description     Event registration, schedule and staff inbox backend
//
// @host            localhost:8080
// @BasePath        /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

const lruFallbackSize = 4096

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	// 로거 초기화
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	// 설정 로드
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
	config.LogResolved(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: "eventhub-backend",
		Environment: cfg.Env,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		pkglogger.Warn("tracing disabled: %v", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	// DB 연결
	db, err := database.Open(cfg.Database, cfg.IsDevelopment())
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := migration.Run(db); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("migration failed")
	}
	pkglogger.Info("Connected to %s", cfg.Database.Driver)

	// Redis 연결
	redisClient, err := pkgredis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
	if err != nil {
		pkglogger.Warn("Failed to connect to Redis: %v (continuing with in-process cache)", err)
		redisClient = nil
	}

	// Cache Service
	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
	} else if cacheService, err = pkgcache.NewLRUService(lruFallbackSize); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("lru cache")
	}

	// Elasticsearch 연결
	var searchIndex service.SearchIndex
	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) > 0 {
		esClient, esErr := pkges.NewClient(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if esErr != nil {
			pkglogger.Warn("Elasticsearch connection failed: %v (notice search falls back to SQL)", esErr)
		} else {
			if err := esClient.CreateIndex(ctx, cfg.Elasticsearch.Index, service.NoticeIndexMapping); err != nil {
				pkglogger.Warn("create notice index: %v", err)
			}
			searchIndex = esClient
		}
	}

	// S3-compatible storage
	var uploader upload.Uploader
	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		s3Client, s3Err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if s3Err != nil {
			pkglogger.Warn("S3 storage init failed: %v (uploads disabled)", s3Err)
		} else {
			uploader = s3Client
		}
	}

	notifier, err := notify.New(cfg.Notify)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("notifier")
	}

	var checkoutClient service.CheckoutSessionCreator
	if cfg.Checkout.Endpoint != "" {
		checkoutClient = checkout.NewClient(cfg.Checkout)
	}
	var videoClient service.VideoTicketIssuer
	if cfg.Video.Endpoint != "" {
		videoClient = video.NewClient(cfg.Video)
	}

	// Realtime: cache invalidation + admin push
	logger := *pkglogger.GetLogger()
	bus := realtime.NewBus(logger)
	realtime.NewInvalidator(cacheService, logger).Attach(bus)
	wsHub := ws.NewHub(redisClient, logger)
	go wsHub.Run()
	realtime.AttachPush(bus, wsHub)

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	eventRepo := repository.NewEventRepository(db)
	attendeeRepo := repository.NewAttendeeRepository(db)
	threadRepo := repository.NewDMThreadRepository(db)
	messageRepo := repository.NewDMMessageRepository(db)

	// Services
	authService := service.NewAuthService(repository.NewAdminRepository(db), userRepo, jwtManager, cfg.JWT.ExpiresIn)
	threadService := service.NewDMThreadService(threadRepo, messageRepo, cacheService, bus, cfg.DM.ThreadPageSize)
	messageService := service.NewDMMessageService(threadRepo, messageRepo, uploader, bus, cfg.DM.MessagePageSize)
	metaService := service.NewDMMetaService(repository.NewDMMetaRepository(db), threadRepo, bus)
	scheduleService := service.NewScheduleService(eventRepo, groupRepo, attendeeRepo, cacheService,
		service.VisibilityPolicy{PrivilegedGroups: cfg.Schedule.PrivilegedGroups},
		cfg.Location())
	eventService := service.NewEventService(eventRepo, attendeeRepo, bus)
	registrationService := service.NewRegistrationService(eventRepo, attendeeRepo,
		repository.NewCheckoutRepository(db), checkoutClient, notifier, bus)
	noticeService := service.NewNoticeService(repository.NewNoticeRepository(db), uploader, searchIndex,
		cfg.Elasticsearch.Index, cacheService, bus)
	archiveService := service.NewArchiveService(repository.NewArchiveRepository(db), uploader, videoClient)
	faqService := service.NewFAQService(repository.NewFAQRepository(db))

	// Cron
	scheduler := jobs.NewScheduler(logger)
	if err := scheduler.Add("reconcile-threads", cfg.Cron.ReconcileSpec, jobs.ReconcileThreads(threadRepo, bus)); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("schedule reconcile")
	}
	if searchIndex != nil {
		if err := scheduler.Add("reindex-notices", cfg.Cron.ReindexSpec, jobs.ReindexNotices(noticeService, logger)); err != nil {
			pkglogger.GetLogger().Fatal().Err(err).Msg("schedule reindex")
		}
	}
	scheduler.Start()

	// i18n overrides
	if _, err := os.Stat("i18n"); err == nil {
		if err := i18n.Default().LoadDir("i18n"); err != nil {
			pkglogger.Warn("i18n LoadDir failed: %v", err)
		}
	}
	pkglogger.Info("i18n locales: %v", i18n.Default().SupportedLocales())

	// Gin 라우터 생성
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS 설정
	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", "Content-Language"},
		MaxAge:           12 * time.Hour,
	}))

	// Middleware
	router.Use(middleware.I18n())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.InputSanitizer())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())
	if redisClient != nil && !cfg.IsDevelopment() {
		router.Use(middleware.RateLimit(redisClient, middleware.DefaultRateLimitConfig()))
	}

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		dbStatus := "ok"
		if err := pingDB(c.Request.Context(), db); err != nil {
			status, dbStatus = http.StatusServiceUnavailable, err.Error()
		}
		c.JSON(status, gin.H{
			"status":   dbStatus,
			"service":  "eventhub-backend",
			"cache":    cacheService.IsAvailable(),
			"ws_peers": wsHub.ClientCount(),
			"time":     time.Now().Unix(),
		})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		DM:          handler.NewDMHandler(threadService, messageService),
		DMMeta:      handler.NewDMMetaHandler(metaService),
		Users:       handler.NewUserHandler(service.NewUserService(userRepo, bus), service.NewGroupService(groupRepo, userRepo, bus)),
		Events:      handler.NewEventHandler(eventService),
		Notices:     handler.NewNoticeHandler(noticeService),
		Archives:    handler.NewArchiveHandler(archiveService, faqService),
		MemberEvent: handler.NewMemberEventHandler(eventService, scheduleService, registrationService),
		Checkout:    handler.NewCheckoutHandler(registrationService, cfg.Checkout.WebhookSecret),
		WS:          handler.NewWSHandler(wsHub, splitAndTrim(allowOrigins)),
	}, jwtManager, redisClient)

	go reportDBStats(ctx, db)

	// 서버 시작
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      otelhttp.NewHandler(router, "eventhub"),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		pkglogger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkglogger.GetLogger().Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	pkglogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		pkglogger.Error("http shutdown: %v", err)
	}
	scheduler.Shutdown()
	wsHub.Stop()
	if err := notifier.Close(); err != nil {
		pkglogger.Error("notifier close: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		pkglogger.Error("tracing shutdown: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// reportDBStats feeds the pool gauges until ctx is done
func reportDBStats(ctx context.Context, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			stats := sqlDB.Stats()
			metrics.DBConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
			metrics.DBConnections.WithLabelValues("idle").Set(float64(stats.Idle))
		case <-ctx.Done():
			return
		}
	}
}

// splitAndTrim splits a comma separated list and drops empty items
func splitAndTrim(s string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
