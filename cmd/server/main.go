package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	activityapp "github.com/bos/backend/internal/application/activity"
	attachmentapp "github.com/bos/backend/internal/application/attachment"
	clientapp "github.com/bos/backend/internal/application/client"
	conversationapp "github.com/bos/backend/internal/application/conversation"
	eventapp "github.com/bos/backend/internal/application/event"
	featureflagapp "github.com/bos/backend/internal/application/featureflag"
	identityapp "github.com/bos/backend/internal/application/identity"
	"github.com/bos/backend/internal/application/importer"
	jobapp "github.com/bos/backend/internal/application/job"
	"github.com/bos/backend/internal/domain/conversation"
	"github.com/bos/backend/internal/domain/featureflag"
	"github.com/bos/backend/internal/domain/identity"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/auth"
	"github.com/bos/backend/internal/infrastructure/cache"
	"github.com/bos/backend/internal/infrastructure/config"
	"github.com/bos/backend/internal/infrastructure/event"
	"github.com/bos/backend/internal/infrastructure/front"
	"github.com/bos/backend/internal/infrastructure/logger"
	"github.com/bos/backend/internal/infrastructure/persistence"
	"github.com/bos/backend/internal/infrastructure/persistence/tenant"
	"github.com/bos/backend/internal/infrastructure/render"
	"github.com/bos/backend/internal/infrastructure/scheduler"
	"github.com/bos/backend/internal/infrastructure/storage"
	"github.com/bos/backend/internal/infrastructure/telemetry"
	"github.com/bos/backend/internal/interfaces/http/handler"
	"github.com/bos/backend/internal/interfaces/http/middleware"
	"github.com/bos/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/bos/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			BOS Backend API
//	@version		1.0
//	@description	Field service CRM backend - clients, jobs, helpdesk sync and work orders

//	@contact.name	API Support
//	@contact.email	support@bosapp.io

//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT token.

// seedTenantID is the well-known tenant created by the development seed so
// seeded credentials and config.toml agree on the tenant.
const seedTenantID = "00000000-0000-0000-0000-000000000001"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting BOS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB", zap.Error(err))
	}

	// Safety net under the repositories' explicit tenant_id predicates:
	// any query that reaches GORM without one gets it injected from the
	// request context. Not required, so background workers running outside
	// a tenant context still pass.
	tenant.EnableAutoTenantFilter(db.DB, false)

	rootCtx := context.Background()

	// Telemetry (optional): traces, HTTP metrics, DB query spans
	var meterProvider *telemetry.MeterProvider
	var businessMetrics *telemetry.BusinessMetrics
	if cfg.Telemetry.Enabled {
		tracerProvider, err := telemetry.NewTracerProvider(rootCtx, telemetry.Config{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("Failed to shut down tracer provider", zap.Error(err))
			}
		}()

		meterProvider, err = telemetry.NewMeterProvider(rootCtx, telemetry.MetricsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize meter provider", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := meterProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("Failed to shut down meter provider", zap.Error(err))
			}
		}()

		if cfg.Telemetry.DBTraceEnabled {
			dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
				Enabled:         true,
				LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
				SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			}, log)
			if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
				log.Error("Failed to register database tracing", zap.Error(err))
			}
		}

		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:                meterProvider.Meter("bos.business"),
			Logger:               log,
			ConversationProvider: telemetry.NewGormConversationMetricsProvider(db.DB),
		})
		if err != nil {
			log.Error("Failed to initialize business metrics", zap.Error(err))
			businessMetrics = nil
		}
	}

	// Shared Redis client for the token blacklist, flag cache and webhook
	// dedup store. When Redis is unreachable the in-memory fallbacks keep a
	// single instance working; multi-instance deployments need Redis.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		candidate := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(rootCtx, 3*time.Second)
		if err := candidate.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis unavailable, falling back to in-memory stores", zap.Error(err))
			_ = candidate.Close()
		} else {
			redisClient = candidate
			defer func() { _ = redisClient.Close() }()
		}
		cancel()
	}

	var tokenBlacklist auth.TokenBlacklist
	var flagCache featureflag.FlagCache
	if redisClient != nil {
		tokenBlacklist = auth.NewRedisTokenBlacklistWithClient(redisClient)
		flagCache = cache.NewRedisFlagCacheWithClient(redisClient, cache.DefaultFlagTTL)
	} else {
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		flagCache = cache.NewInMemoryFlagCache(cache.DefaultFlagTTL)
	}
	defer func() { _ = flagCache.Close() }()

	jwtService := auth.NewJWTService(cfg.JWT)

	// Repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	personRepo := persistence.NewGormPersonRepository(db.DB)
	contactMethodRepo := persistence.NewGormContactMethodRepository(db.DB)
	jobRepo := persistence.NewGormJobRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	conversationRepo := persistence.NewGormConversationRepository(db.DB)
	syncStateRepo := persistence.NewGormSyncStateRepository(db.DB)
	activityLogRepo := persistence.NewGormActivityLogRepository(db.DB)
	attachmentRepo := persistence.NewGormAttachmentRepository(db.DB)
	featureFlagRepo := persistence.NewGormFeatureFlagRepository(db.DB)
	importHistoryRepo := persistence.NewGormImportHistoryRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Event infrastructure: aggregate events are written to the outbox in
	// the same transaction as the aggregate, then relayed to the in-process
	// bus by the outbox processor.
	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	outboxPublisher := event.NewOutboxPublisher(serializer)

	clientRepo.SetOutboxEventSaver(outboxPublisher)
	personRepo.SetOutboxEventSaver(outboxPublisher)
	contactMethodRepo.SetOutboxEventSaver(outboxPublisher)
	jobRepo.SetOutboxEventSaver(outboxPublisher)
	taskRepo.SetOutboxEventSaver(outboxPublisher)
	conversationRepo.SetOutboxEventSaver(outboxPublisher)
	attachmentRepo.SetOutboxEventSaver(outboxPublisher)
	featureFlagRepo.SetOutboxEventSaver(outboxPublisher)
	userRepo.SetOutboxEventSaver(outboxPublisher)
	tenantRepo.SetOutboxEventSaver(outboxPublisher)

	eventBus := event.NewInMemoryEventBus(log)

	// Object storage for job attachments
	var objectStorage attachmentapp.ObjectStorageService
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
	} else {
		log.Warn("No storage bucket configured, using in-memory object storage")
		objectStorage = storage.NewMemoryObjectStorage()
	}

	// PDF rendering for work orders
	var pdfRenderer render.Renderer
	if cfg.Render.Enabled {
		chromeRenderer, err := render.NewChromedpRenderer(&render.ChromedpConfig{
			DefaultTimeout: cfg.Render.Timeout,
			RemoteURL:      cfg.Render.ChromeURL,
			Headless:       true,
			DisableGPU:     true,
			NoSandbox:      true,
			Logger:         log,
		})
		if err != nil {
			log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
		}
		defer func() { _ = chromeRenderer.Close() }()
		pdfRenderer = chromeRenderer
	} else {
		log.Warn("PDF rendering disabled, work orders will use the stub renderer")
		pdfRenderer = render.NewStubRenderer()
	}
	workOrderRenderer, err := render.NewWorkOrderRenderer(pdfRenderer, log)
	if err != nil {
		log.Fatal("Failed to initialize work order renderer", zap.Error(err))
	}

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, log)
	userService := identityapp.NewUserService(userRepo, jwtService, tokenBlacklist, log)
	tenantService := identityapp.NewTenantService(tenantRepo, log)

	clientService := clientapp.NewClientService(clientRepo, jobRepo)
	clientService.SetEventPublisher(eventBus)
	personService := clientapp.NewPersonService(personRepo, clientRepo)
	personService.SetEventPublisher(eventBus)
	contactMethodService := clientapp.NewContactMethodService(contactMethodRepo, personRepo)
	contactMethodService.SetEventPublisher(eventBus)

	jobService := jobapp.NewJobService(jobRepo, clientRepo, userRepo)
	jobService.SetEventPublisher(eventBus)
	taskService := jobapp.NewTaskService(taskRepo, jobRepo)
	taskService.SetEventPublisher(eventBus)
	workOrderService := jobapp.NewWorkOrderService(
		jobRepo, taskRepo, clientRepo, personRepo, contactMethodRepo,
		userRepo, tenantRepo, workOrderRenderer, log,
	)

	conversationService := conversationapp.NewConversationService(conversationRepo, personRepo)
	syncService := conversationapp.NewSyncService(conversationRepo, contactMethodRepo, personRepo, log)

	activityService := activityapp.NewActivityService(activityLogRepo)

	attachmentService := attachmentapp.NewAttachmentService(attachmentRepo, jobRepo, objectStorage, log)
	attachmentService.SetEventPublisher(eventBus)
	attachmentService.SetConfig(attachmentapp.AttachmentServiceConfig{
		MaxFileSizeBytes:     cfg.Storage.MaxFileSize,
		MaxAttachmentsPerJob: cfg.Storage.MaxAttachmentsPerJob,
		DownloadURLExpiry:    cfg.Storage.PresignExpiration,
	})

	flagService := featureflagapp.NewFlagService(featureFlagRepo, log)
	flagService.SetCache(flagCache, cache.DefaultFlagTTL)
	flagService.SetEventPublisher(eventBus)

	historyService := importer.NewImportHistoryService(importHistoryRepo)
	// Each import row runs against repositories bound to its own transaction
	// so a failed row leaves nothing behind.
	runInTx := importer.TxRunner(func(ctx context.Context, fn func(repos importer.RowRepos) error) error {
		return db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			txClientRepo := persistence.NewGormClientRepository(tx)
			txClientRepo.SetOutboxEventSaver(outboxPublisher)
			txPersonRepo := persistence.NewGormPersonRepository(tx)
			txPersonRepo.SetOutboxEventSaver(outboxPublisher)
			txContactRepo := persistence.NewGormContactMethodRepository(tx)
			txContactRepo.SetOutboxEventSaver(outboxPublisher)
			return fn(importer.RowRepos{
				Clients:        txClientRepo,
				People:         txPersonRepo,
				ContactMethods: txContactRepo,
			})
		})
	})
	importService := importer.NewClientImportService(contactMethodRepo, importHistoryRepo, runInTx)
	importService.SetEventPublisher(eventBus)

	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Event subscribers: the activity trail, conversation auto-matching on
	// new contact methods, and flag cache invalidation.
	activityRecorder := activityapp.NewActivityRecorder(activityLogRepo, log)
	eventBus.Subscribe(activityRecorder, activityRecorder.EventTypes()...)

	contactMethodCreatedHandler := conversationapp.NewContactMethodCreatedHandler(conversationRepo, personRepo, log)
	eventBus.Subscribe(contactMethodCreatedHandler, contactMethodCreatedHandler.EventTypes()...)

	flagCacheInvalidator := featureflagapp.NewFlagCacheInvalidator(flagCache, log)
	eventBus.Subscribe(flagCacheInvalidator, flagCacheInvalidator.EventTypes()...)

	if err := eventBus.Start(rootCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Failed to stop event bus", zap.Error(err))
		}
	}()

	outboxConfig := event.DefaultOutboxProcessorConfig()
	if cfg.Event.BatchSize > 0 {
		outboxConfig.BatchSize = cfg.Event.BatchSize
	}
	if cfg.Event.PollInterval > 0 {
		outboxConfig.PollInterval = cfg.Event.PollInterval
	}
	outboxConfig.CleanupEnabled = cfg.Event.CleanupEnabled
	if cfg.Event.CleanupRetention > 0 {
		outboxConfig.CleanupRetention = cfg.Event.CleanupRetention
	}
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, outboxConfig, log)
	if cfg.Event.ProcessorEnabled {
		if err := outboxProcessor.Start(rootCtx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
	}

	// Front helpdesk integration: one adapter per platform behind the
	// registry, credentials keyed by tenant from config.
	frontCredentials := make(map[uuid.UUID]*front.FrontCredentials, len(cfg.Front.Tenants))
	for tenantIDStr, creds := range cfg.Front.Tenants {
		tenantID, err := uuid.Parse(tenantIDStr)
		if err != nil {
			log.Fatal("Invalid tenant ID in Front credentials", zap.String("tenant_id", tenantIDStr))
		}
		frontCredentials[tenantID] = &front.FrontCredentials{
			APIToken:      creds.APIToken,
			WebhookSecret: creds.WebhookSecret,
		}
	}
	credentialSource, err := front.NewConfigCredentialSource(frontCredentials)
	if err != nil {
		log.Fatal("Failed to load Front credentials", zap.Error(err))
	}
	frontClientConfig := front.NewFrontClientConfig()
	if cfg.Front.BaseURL != "" {
		frontClientConfig.BaseURL = cfg.Front.BaseURL
	}
	if cfg.Front.RequestTimeout > 0 {
		frontClientConfig.Timeout = cfg.Front.RequestTimeout
	}
	frontAdapter, err := front.NewFrontAdapter(frontClientConfig, credentialSource)
	if err != nil {
		log.Fatal("Failed to initialize Front adapter", zap.Error(err))
	}
	platformRegistry := front.NewPlatformRegistry()
	if err := platformRegistry.Register(frontAdapter); err != nil {
		log.Fatal("Failed to register Front platform", zap.Error(err))
	}

	// Conversation sync pipeline: poll trigger -> scheduler -> executor ->
	// ingest. Webhooks enqueue targeted syncs into the same scheduler.
	executorConfig := scheduler.DefaultSyncExecutorConfig()
	if cfg.Sync.PageSize > 0 {
		executorConfig.PageSize = cfg.Sync.PageSize
	}
	ingest := scheduler.ConversationIngestFunc(func(ctx context.Context, tenantID uuid.UUID, pc *conversation.PlatformConversation) (scheduler.IngestOutcome, error) {
		result, err := syncService.Ingest(ctx, tenantID, pc)
		if err != nil {
			return scheduler.IngestOutcome{}, err
		}
		return scheduler.IngestOutcome{
			Created: result.Created,
			Changed: result.Changed,
			Matched: result.Matched,
		}, nil
	})
	syncExecutor := scheduler.NewSyncExecutor(executorConfig, platformRegistry, syncStateRepo, ingest, log)
	syncExecutor.SetFeatureGate(flagService)
	if businessMetrics != nil {
		syncExecutor.SetOnSyncCompleted(func(ctx context.Context, job *scheduler.ConversationSyncJob) {
			businessMetrics.RecordSyncJob(ctx, job.TenantID, string(job.Trigger), string(job.Status))
			businessMetrics.RecordConversationsUpserted(ctx, job.TenantID, string(job.Platform), int64(job.UpsertedCount))
		})
	}

	syncScheduler, err := scheduler.NewConversationSyncScheduler(scheduler.SyncSchedulerConfig{
		Workers:        cfg.Sync.Workers,
		QueueSize:      cfg.Sync.QueueSize,
		JobTimeout:     cfg.Sync.JobTimeout,
		MaxRetries:     cfg.Sync.MaxRetries,
		BaseRetryDelay: cfg.Sync.BaseRetryDelay,
		MaxRetryDelay:  cfg.Sync.MaxRetryDelay,
	}, syncExecutor, log)
	if err != nil {
		log.Fatal("Failed to initialize sync scheduler", zap.Error(err))
	}

	pollConfig := scheduler.DefaultPollTriggerConfig()
	if cfg.Sync.PollInterval > 0 {
		pollConfig.PollInterval = cfg.Sync.PollInterval
	}
	pollTrigger := scheduler.NewPollTrigger(pollConfig, syncScheduler, platformRegistry, credentialSource, syncStateRepo, log)

	if cfg.Front.Enabled {
		if err := syncScheduler.Start(rootCtx); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
		if cfg.Sync.Enabled {
			if err := pollTrigger.Start(rootCtx); err != nil {
				log.Fatal("Failed to start poll trigger", zap.Error(err))
			}
		}
	} else {
		log.Info("Front integration disabled")
	}

	// Webhook dedup store: duplicate deliveries are acknowledged without work
	var idempotencyStore shared.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = cache.NewRedisIdempotencyStoreWithClient(redisClient, "front:webhook")
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}
	defer func() { _ = idempotencyStore.Close() }()

	// Development seed: default tenant plus an owner account
	if cfg.Seed.Enabled {
		seedCtx, cancel := context.WithTimeout(rootCtx, 20*time.Second)
		tenantID := uuid.MustParse(seedTenantID)
		if err := tenantService.EnsureDefault(seedCtx, tenantID, "default", "Default Workspace"); err != nil {
			log.Error("Failed to ensure default tenant", zap.Error(err))
		} else if cfg.Seed.AdminEmail != "" && cfg.Seed.AdminPassword != "" {
			if _, err := userService.Create(seedCtx, identityapp.CreateUserInput{
				TenantID: tenantID,
				Email:    cfg.Seed.AdminEmail,
				Name:     "Administrator",
				Password: cfg.Seed.AdminPassword,
				Role:     string(identity.RoleOwner),
			}); err != nil {
				log.Debug("Seed admin not created", zap.Error(err))
			} else {
				log.Info("Seed admin created", zap.String("email", cfg.Seed.AdminEmail))
			}
		}
		cancel()
	}

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService, cfg)
	userHandler := handler.NewUserHandler(userService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	clientHandler := handler.NewClientHandler(clientService)
	personHandler := handler.NewPersonHandler(personService)
	contactMethodHandler := handler.NewContactMethodHandler(contactMethodService)
	jobHandler := handler.NewJobHandler(jobService, workOrderService)
	taskHandler := handler.NewTaskHandler(taskService)
	conversationHandler := handler.NewConversationHandler(conversationService)
	syncHandler := handler.NewSyncHandler(syncStateRepo, syncScheduler, pollTrigger)
	activityHandler := handler.NewActivityHandler(activityService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	featureFlagHandler := handler.NewFeatureFlagHandler(flagService)
	importHandler := handler.NewImportHandler(importService, historyService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler(sqlDB, redisClient)

	frontWebhookHandler := handler.NewFrontWebhookHandler(frontAdapter, idempotencyStore, syncScheduler, log)
	if businessMetrics != nil {
		frontWebhookHandler.SetOnReceived(func(eventType string, accepted bool) {
			outcome := telemetry.WebhookOutcomeRejected
			if accepted {
				outcome = telemetry.WebhookOutcomeAccepted
			}
			businessMetrics.RecordWebhookEvent(rootCtx, uuid.Nil, string(conversation.PlatformCodeFront), outcome)
		})
	}

	// Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(nil); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	// Cookie-authenticated requests must pass the double-submit CSRF check;
	// Bearer-authenticated and webhook requests are exempt.
	csrfConfig := middleware.DefaultCSRFConfig()
	csrfConfig.Secure = cfg.Cookie.Secure
	csrfConfig.SkipPaths = []string{"/api/v1/webhooks/front"}
	engine.Use(middleware.CSRFWithConfig(csrfConfig))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Swagger.Enabled {
		jwtForSwagger := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: tokenBlacklist,
			Logger:         log,
		})
		swaggerGroup := engine.Group("/swagger")
		swaggerGroup.Use(middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtForSwagger))
		swaggerGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Front webhooks authenticate by HMAC signature, not JWT, so the route
	// lives outside the authenticated router.
	engine.POST("/api/v1/webhooks/front", frontWebhookHandler.HandleFrontWebhook)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/auth/csrf",
			"/api/v1/system/ping",
			"/api/v1/system/info",
			"/api/v1/system/health",
		},
		SkipPathPrefixes: []string{
			"/api/v1/webhooks",
		},
		Logger: log,
	}))
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Logger = log
	r.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))
	r.Use(middleware.DataScopeMiddleware())

	identityGroup := router.NewDomainGroup("identity", "").
		POST("/auth/login", authHandler.Login).
		POST("/auth/refresh", authHandler.RefreshToken).
		POST("/auth/logout", authHandler.Logout).
		GET("/auth/me", authHandler.GetCurrentUser).
		PUT("/auth/password", authHandler.ChangePassword).
		GET("/auth/csrf", authHandler.GetCSRFToken).
		GET("/auth/permissions", authHandler.GetPermissionMatrix).
		POST("/users", middleware.RequirePermission("users:create"), userHandler.Create).
		GET("/users", middleware.RequirePermission("users:read"), userHandler.List).
		GET("/users/:id", middleware.RequirePermission("users:read"), userHandler.GetByID).
		PUT("/users/:id", middleware.RequirePermission("users:update"), userHandler.Update).
		PUT("/users/:id/role", middleware.RequirePermission("users:change_role"), userHandler.ChangeRole).
		POST("/users/:id/enable", middleware.RequirePermission("users:update"), userHandler.Enable).
		POST("/users/:id/disable", middleware.RequirePermission("users:update"), userHandler.Disable).
		POST("/users/:id/reset-password", middleware.RequirePermission("users:update"), userHandler.ResetPassword).
		DELETE("/users/:id", middleware.RequirePermission("users:delete"), userHandler.Delete).
		POST("/tenants", middleware.RequirePermission("tenants:manage"), tenantHandler.Create).
		GET("/tenants/:id", middleware.RequirePermission("tenants:read"), tenantHandler.GetByID).
		GET("/tenants/code/:code", middleware.RequirePermission("tenants:read"), tenantHandler.GetByCode).
		PUT("/tenants/:id", middleware.RequirePermission("tenants:manage"), tenantHandler.Rename).
		POST("/tenants/:id/suspend", middleware.RequirePermission("tenants:manage"), tenantHandler.Suspend).
		POST("/tenants/:id/activate", middleware.RequirePermission("tenants:manage"), tenantHandler.Activate)

	crmGroup := router.NewDomainGroup("crm", "").
		POST("/clients", middleware.RequirePermission("clients:create"), clientHandler.Create).
		GET("/clients", middleware.RequirePermission("clients:read"), clientHandler.List).
		GET("/clients/:id", middleware.RequirePermission("clients:read"), clientHandler.GetByID).
		GET("/clients/code/:code", middleware.RequirePermission("clients:read"), clientHandler.GetByCode).
		PUT("/clients/:id", middleware.RequirePermission("clients:update"), clientHandler.Update).
		POST("/clients/:id/archive", middleware.RequirePermission("clients:archive"), clientHandler.Archive).
		POST("/clients/:id/unarchive", middleware.RequirePermission("clients:archive"), clientHandler.Unarchive).
		DELETE("/clients/:id", middleware.RequirePermission("clients:delete"), clientHandler.Delete).
		POST("/clients/:id/people", middleware.RequirePermission("people:create"), personHandler.Create).
		GET("/clients/:id/people", middleware.RequirePermission("people:read"), personHandler.ListByClient).
		GET("/clients/:id/activity", middleware.RequirePermission("activity_logs:read"), activityHandler.ListForClient).
		GET("/people/:id", middleware.RequirePermission("people:read"), personHandler.GetByID).
		PUT("/people/:id", middleware.RequirePermission("people:update"), personHandler.Update).
		POST("/people/:id/activate", middleware.RequirePermission("people:update"), personHandler.Activate).
		POST("/people/:id/deactivate", middleware.RequirePermission("people:update"), personHandler.Deactivate).
		DELETE("/people/:id", middleware.RequirePermission("people:delete"), personHandler.Delete).
		POST("/people/:id/contact-methods", middleware.RequirePermission("contact_methods:create"), contactMethodHandler.Create).
		GET("/people/:id/contact-methods", middleware.RequirePermission("contact_methods:read"), contactMethodHandler.ListByPerson).
		GET("/contact-methods/:id", middleware.RequirePermission("contact_methods:read"), contactMethodHandler.GetByID).
		PUT("/contact-methods/:id", middleware.RequirePermission("contact_methods:update"), contactMethodHandler.UpdateValue).
		POST("/contact-methods/:id/primary", middleware.RequirePermission("contact_methods:update"), contactMethodHandler.MarkPrimary).
		DELETE("/contact-methods/:id", middleware.RequirePermission("contact_methods:delete"), contactMethodHandler.Delete)

	jobsGroup := router.NewDomainGroup("jobs", "").
		POST("/jobs", middleware.RequirePermission("jobs:create"), jobHandler.Create).
		GET("/jobs", middleware.RequirePermission("jobs:read"), jobHandler.List).
		GET("/jobs/status-summary", middleware.RequirePermission("jobs:read"), jobHandler.GetStatusSummary).
		GET("/jobs/:id", middleware.RequirePermission("jobs:read"), jobHandler.GetByID).
		PUT("/jobs/:id", middleware.RequirePermission("jobs:update"), jobHandler.Update).
		PUT("/jobs/:id/status", middleware.RequirePermission("jobs:update_status"), jobHandler.ChangeStatus).
		POST("/jobs/:id/assignments", middleware.RequirePermission("jobs:assign"), jobHandler.Assign).
		DELETE("/jobs/:id/assignments/:user_id", middleware.RequirePermission("jobs:assign"), jobHandler.Unassign).
		GET("/jobs/:id/work-order.pdf", middleware.RequirePermission("documents:render"), jobHandler.DownloadWorkOrder).
		DELETE("/jobs/:id", middleware.RequirePermission("jobs:delete"), jobHandler.Delete).
		GET("/clients/:id/jobs", middleware.RequirePermission("jobs:read"), jobHandler.ListByClient).
		POST("/jobs/:id/tasks", middleware.RequirePermission("tasks:create"), taskHandler.Create).
		GET("/jobs/:id/tasks", middleware.RequirePermission("tasks:read"), taskHandler.ListByJob).
		POST("/jobs/:id/tasks/:task_id/reorder", middleware.RequirePermission("tasks:reorder"), taskHandler.Reorder).
		PUT("/tasks/:id", middleware.RequirePermission("tasks:update"), taskHandler.Update).
		PUT("/tasks/:id/status", middleware.RequirePermission("tasks:update"), taskHandler.ChangeStatus).
		DELETE("/tasks/:id", middleware.RequirePermission("tasks:delete"), taskHandler.Delete).
		POST("/jobs/:id/attachments", middleware.RequirePermission("attachments:create"), attachmentHandler.Upload).
		GET("/jobs/:id/attachments", middleware.RequirePermission("attachments:read"), attachmentHandler.ListByJob).
		GET("/jobs/:id/activity", middleware.RequirePermission("activity_logs:read"), activityHandler.ListForJob).
		GET("/attachments/:id", middleware.RequirePermission("attachments:read"), attachmentHandler.GetByID).
		GET("/attachments/:id/download", middleware.RequirePermission("attachments:read"), attachmentHandler.GetDownloadURL).
		DELETE("/attachments/:id", middleware.RequirePermission("attachments:delete"), attachmentHandler.Delete)

	// Sync control routes sit behind the same flag the executor checks, so
	// a tenant with the integration off cannot trigger work by hand.
	frontSyncGate := middleware.RequireFeature(flagService, featureflag.KeyFrontSync)
	conversationsGroup := router.NewDomainGroup("conversations", "").
		GET("/conversations", middleware.RequirePermission("conversations:read"), conversationHandler.List).
		GET("/conversations/:id", middleware.RequirePermission("conversations:read"), conversationHandler.GetByID).
		POST("/conversations/:id/relink", middleware.RequirePermission("conversations:link"), conversationHandler.Relink).
		POST("/conversations/:id/unlink", middleware.RequirePermission("conversations:unlink"), conversationHandler.Unlink).
		GET("/people/:id/conversations", middleware.RequirePermission("conversations:read"), conversationHandler.ListByPerson).
		GET("/sync/front/status", middleware.RequirePermission("conversations:sync"), frontSyncGate, syncHandler.GetStatus).
		POST("/sync/front/trigger", middleware.RequirePermission("conversations:sync"), frontSyncGate, syncHandler.TriggerSync).
		GET("/sync/front/stats", middleware.RequirePermission("conversations:sync"), frontSyncGate, syncHandler.GetStats)

	platformGroup := router.NewDomainGroup("platform", "").
		POST("/feature-flags", middleware.RequirePermission("feature_flags:manage"), featureFlagHandler.Create).
		GET("/feature-flags", middleware.RequirePermission("feature_flags:read"), featureFlagHandler.List).
		GET("/feature-flags/:id", middleware.RequirePermission("feature_flags:read"), featureFlagHandler.GetByID).
		GET("/feature-flags/key/:key", middleware.RequirePermission("feature_flags:read"), featureFlagHandler.GetByKey).
		PUT("/feature-flags/:id", middleware.RequirePermission("feature_flags:manage"), featureFlagHandler.Update).
		POST("/feature-flags/:id/enable", middleware.RequirePermission("feature_flags:manage"), featureFlagHandler.Enable).
		POST("/feature-flags/:id/disable", middleware.RequirePermission("feature_flags:manage"), featureFlagHandler.Disable).
		DELETE("/feature-flags/:id", middleware.RequirePermission("feature_flags:manage"), featureFlagHandler.Delete).
		POST("/imports/clients", middleware.RequirePermission("imports:create"), importHandler.ImportClients).
		GET("/imports", middleware.RequirePermission("imports:read"), importHandler.ListHistory).
		GET("/imports/:id", middleware.RequirePermission("imports:read"), importHandler.GetHistory).
		GET("/imports/:id/errors.csv", middleware.RequirePermission("imports:read"), importHandler.DownloadErrors).
		POST("/imports/:id/cancel", middleware.RequirePermission("imports:create"), importHandler.CancelImport).
		GET("/activity-logs", middleware.RequirePermission("activity_logs:read"), activityHandler.List).
		GET("/activity-logs/:id", middleware.RequirePermission("activity_logs:read"), activityHandler.GetByID)

	systemGroup := router.NewDomainGroup("system", "/system").
		GET("/info", systemHandler.GetSystemInfo).
		GET("/ping", systemHandler.Ping).
		GET("/health", systemHandler.Health).
		GET("/outbox/dead", middleware.RequirePermission("outbox:read"), outboxHandler.GetDeadLetterEntries).
		GET("/outbox/stats", middleware.RequirePermission("outbox:read"), outboxHandler.GetStats).
		GET("/outbox/:id", middleware.RequirePermission("outbox:read"), outboxHandler.GetEntry).
		POST("/outbox/:id/retry", middleware.RequirePermission("outbox:retry"), outboxHandler.RetryDeadEntry).
		POST("/outbox/dead/retry-all", middleware.RequirePermission("outbox:retry"), outboxHandler.RetryAllDeadEntries)

	r.Register(identityGroup).
		Register(crmGroup).
		Register(jobsGroup).
		Register(conversationsGroup).
		Register(platformGroup).
		Register(systemGroup)
	r.Setup()

	// HTTP server with timeouts
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}

	// Stop producers before consumers: no new sync jobs, then drain the
	// scheduler, then let the outbox flush.
	if cfg.Front.Enabled {
		if cfg.Sync.Enabled {
			if err := pollTrigger.Stop(shutdownCtx); err != nil {
				log.Error("Poll trigger shutdown failed", zap.Error(err))
			}
		}
		if err := syncScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Sync scheduler shutdown failed", zap.Error(err))
		}
	}
	if cfg.Event.ProcessorEnabled {
		if err := outboxProcessor.Stop(shutdownCtx); err != nil {
			log.Error("Outbox processor shutdown failed", zap.Error(err))
		}
	}

	log.Info("Shutdown complete")
}
