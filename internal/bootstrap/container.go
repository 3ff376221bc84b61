package bootstrap

import (
	"context"
	"log"

	"notebooklm-be/internal/config"
	"notebooklm-be/internal/controller"
	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/internal/repository/cache"
	"notebooklm-be/internal/repository/memory"
	"notebooklm-be/internal/repository/unitofwork"
	"notebooklm-be/internal/service"
	pktNats "notebooklm-be/pkg/nats"
	"notebooklm-be/pkg/notebooklm"
	"notebooklm-be/pkg/sshexec"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	QueryController    controller.IQueryController
	BatchController    controller.IBatchController
	ExportController   controller.IExportController
	HealthController   controller.IHealthController
	AuthController     controller.IAuthController
	NotebookController controller.INotebookController

	// Background Services (Exposed for main.go to run)
	BatchService       service.IBatchService
	AuthRefreshService service.IAuthRefreshService
	NotebookService    service.INotebookService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c := &Container{Logger: sysLogger}

	// Engine session
	handle := notebooklm.NewSessionHandle(nil)
	engineFactory := func(state *notebooklm.StorageState) notebooklm.Engine {
		return notebooklm.NewClient(cfg.NotebookLM.BridgeURL, state, cfg.NotebookLM.RequestTimeout)
	}

	var extractor service.StateExtractor
	if cfg.Refresh.Enabled() {
		runner, err := sshexec.NewRunner(sshexec.Config{
			Host:        cfg.Refresh.Host,
			User:        cfg.Refresh.User,
			PrivateKey:  cfg.Refresh.PrivateKey,
			HostKey:     cfg.Refresh.HostKey,
			DialTimeout: cfg.Refresh.DialTimeout,
		})
		if err != nil {
			log.Printf("[WARN] Auth refresh disabled: %v", err)
		} else {
			extractor = service.NewSSHStateExtractor(runner, cfg.Refresh.ExtractCommand, cfg.Refresh.CommandTimeout)
		}
	}
	authRefreshService := service.NewAuthRefreshService(handle, extractor, engineFactory, sysLogger)

	if cfg.NotebookLM.AuthJSON != "" {
		cookies, err := authRefreshService.Apply([]byte(cfg.NotebookLM.AuthJSON))
		if err != nil {
			log.Printf("[WARN] Ignoring NOTEBOOKLM_AUTH_JSON: %v", err)
		} else {
			log.Printf("[INFO] NotebookLM session loaded (%d cookies)", cookies)
		}
	}

	// NATS
	var eventPublisher service.IEventPublisher = service.NewNopEventPublisher()
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	// Redis
	var exportCache service.IExportCache
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, export cache disabled: %v", err)
		_ = rdb.Close()
	} else {
		exportCache = cache.NewExportCache(rdb, cfg.Cache.ExportTTL)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// Batch queue
	pubSub := NewBatchQueue(watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// Services
	executor := notebooklm.NewExecutor(handle, authRefreshService, sysLogger,
		notebooklm.WithMaxAttempts(cfg.NotebookLM.MaxAttempts),
		notebooklm.WithRetryDelay(cfg.NotebookLM.RetryDelay),
	)
	enricher := service.NewCitationEnricher(
		memory.NewFulltextCache(cfg.Cache.FulltextTTL),
		cfg.NotebookLM.ContextChars,
		sysLogger,
	)
	pipeline := service.NewQueryPipeline(uowFactory, handle, authRefreshService, executor, enricher, eventPublisher, sysLogger)

	queryService := service.NewQueryService(uowFactory, pipeline)
	exportService := service.NewExportService(uowFactory, exportCache, cfg.NotebookLM.NotebookBaseURL, sysLogger)
	batchService := service.NewBatchService(uowFactory, pipeline, pubSub, pubSub, eventPublisher, service.BatchOptions{
		Topic:        cfg.Batch.Topic,
		DefaultDelay: cfg.Batch.DefaultDelay,
		MaxDelay:     cfg.Batch.MaxDelay,
	}, sysLogger)
	healthService := service.NewHealthService(db, handle, authRefreshService.Configured())
	notebookService := service.NewNotebookService(uowFactory, handle, sysLogger)

	// Controllers
	c.QueryController = controller.NewQueryController(queryService)
	c.BatchController = controller.NewBatchController(batchService)
	c.ExportController = controller.NewExportController(exportService)
	c.HealthController = controller.NewHealthController(healthService)
	c.AuthController = controller.NewAuthController(authRefreshService)
	c.NotebookController = controller.NewNotebookController(notebookService)

	c.BatchService = batchService
	c.AuthRefreshService = authRefreshService
	c.NotebookService = notebookService

	return c
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
