// Package bootstrap wires drivers, gateways, usecases and servers.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"search-adapter/config"
	"search-adapter/consumer"
	"search-adapter/domain"
	"search-adapter/driver"
	"search-adapter/gateway"
	"search-adapter/logger"
	"search-adapter/usecase"
	appOtel "search-adapter/utils/otel"
)

// App holds the running components of the service.
type App struct {
	httpServer    *http.Server
	dbPool        *pgxpool.Pool
	redisConsumer *consumer.Consumer
	eventHandler  *consumer.IndexEventHandler
	otelShutdown  appOtel.ShutdownFunc
}

// Run initializes all components and starts the service. It blocks until
// ctx is cancelled, then performs graceful shutdown.
func Run(ctx context.Context) error {
	otelCfg := appOtel.ConfigFromEnv()
	otelShutdown, err := appOtel.InitProvider(ctx, otelCfg)
	if err != nil {
		fmt.Printf("Failed to initialize OpenTelemetry: %v\n", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	logger.InitWithOTel(otelCfg.Enabled)
	logger.Logger.Info("Starting search-adapter",
		"service", otelCfg.ServiceName,
		"otel_enabled", otelCfg.Enabled,
	)

	appCfg, err := config.Load()
	if err != nil {
		logger.Logger.Error("Failed to load config", "err", err)
		return err
	}

	// ── Drivers ──
	dbPool, err := driver.NewPostgresPool(ctx, appCfg.Database.ConnectionString(), appCfg.Database.Timeout)
	if err != nil {
		logger.Logger.Error("Failed to connect to database", "err", err)
		return err
	}

	esDriver := driver.NewElasticsearchDriver(
		appCfg.Elasticsearch.URL,
		appCfg.Elasticsearch.Timeout,
		appCfg.Elasticsearch.SkipTLSVerify,
		appCfg.Elasticsearch.Username,
		appCfg.Elasticsearch.Password,
	)
	if err := waitForBackend(ctx, esDriver); err != nil {
		logger.Logger.Error("Search backend unreachable", "err", err)
		dbPool.Close()
		return err
	}

	// ── Gateways ──
	resolver := newResolver(appCfg.Index)
	descriptor := domain.IndexDescriptor{
		Name:    (&domain.Record{}).SearchIndex(),
		DocType: appCfg.Index.DocType,
		Mapping: domain.RecordMapping(),
	}
	engine := gateway.NewSearchEngineGateway(esDriver, resolver, descriptor, appCfg.Index.MinScore)
	store := gateway.NewRecordStoreGateway(driver.NewPostgresDriver(dbPool))

	// ── Usecases ──
	mapper := usecase.NewResultMapper(store)
	searchUsecase := usecase.NewSearchRecordsUsecase(engine, mapper)
	searchPagedUsecase := usecase.NewSearchRecordsPaginatedUsecase(engine, mapper)
	searchKeysUsecase := usecase.NewSearchKeysUsecase(engine)
	indexUsecase := usecase.NewIndexRecordsUsecase(store, engine)
	manageUsecase := usecase.NewManageIndexUsecase(engine)

	if err := manageUsecase.Ensure(ctx, descriptor); err != nil {
		logger.Logger.Error("Failed to ensure search index", "err", err)
		dbPool.Close()
		return err
	}

	// ── Redis Streams consumer ──
	var redisConsumer *consumer.Consumer
	var eventHandler *consumer.IndexEventHandler
	consumerCfg := consumer.ConfigFromEnv()
	if consumerCfg.Enabled {
		eventHandler = consumer.NewIndexEventHandler(indexUsecase, logger.Logger)
		redisConsumer, err = consumer.NewConsumer(consumerCfg, eventHandler, logger.Logger)
		if err != nil {
			logger.Logger.Error("Failed to create Redis Streams consumer", "err", err)
		} else if err := redisConsumer.Start(ctx); err != nil {
			logger.Logger.Error("Failed to start Redis Streams consumer", "err", err)
		} else {
			logger.Logger.Info("Redis Streams consumer started",
				"stream", consumerCfg.StreamKey,
				"group", consumerCfg.GroupName,
			)
		}
	} else {
		logger.Logger.Info("Redis Streams consumer disabled")
	}

	app := &App{
		httpServer: newHTTPServer(appCfg, searchUsecase, searchPagedUsecase,
			searchKeysUsecase, indexUsecase, manageUsecase, esDriver, descriptor),
		dbPool:        dbPool,
		redisConsumer: redisConsumer,
		eventHandler:  eventHandler,
		otelShutdown:  otelShutdown,
	}

	go func() {
		logger.Logger.Info("http listen", "addr", appCfg.HTTP.Addr)
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Error("http", "err", err)
		}
	}()

	<-ctx.Done()
	app.shutdown()
	return nil
}

func (a *App) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("http shutdown", "err", err)
	}
	if a.eventHandler != nil {
		a.eventHandler.Stop()
	}
	if a.redisConsumer != nil {
		a.redisConsumer.Stop()
	}
	a.dbPool.Close()
	if err := a.otelShutdown(shutdownCtx); err != nil {
		logger.Logger.Error("otel shutdown", "err", err)
	}
	logger.Logger.Info("shutdown complete")
}

func newResolver(cfg config.IndexConfig) domain.IndexResolver {
	if cfg.Mode == config.IndexModePerType {
		return domain.PerTypeIndex{}
	}
	return domain.GlobalIndex{Name: cfg.GlobalName}
}

// waitForBackend pings the search backend until it answers or the retry
// budget is spent.
func waitForBackend(ctx context.Context, d *driver.ElasticsearchDriver) error {
	const maxRetries = 5
	const retryDelay = 5 * time.Second

	var err error
	for i := 0; i < maxRetries; i++ {
		if err = d.Ping(ctx); err == nil {
			return nil
		}
		logger.Logger.Warn("search backend not ready, retrying",
			"attempt", i+1, "max", maxRetries, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return err
}
