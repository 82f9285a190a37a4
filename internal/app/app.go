package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/catalog-admin/internal/cfg"
	v1Grpc "github.com/DRSN-tech/catalog-admin/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/catalog-admin/internal/delivery/v1/http"
	"github.com/DRSN-tech/catalog-admin/internal/infrastructure/kafka"
	"github.com/DRSN-tech/catalog-admin/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/catalog-admin/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-admin/internal/repository/redis"
	redisConv "github.com/DRSN-tech/catalog-admin/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/clients"
	"github.com/DRSN-tech/catalog-admin/pkg/closer"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/DRSN-tech/catalog-admin/pkg/postgres"
	"github.com/DRSN-tech/catalog-admin/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
	topicTimeout    = 10 * time.Second
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	worker  *kafka.OutboxWorker
}

// NewApp поднимает зависимости. Всё, что успело открыться, регистрируется в closer,
// поэтому при ошибке инициализации ресурсы освобождаются.
func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(0),
	}

	if err := a.init(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if cErr := a.closer.Close(ctx); cErr != nil {
			logger.Warnf("cleanup after failed init: %v", cErr)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	db, err := initPGDB(ctx, a.logger, a.cfg)
	if err != nil {
		return err
	}
	a.closer.Add("postgres", func(context.Context) error {
		db.Close()
		return nil
	})

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	a.closer.Add("redis", redisClient.Close)
	if err := redisClient.Ping(ctx); err != nil {
		return e.Wrap("failed to connect to redis", err)
	}

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	a.closer.Add("kafka producer", producer.Close)
	if err := producer.EnsureTopic(topicTimeout); err != nil {
		// Топик может создать брокер при auto.create.topics.enable
		a.logger.Warnf("failed to ensure kafka topic: %v", err)
	}

	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.NewCategoryConverterImpl())
	outboxRepo := pgdb.NewOutboxEventRepo(
		db.Pool,
		pgdbConv.NewOutboxEventConverterImpl(),
		a.cfg.Outbox.NotifyChannel,
		a.cfg.Outbox.ProcessingTimeout,
	)
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.NewCategoryInfoConverterImpl(), a.cfg.Redis, a.logger)

	categoryUC := usecase.NewCategoryUC(
		categoryRepo,
		outboxRepo,
		cacheRepo,
		tr.NewManager(db.Pool),
		kafka.NewProtoEncoder(),
		a.logger,
	)

	a.worker = kafka.NewOutboxWorker(outboxRepo, a.logger, producer, a.cfg.Outbox, db.Dsn)
	a.closer.Add("outbox worker", a.worker.Stop)

	a.grpcSrv = v1Grpc.NewGRPCServer(a.cfg.Grpc, a.logger)
	a.grpcSrv.RegisterServices()
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger).Init(categoryUC)
	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// Run запускает серверы и воркер и блокируется до сигнала или фатальной ошибки сервера.
func (a *App) Run() error {
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	a.worker.Start(workerCtx)

	errCh := make(chan error, 2)

	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server failed", err)
		}
	}()

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- e.Wrap("HTTP server failed", err)
		}
	}()

	a.grpcSrv.SetServing(true)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case sig := <-shutdown:
		a.logger.Infof("Received %s, stopping gracefully...", sig)
	}

	a.grpcSrv.SetServing(false)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
	}

	a.logger.Infof("Application shutdown complete")
	_ = a.logger.Sync()

	return appErr
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
