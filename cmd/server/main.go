package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"golang.org/x/sync/errgroup"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/adapters/cache"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/adapters/http/handler"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/adapters/messaging/kafka"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/adapters/repository/memory"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/attendance"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/collaborator"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/document"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/platform/config"
	pg "github.com/ogurasousui/codex-pointage-clean-arch/internal/platform/db/postgres"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/platform/logger"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/platform/metrics"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/platform/redis"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/platform/server"
)

// storage は選択されたドライバが提供するポート群です。
type storage struct {
	collaborators collaborator.Repository
	documents     document.Repository
	directory     attendance.Directory
	events        attendance.EventStore
	tx            attendance.TransactionManager
	checks        []handler.HealthCheck
	close         func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log, os.Stdout)
	slog.SetDefault(appLogger)

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("server stopped with error", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.close()

	opts := []attendance.Option{
		attendance.WithLocation(cfg.Attendance.Location),
		attendance.WithLogger(logger),
	}
	checks := store.checks

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, attendance.WithCache(cache.NewLastCheckInCache(redisClient, cfg.Redis.CacheTTL)))
		checks = append(checks, handler.HealthCheck{Name: "redis", Check: redisClient.Health})
		logger.Info("last check-in cache enabled")
	}

	if cfg.Kafka.Enabled() {
		publisher, err := kafka.NewPublisher(ctx, cfg.Kafka, logger)
		if err != nil {
			return err
		}
		defer publisher.Close()
		opts = append(opts, attendance.WithPublisher(publisher))
		logger.Info("check-in publisher enabled", "topic", cfg.Kafka.Topic)
	}

	attendanceSvc := attendance.NewService(store.directory, store.events, nil, store.tx, opts...)
	collaboratorSvc := collaborator.NewService(store.collaborators, nil, store.tx)
	documentSvc := document.NewService(store.documents, store.collaborators, nil, store.tx)

	m := metrics.New()
	router := handler.NewRouter(logger, m, checks,
		handler.NewAttendanceHandler(attendanceSvc, logger, m),
		handler.NewCollaboratorHandler(collaboratorSvc, logger),
		handler.NewDocumentHandler(documentSvc, logger),
	)

	grpcServer := server.New(cfg.Server.ListenAddr, logger)
	httpServer := server.NewHTTP(cfg.Server.HTTPListenAddr, router, cfg.Server.ShutdownTimeout, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return grpcServer.Run(gctx) })
	g.Go(func() error { return httpServer.Run(gctx) })
	if len(checks) > 0 {
		g.Go(func() error {
			return grpcServer.WatchDependencies(gctx, cfg.Server.HealthCheckInterval, dependencyCheck(checks))
		})
	}

	logger.Info("pointage server started",
		"storage", string(cfg.Storage.Driver),
		"timezone", cfg.Attendance.Location.String(),
	)
	return g.Wait()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		store := memory.NewStore()
		return &storage{
			collaborators: store.Collaborators(),
			documents:     store.Documents(),
			directory:     store.Directory(),
			events:        store.CheckIns(),
			tx:            store,
			close:         func() {},
		}, nil
	}

	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return &storage{
		collaborators: postgres.NewCollaboratorRepository(pool),
		documents:     postgres.NewDocumentRepository(pool),
		directory:     postgres.NewDirectory(pool),
		events:        postgres.NewCheckInRepository(pool),
		tx:            pg.NewTransactionManager(pool),
		checks:        []handler.HealthCheck{{Name: "postgres", Check: pool.Ping}},
		close:         pool.Close,
	}, nil
}

// dependencyCheck は全依存先を順に確認し、最初の失敗を返します。
func dependencyCheck(checks []handler.HealthCheck) func(context.Context) error {
	return func(ctx context.Context) error {
		for _, c := range checks {
			checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			err := c.Check(checkCtx)
			cancel()
			if err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}
		}
		return nil
	}
}
