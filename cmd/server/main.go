package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"houscan/internal/analysis"
	analysishandler "houscan/internal/analysis/handler"
	analysismetrics "houscan/internal/analysis/metrics"
	analysisstore "houscan/internal/analysis/store"
	"houscan/internal/announcement"
	announcementhandler "houscan/internal/announcement/handler"
	"houscan/internal/judge"
	"houscan/internal/platform/config"
	"houscan/internal/platform/httpserver"
	"houscan/internal/platform/logger"
	platformmetrics "houscan/internal/platform/metrics"
	platformredis "houscan/internal/platform/redis"
	"houscan/internal/queue"
	"houscan/internal/runlock"
	"houscan/internal/subject"
	subjecthandler "houscan/internal/subject/handler"
	httptransport "houscan/internal/transport/http"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores: PostgreSQL when configured, in-memory otherwise.
	var (
		subjectStore      subject.Store
		announcementStore announcement.Store
		verdictStore      analysis.VerdictStore
		db                *sql.DB
	)
	if cfg.PostgresDSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("failed to ping postgres", "error", err.Error())
			os.Exit(1)
		}
		subjectStore = subject.NewPostgres(db)
		announcementStore = announcement.NewPostgres(db)
		verdictStore = analysisstore.NewPostgres(db)
	} else {
		log.Warn("no postgres DSN configured, using in-memory stores")
		subjectStore = subject.NewMemoryStore()
		announcementStore = announcement.NewMemoryStore()
		verdictStore = analysisstore.NewMemoryStore()
	}

	// Locking and progress: Redis when configured, in-memory otherwise.
	var (
		lockStore     analysis.LockStore
		progressStore analysis.ProgressStore
	)
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		redisLocks := runlock.NewRedisStore(redisClient.Client, cfg.LockTTL)
		lockStore, progressStore = redisLocks, redisLocks
	} else {
		log.Warn("no redis URL configured, using in-memory locking")
		memoryLocks := runlock.NewMemoryStore(cfg.LockTTL)
		lockStore, progressStore = memoryLocks, memoryLocks
	}

	// Queue: Kafka when configured, in-process otherwise.
	var (
		jobQueue analysis.Queue
		consumer queue.Consumer
		workers  = cfg.Workers
	)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaQueue, err := queue.NewKafka(queue.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			Group:   cfg.Kafka.Group,
		}, log)
		if err != nil {
			log.Error("failed to create kafka queue", "error", err.Error())
			os.Exit(1)
		}
		defer kafkaQueue.Close()
		jobQueue, consumer = kafkaQueue, kafkaQueue
		// One poll loop per client; records within it are handled serially.
		workers = 1
	} else {
		log.Warn("no kafka brokers configured, using in-process queue")
		memoryQueue := queue.NewMemory(log)
		jobQueue, consumer = memoryQueue, memoryQueue
	}

	judgeClient := judge.NewOpenAIClient(judge.ClientConfig{
		BaseURL: cfg.Judge.BaseURL,
		APIKey:  cfg.Judge.APIKey,
		Model:   cfg.Judge.Model,
		Timeout: cfg.Judge.Timeout,
	})

	engineMetrics := analysismetrics.New()
	httpMetrics := platformmetrics.New()
	engine := analysis.NewService(
		subject.NewSource(subjectStore),
		announcement.NewSource(announcementStore),
		verdictStore,
		lockStore,
		progressStore,
		jobQueue,
		judge.NewAdapter(judgeClient, log),
		engineMetrics,
		log,
		analysis.WithRunBudget(cfg.RunBudget),
	)
	subjectService := subject.NewService(subjectStore, engine, log)

	checkers := map[string]httptransport.HealthChecker{}
	if redisClient != nil {
		checkers["redis"] = redisClient
	}
	if db != nil {
		checkers["postgres"] = dbHealth{db: db}
	}

	router := httptransport.NewRouter(
		httptransport.Options{Logger: log, Metrics: httpMetrics, Checkers: checkers},
		subjecthandler.New(subjectService, log),
		announcementhandler.New(announcementStore, log),
		analysishandler.New(engine, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			err := consumer.Run(ctx, engine.Run)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		log.Info("starting houscan", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
