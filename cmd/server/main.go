package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	directory "auditflow/internal/directory"
	"auditflow/internal/events"
	httpapi "auditflow/internal/http"
	"auditflow/internal/jwttoken"
	"auditflow/internal/notify"
	"auditflow/internal/platform/config"
	"auditflow/internal/platform/httpserver"
	"auditflow/internal/platform/logger"
	platformredis "auditflow/internal/platform/redis"
	programhandler "auditflow/internal/program/handler"
	"auditflow/internal/program/metrics"
	programservice "auditflow/internal/program/service"
	programstore "auditflow/internal/program/store"
	"auditflow/internal/schedule"
	"auditflow/migrations"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies and keeps the process lifecycle small. Business
// logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	// Stores: Postgres when configured, in-memory otherwise so the server
	// stays runnable in development without infrastructure.
	var (
		db          *sql.DB
		programs    programservice.ProgramStore
		acceptances programservice.AcceptanceStore
		dirStore    directory.Store
		schedStore  schedule.Store
		resolver    schedule.ProgramResolver
	)
	if cfg.PostgresDSN != "" {
		var err error
		db, err = sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		if err := migrations.Apply(ctx, db); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}

		pg := programstore.NewPostgres(db)
		programs = pg
		resolver = pg
		acceptances = programstore.NewPostgresAcceptances(db)
		dirStore = directory.NewPostgres(db)
		schedStore = schedule.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		mem := programstore.NewInMemoryStore()
		programs = mem
		resolver = mem
		acceptances = programstore.NewInMemoryAcceptanceStore()
		dirStore = directory.NewInMemoryStore()
		schedStore = schedule.NewInMemoryStore()
		log.Warn("POSTGRES_DSN not set, using in-memory stores")
	}

	// Directory with optional Redis read-through cache.
	dirOpts := []directory.Option{directory.WithLogger(log)}
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		cache := directory.NewRedisCache(redisClient.Client, log)
		dirOpts = append(dirOpts, directory.WithCache(cache, cfg.Redis.DirectoryTTL))
	}
	dir := directory.New(dirStore, dirOpts...)

	// Program service with optional Kafka event publishing.
	programOpts := []programservice.Option{
		programservice.WithLogger(log),
		programservice.WithMetrics(metrics.New()),
	}
	var publisher *events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err = events.NewPublisher(ctx, cfg.Kafka.Brokers, log)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer publisher.Close()
		programOpts = append(programOpts, programservice.WithEventPublisher(publisher))
	}
	programSvc := programservice.New(programs, acceptances, dir, programOpts...)
	scheduleSvc := schedule.New(schedStore, resolver, dir, schedule.WithLogger(log))

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	checks := map[string]httpapi.HealthCheck{}
	if db != nil {
		checks["postgres"] = func(r *http.Request) error { return db.PingContext(r.Context()) }
	}
	if redisClient != nil {
		checks["redis"] = func(r *http.Request) error { return redisClient.Health(r.Context()) }
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:       log,
		Tokens:       tokens,
		Programs:     programhandler.New(programSvc, log),
		Schedules:    schedule.NewHandler(scheduleSvc, log),
		Directory:    directory.NewHandler(dir, log),
		HealthChecks: checks,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting auditflow server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Submission notification worker: consumes audit.submitted events and
	// forwards them to the email service.
	if len(cfg.Kafka.Brokers) > 0 && cfg.EmailBaseURL != "" {
		worker, err := notify.NewWorker(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, notify.NewHTTPSender(cfg.EmailBaseURL), log)
		if err != nil {
			return fmt.Errorf("start notify worker: %w", err)
		}
		g.Go(func() error {
			defer worker.Close()
			return worker.Run(ctx)
		})
	}

	return g.Wait()
}
