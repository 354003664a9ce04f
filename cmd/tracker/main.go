package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	http_api "github.com/fairooz-nawal/Job-Application-Tracker/internal/api/http"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/config"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/health"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/infra/mail"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/scheduler"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/tracing"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/usecase"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize logger and tracer
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to load time zone: %v", err)
	}

	tracerShutdown, err := tracing.InitTracer(cfg.TracingEnabled, log.Writer(), logger)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tracerShutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", "error", err)
		}
	}()

	nodeID := uuid.New().String()
	logger.Info("starting job tracker", "node_id", nodeID, "storage", cfg.StorageDriver, "timezone", loc.String())

	// 3. Create root context for lifecycle management
	rootCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. Open the store
	st, err := openStore(rootCtx, cfg, nodeID, logger)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StorageDriver, err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := st.close(closeCtx); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	// 5. Instantiate components
	notifier := mail.NewSMTPNotifier(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.EmailUser,
		Password: cfg.EmailPassword,
	}, logger)

	recipient := ""
	if cfg.MailEnabled() {
		recipient = cfg.EmailTo
	} else {
		logger.Warn("email credentials missing, reminders and test email are disabled")
	}

	clock := usecase.ClockIn(loc)
	reminders := usecase.NewReminderService(st.repos, notifier, st.locker, usecase.ReminderConfig{
		Recipient:    recipient,
		Dedupe:       cfg.ReminderDedupe,
		SendInterval: cfg.ReminderSendInterval,
	}, clock, logger)

	router := http_api.NewRouter(http_api.Services{
		Jobs:       usecase.NewJobService(st.repos.Jobs, clock, logger),
		Interviews: usecase.NewInterviewService(st.repos.Interviews, clock, logger),
		Tasks:      usecase.NewTaskService(st.repos.Tasks, clock, logger),
		FollowUps:  usecase.NewFollowUpService(st.repos.FollowUps, clock, logger),
		Statistics: usecase.NewStatisticsService(st.repos, clock, logger),
		Reminders:  reminders,
	}, http_api.RouterConfig{CronSecret: cfg.CronSecret, Store: st}, logger)

	cronScheduler := scheduler.NewCronScheduler(loc, logger)
	if cfg.ReminderSchedule != "" {
		err := cronScheduler.AddJob("reminder-sweep", cfg.ReminderSchedule, func(ctx context.Context) error {
			_, err := reminders.Sweep(ctx)
			return err
		})
		if err != nil {
			log.Fatalf("Failed to schedule reminder sweep: %v", err)
		}
	}

	scheduleService := usecase.NewScheduleService(st.election, cronScheduler, nodeID, logger)

	healthServer := health.NewServer(logger)
	checker := health.NewChecker(st, healthServer, cfg.HealthInterval, logger)

	grpcLis, err := net.Listen("tcp", cfg.GrpcListenAddr)
	if err != nil {
		log.Fatalf("Failed to listen for gRPC: %v", err)
	}

	server := &http.Server{
		Addr:              cfg.HttpListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 6. Run everything until shutdown
	g, ctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		err := scheduleService.Start(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		checker.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return healthServer.Serve(grpcLis)
	})
	g.Go(func() error {
		logger.Info("starting HTTP API server", "address", cfg.HttpListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down application gracefully...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		healthServer.Stop()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("application stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("application shut down")
}
