package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/yonatan12121/TMS/internal/config"
	"github.com/yonatan12121/TMS/internal/events"
	"github.com/yonatan12121/TMS/internal/jobs"
	"github.com/yonatan12121/TMS/internal/platform/mail"
	"github.com/yonatan12121/TMS/internal/platform/postgres"
	"github.com/yonatan12121/TMS/internal/redact"
	"github.com/yonatan12121/TMS/internal/scheduler"
	"github.com/yonatan12121/TMS/internal/service"
	"github.com/yonatan12121/TMS/internal/service/auth"
)

// application holds the long-lived components of a running server.
type application struct {
	config    *config.Config
	db        *sql.DB
	logger    *slog.Logger
	runner    *jobs.Runner
	scheduler *scheduler.Scheduler
	router    http.Handler
}

// newApplication wires stores, services and background workers on top of an
// open database handle. Nothing is started until run is called.
func newApplication(cfg *config.Config, db *sql.DB, log *slog.Logger) (*application, error) {
	users := postgres.NewPostgresUserStore(db, log)
	tasks := postgres.NewPostgresTaskStore(db, log)
	categories := postgres.NewPostgresCategoryStore(db, log)
	notifications := postgres.NewPostgresNotificationStore(db, log)
	jobStore := postgres.NewPostgresJobStore(db, log)

	sender, err := mail.NewSender(cfg.Mail, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail sender: %w", err)
	}

	runner := jobs.NewRunner(jobStore, jobs.NewRunnerConfig(cfg.Jobs), log)
	runner.Register(jobs.TypeSendEmail, jobs.EmailJobFactory(sender))
	runner.SetErrorHandler(func(job jobs.Job, err error) {
		log.Warn("background job failed",
			slog.String("job_id", job.ID().String()),
			slog.String("job_type", job.Type()),
			slog.String("error", redact.Error(err)))
	})
	dispatcher := jobs.NewEmailDispatcher(runner, sender, log)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	accounts := service.NewAccountService(
		users,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		jwtService,
		dispatcher,
		service.AccountConfig{
			BaseURL:                   cfg.Server.BaseURL,
			VerificationTokenLifetime: time.Duration(cfg.Auth.VerificationTokenLifetimeMinutes) * time.Minute,
			ResetTokenLifetime:        time.Duration(cfg.Auth.ResetTokenLifetimeMinutes) * time.Minute,
		},
		log,
	)

	notificationService := service.NewNotificationService(notifications, log)
	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(notificationService)

	svc := services{
		accounts:      accounts,
		tasks:         service.NewTaskService(db, tasks, categories, users, emitter, log),
		reports:       service.NewReportService(tasks, users, dispatcher, log),
		categories:    service.NewCategoryService(categories, log),
		notifications: notificationService,
		jwt:           jwtService,
	}

	sched := scheduler.New(accounts, jobStore, log)
	if err := sched.Register(cfg.Scheduler); err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second

	return &application{
		config:    cfg,
		db:        db,
		logger:    log,
		runner:    runner,
		scheduler: sched,
		router:    newRouter(svc, timeout, log),
	}, nil
}

// run starts the background workers and serves HTTP until ctx is cancelled.
func (app *application) run(ctx context.Context) error {
	if err := app.runner.Start(); err != nil {
		app.cleanup()
		return fmt.Errorf("failed to start job runner: %w", err)
	}
	app.scheduler.Start()

	err := app.serve(ctx)
	app.cleanup()
	return err
}

// cleanup stops the scheduler and job runner, then closes the database.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}
	if app.runner != nil {
		app.runner.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
		}
	}
}
