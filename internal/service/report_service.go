package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/platform/logger"
	"github.com/yonatan12121/TMS/internal/platform/mail"
	"github.com/yonatan12121/TMS/internal/store"
)

// ReportService summarizes the tasks a user owns or is assigned to.
type ReportService interface {
	// Generate builds the report. With sendEmail set, a copy is mailed to
	// the user; a mailing failure does not fail the call.
	Generate(ctx context.Context, userID uuid.UUID, sendEmail bool) (*domain.Report, error)
}

// ReportServiceImpl implements ReportService.
type ReportServiceImpl struct {
	tasks  store.TaskStore
	users  store.UserStore
	mailer MailQueue
	now    func() time.Time
	logger *slog.Logger
}

var _ ReportService = (*ReportServiceImpl)(nil)

// NewReportService creates a ReportServiceImpl.
func NewReportService(tasks store.TaskStore, users store.UserStore, mailer MailQueue, log *slog.Logger) *ReportServiceImpl {
	if log == nil {
		log = slog.Default()
	}
	return &ReportServiceImpl{
		tasks:  tasks,
		users:  users,
		mailer: mailer,
		now:    time.Now,
		logger: log.With(slog.String("component", "report_service")),
	}
}

// Generate implements ReportService.Generate
func (s *ReportServiceImpl) Generate(ctx context.Context, userID uuid.UUID, sendEmail bool) (*domain.Report, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.tasks.ListVisible(ctx, userID)
	if err != nil {
		return nil, NewServiceError("report", "generate", err)
	}

	report := domain.BuildReport(tasks, s.now().UTC())

	if sendEmail {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			log.Error("failed to load user for report email",
				slog.String("user_id", userID.String()),
				slog.String("error", err.Error()))
		} else {
			enqueueMail(ctx, s.mailer, s.logger, mail.ReportMessage(user.Email, user.Name, report))
		}
	}

	log.Debug("report generated",
		slog.String("user_id", userID.String()),
		slog.Int("total_tasks", report.TotalTasks))
	return report, nil
}
