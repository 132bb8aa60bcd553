package service

import (
	"context"
	"log/slog"

	"github.com/yonatan12121/TMS/internal/platform/logger"
	"github.com/yonatan12121/TMS/internal/platform/mail"
)

// MailQueue accepts outgoing email for background delivery.
// *jobs.EmailDispatcher satisfies it.
type MailQueue interface {
	Enqueue(ctx context.Context, msg mail.Message) error
}

// enqueueMail hands msg to the queue. Delivery problems never fail the
// operation that produced the email, so errors are only logged.
func enqueueMail(ctx context.Context, q MailQueue, fallback *slog.Logger, msg mail.Message) {
	if q == nil {
		return
	}
	if err := q.Enqueue(ctx, msg); err != nil {
		logger.FromContextOrDefault(ctx, fallback).Error("failed to queue email",
			slog.String("subject", msg.Subject),
			slog.String("error", err.Error()))
	}
}
