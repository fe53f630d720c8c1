package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/form-service/internal/config"
	"github.com/spec-kit/form-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSubmissionCreated, n.onSubmissionCreated)
	n.dispatcher.Subscribe(events.EventSubmissionDeleted, n.onSubmissionDeleted)
}

func (n *NotificationService) onSubmissionCreated(_ context.Context, event events.Event) error {
	n.logger.Info("notification: submission created",
		zap.String("submission_id", event.SubmissionID),
		zap.String("user_id", event.Actor.UserID),
		zap.String("email_from", n.cfg.EmailFrom),
		zap.String("webhook_url", n.cfg.WebhookURL),
	)
	return nil
}

func (n *NotificationService) onSubmissionDeleted(_ context.Context, event events.Event) error {
	n.logger.Info("notification: submission deleted",
		zap.String("submission_id", event.SubmissionID),
		zap.String("user_id", event.Actor.UserID),
	)
	return nil
}
