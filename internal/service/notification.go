package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"SecurityAlert/internal/model"
	"SecurityAlert/pkg/logger"
	"SecurityAlert/pkg/mailer"
	"SecurityAlert/pkg/sms"
)

var (
	notificationService *NotificationService
	notificationOnce    sync.Once
)

func Notification() *NotificationService {
	notificationOnce.Do(func() {
		notificationService = &NotificationService{}
	})
	return notificationService
}

// NotificationService worker 端的通知投递实现
type NotificationService struct{}

// SendEmail 投递一封求救通知邮件
func (s *NotificationService) SendEmail(ctx context.Context, msg model.AlertNotificationMessage) error {
	err := mailer.SendAlertMail(ctx, mailer.AlertMail{
		ToName:       msg.ContactName,
		ToEmail:      msg.Recipient,
		OwnerName:    msg.TriggeredBy,
		Message:      msg.AlertMessage,
		MapLink:      msg.MapLink,
		OwnerReceipt: msg.OwnerReceipt,
	})
	if err != nil {
		return err
	}

	logger.Logger.Info("Alert email delivered",
		zap.String("message_id", msg.MessageID),
		zap.Int64("user_id", msg.UserID),
		zap.Bool("owner_receipt", msg.OwnerReceipt),
	)
	return nil
}

// SendSMS 投递一条求救通知短信
func (s *NotificationService) SendSMS(ctx context.Context, msg model.AlertNotificationMessage) error {
	err := sms.SendSurvivalAlertSMS(ctx, msg.Recipient, msg.TriggeredBy, msg.AlertMessage, msg.MapLink)
	if err != nil {
		return err
	}

	logger.Logger.Info("Alert SMS delivered",
		zap.String("message_id", msg.MessageID),
		zap.Int64("user_id", msg.UserID),
	)
	return nil
}
