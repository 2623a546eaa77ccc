package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"SecurityAlert/internal/cache"
	"SecurityAlert/internal/model"
	"SecurityAlert/pkg/errors"
	"SecurityAlert/pkg/logger"
	"SecurityAlert/pkg/metrics"
	"SecurityAlert/storage/mq"
)

// NotificationSender worker 端的投递实现（邮件 / 短信）
type NotificationSender interface {
	SendEmail(ctx context.Context, msg model.AlertNotificationMessage) error
	SendSMS(ctx context.Context, msg model.AlertNotificationMessage) error
}

var sender NotificationSender

// SetNotificationSender 设置通知投递实现（在 worker 启动时调用）
func SetNotificationSender(s NotificationSender) {
	sender = s
}

// StartAlertEmailConsumer 启动邮件通知消费者，阻塞运行
func StartAlertEmailConsumer(ctx context.Context) error {
	return startAlertConsumer(ctx, mq.AlertEmailQueue, "alert_email_consumer", func(msg model.AlertNotificationMessage) error {
		return sender.SendEmail(ctx, msg)
	})
}

// StartAlertSMSConsumer 启动短信通知消费者，阻塞运行
func StartAlertSMSConsumer(ctx context.Context) error {
	return startAlertConsumer(ctx, mq.AlertSMSQueue, "alert_sms_consumer", func(msg model.AlertNotificationMessage) error {
		return sender.SendSMS(ctx, msg)
	})
}

func startAlertConsumer(ctx context.Context, queue, tag string, deliver func(model.AlertNotificationMessage) error) error {
	return mq.Consume(mq.ConsumeOptions{
		Queue:         queue,
		ConsumerTag:   tag,
		PrefetchCount: 10,
		Handler:       newDeliveryHandler(ctx, queue, deliver),
	})
}

// newDeliveryHandler 组装一条消息的消费逻辑：幂等检查、投递、错误分类
// 积压指标只在消息终局离队时递减一次：投递成功或不可重试丢弃；
// 重试（Nack 重入队）和重复消息跳过都不动计数
func newDeliveryHandler(ctx context.Context, queue string, deliver func(model.AlertNotificationMessage) error) func([]byte) error {
	return func(body []byte) error {
		var msg model.AlertNotificationMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal alert notification message: %w", err)
		}

		// 【幂等性检查】使用 SETNX 原子性地检查并标记消息正在处理
		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 如果检查失败，继续处理（不阻塞业务），但可能重复处理
		} else if !processed {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
			)
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		start := time.Now()
		if err := deliver(msg); err != nil {
			metrics.RecordNotificationFailed(string(msg.Channel), "send_error")

			// 配置类错误重试没有意义，丢弃并结清积压
			if errors.IsNonRetryableError(err) {
				metrics.UpdateQueueBacklog(queue, -1)
				logger.Logger.Error("Dropping notification after non-retryable error",
					zap.String("message_id", msg.MessageID),
					zap.String("channel", string(msg.Channel)),
					zap.Error(err),
				)
				return nil
			}

			// 处理失败，取消标记，允许重试
			if unmarkErr := cache.UnmarkMessageProcessing(ctx, msg.MessageID); unmarkErr != nil {
				logger.Logger.Warn("Failed to unmark message processing",
					zap.String("message_id", msg.MessageID),
					zap.Error(unmarkErr),
				)
			}
			return fmt.Errorf("failed to deliver notification: %w", err)
		}

		metrics.RecordNotificationSent(string(msg.Channel), time.Since(start).Seconds())
		metrics.UpdateQueueBacklog(queue, -1)

		// 处理完成后标记消息已处理（延长 TTL）
		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}
}
