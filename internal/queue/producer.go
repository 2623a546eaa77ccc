package queue

import (
	"fmt"

	"go.uber.org/zap"

	"SecurityAlert/internal/model"
	"SecurityAlert/pkg/logger"
	"SecurityAlert/pkg/metrics"
	"SecurityAlert/pkg/snowflake"
	"SecurityAlert/storage/mq"
)

// PublishAlertNotification 发布一条求救通知任务
// 按渠道选择 routing key，worker 端的对应消费者负责投递
func PublishAlertNotification(msg model.AlertNotificationMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.Int64("user_id", msg.UserID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("alert_%d", id)
	}

	routingKey, queueName, err := routeForChannel(msg.Channel)
	if err != nil {
		return err
	}

	err = mq.PublishMessage(mq.NotificationExchange, routingKey, msg)
	if err != nil {
		logger.Logger.Error("Failed to publish alert notification",
			zap.String("message_id", msg.MessageID),
			zap.Int64("user_id", msg.UserID),
			zap.String("channel", string(msg.Channel)),
			zap.Error(err),
		)
		return err
	}

	metrics.UpdateQueueBacklog(queueName, 1)

	logger.Logger.Info("Published alert notification",
		zap.String("message_id", msg.MessageID),
		zap.Int64("user_id", msg.UserID),
		zap.String("channel", string(msg.Channel)),
	)

	return nil
}

// routeForChannel 渠道到 routing key / 队列名的映射
// 积压指标在生产端和消费端都按队列名打标签，两边必须取自同一张映射
func routeForChannel(channel model.NotificationChannel) (routingKey, queueName string, err error) {
	switch channel {
	case model.NotificationChannelEmail:
		return mq.AlertEmailRoutingKey, mq.AlertEmailQueue, nil
	case model.NotificationChannelSMS:
		return mq.AlertSMSRoutingKey, mq.AlertSMSQueue, nil
	default:
		return "", "", fmt.Errorf("unknown notification channel: %s", channel)
	}
}
