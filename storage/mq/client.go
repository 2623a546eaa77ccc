package mq

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"SecurityAlert/config"
)

// 通知派发使用的 exchange / queue / routing key 拓扑
const (
	NotificationExchange = "salert.notifications"

	AlertEmailQueue = "survival_alert_email"
	AlertSMSQueue   = "survival_alert_sms"

	AlertEmailRoutingKey = "notification.email.survival_alert"
	AlertSMSRoutingKey   = "notification.sms.survival_alert"
)

var (
	conn     *amqp.Connection
	connOnce sync.Once
	connErr  error
)

func Init() error {
	connOnce.Do(func() {
		url := config.Cfg.GetRabbitMQURL()
		conn, connErr = amqp.Dial(url)
		if connErr != nil {
			return
		}

		connErr = declareTopology()
	})

	return connErr
}

// declareTopology 声明通知拓扑，幂等
func declareTopology() error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		NotificationExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	bindings := map[string]string{
		AlertEmailQueue: AlertEmailRoutingKey,
		AlertSMSQueue:   AlertSMSRoutingKey,
	}

	for queue, key := range bindings {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return err
		}
		if err := ch.QueueBind(queue, key, NotificationExchange, false, nil); err != nil {
			return err
		}
	}

	return nil
}

func Connection() *amqp.Connection {
	return conn
}

func Close(ctx context.Context) error {
	if conn == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
