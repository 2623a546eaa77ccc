package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"SecurityAlert/config"
	"SecurityAlert/internal/queue"
	"SecurityAlert/internal/service"
	"SecurityAlert/pkg/logger"
	"SecurityAlert/pkg/mailer"
	"SecurityAlert/pkg/metrics"
	"SecurityAlert/pkg/sms"
	"SecurityAlert/pkg/snowflake"
	"SecurityAlert/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Fatal("Failed to initialize business metrics", zap.Error(err))
	}

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	// 投递是 worker 的全部职责，邮件 / 短信客户端初始化失败直接退出
	if err := mailer.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize mailer client", zap.Error(err))
	}

	if err := sms.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize SMS client", zap.Error(err))
	}

	// 消费者共用同一个通知投递实现
	queue.SetNotificationSender(service.Notification())

	logger.Logger.Info("Worker service starting",
		zap.String("service", config.Cfg.ServiceName+"-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	go func() {
		if err := queue.StartAlertEmailConsumer(ctx); err != nil {
			logger.Logger.Error("Alert email consumer exited", zap.Error(err))
			cancel()
		}
	}()

	go func() {
		if err := queue.StartAlertSMSConsumer(ctx); err != nil {
			logger.Logger.Error("Alert SMS consumer exited", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Logger.Info("Worker service shutting down gracefully")
}
