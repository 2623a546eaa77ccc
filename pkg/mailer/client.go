package mailer

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"SecurityAlert/config"
	"SecurityAlert/pkg/errors"
	"SecurityAlert/pkg/logger"
)

// AlertMail 求救通知邮件内容
type AlertMail struct {
	ToName    string
	ToEmail   string
	OwnerName string // 触发预警的用户姓名
	Message   string // 预警文案
	MapLink   string // 最后位置的地图链接，可为空
	// OwnerReceipt 为 true 表示这封是发给触发者本人的回执
	OwnerReceipt bool
}

// Client 邮件客户端接口
type Client interface {
	SendAlertMail(ctx context.Context, m AlertMail) error
}

var (
	mailClient Client
	mailOnce   sync.Once
	mailErr    error
)

// Init 初始化邮件客户端
func Init() error {
	mailOnce.Do(func() {
		cfg := config.Cfg

		switch cfg.MailProvider {
		case "sendgrid":
			mailClient = NewSendGridClient(cfg.MailAPIKey, cfg.MailFromName, cfg.MailFromEmail)
		case "mock":
			mailClient = NewMockClient()
		default:
			mailErr = errors.ErrUnsupportedMailProvider
		}

		if mailErr != nil {
			logger.Logger.Error("Failed to initialize mail client", zap.Error(mailErr))
			return
		}

		logger.Logger.Info("Mail client initialized successfully",
			zap.String("provider", cfg.MailProvider),
		)
	})

	return mailErr
}

func GetClient() Client {
	if mailClient == nil {
		panic("Mail client not initialized, call mailer.Init() first")
	}
	return mailClient
}

// SetClient 仅供测试注入 mock
func SetClient(c Client) {
	mailClient = c
}

func SendAlertMail(ctx context.Context, m AlertMail) error {
	return GetClient().SendAlertMail(ctx, m)
}
