package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"SecurityAlert/pkg/logger"
)

// SendGridClient 通过 SendGrid 发送求救通知邮件
type SendGridClient struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func NewSendGridClient(apiKey, fromName, fromEmail string) *SendGridClient {
	return &SendGridClient{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SendGridClient) SendAlertMail(ctx context.Context, m AlertMail) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(m.ToName, m.ToEmail)

	subject := fmt.Sprintf("🚨 URGENT SURVIVAL ALERT: %s", m.OwnerName)
	if m.OwnerReceipt {
		subject = "Your survival alert has been sent"
	}

	plainText := buildPlainText(m)
	htmlContent := buildHTML(m)

	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		logger.Logger.Error("Failed to send alert mail",
			zap.String("to", m.ToEmail),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send alert mail: %w", err)
	}

	if resp.StatusCode >= 400 {
		logger.Logger.Error("SendGrid API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", resp.Body),
		)
		return fmt.Errorf("sendgrid API error: status=%d", resp.StatusCode)
	}

	logger.Logger.Debug("Alert mail sent successfully",
		zap.String("to", m.ToEmail),
		zap.Int("status_code", resp.StatusCode),
	)

	return nil
}

func buildPlainText(m AlertMail) string {
	if m.OwnerReceipt {
		text := fmt.Sprintf(`Hello %s,

Your survival alert has been triggered and your emergency contacts were notified.

Alert message: %s
`, m.ToName, m.Message)
		if m.MapLink != "" {
			text += fmt.Sprintf("\nShared location: %s\n", m.MapLink)
		}
		return text
	}

	text := fmt.Sprintf(`Hello %s,

%s has triggered a survival alert and listed you as an emergency contact.

Message: %s
`, m.ToName, m.OwnerName, m.Message)
	if m.MapLink != "" {
		text += fmt.Sprintf("\nLast known location: %s\n", m.MapLink)
	}
	text += "\nPlease try to reach them immediately. If you cannot, contact local authorities.\n"
	return text
}

func buildHTML(m AlertMail) string {
	locationBlock := ""
	if m.MapLink != "" {
		locationBlock = fmt.Sprintf(`
        <p style="text-align: center;">
            <a href="%s" class="button" style="color: white;">View Last Known Location</a>
        </p>`, m.MapLink)
	}

	if m.OwnerReceipt {
		return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #2196F3; color: white; padding: 20px; border-radius: 5px 5px 0 0; text-align: center; }
        .content { background-color: #f9f9f9; padding: 30px; border: 1px solid #ddd; }
        .button { display: inline-block; background-color: #2196F3; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="header"><h1>Alert Sent</h1></div>
    <div class="content">
        <p>Hello %s,</p>
        <p>Your survival alert has been triggered and your emergency contacts were notified.</p>
        <p><strong>Alert message:</strong> %s</p>%s
    </div>
</body>
</html>`, m.ToName, m.Message, locationBlock)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #d32f2f; color: white; padding: 20px; border-radius: 5px 5px 0 0; text-align: center; }
        .content { background-color: #f9f9f9; padding: 30px; border: 1px solid #ddd; }
        .button { display: inline-block; background-color: #d32f2f; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; margin: 20px 0; }
        .warning { background-color: #fff3cd; border: 1px solid #ffc107; padding: 10px; border-radius: 5px; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="header"><h1>🚨 Survival Alert</h1></div>
    <div class="content">
        <p>Hello %s,</p>
        <p><strong>%s</strong> has triggered a survival alert and listed you as an emergency contact.</p>
        <p><strong>Message:</strong> %s</p>%s
        <div class="warning">
            <strong>Please try to reach them immediately.</strong> If you cannot, contact local authorities.
        </div>
    </div>
</body>
</html>`, m.ToName, m.OwnerName, m.Message, locationBlock)
}
