package mailer

import (
	"context"
	"errors"
	"sync"
)

// MockClient 记录调用的邮件客户端 mock，实现 Client 接口
type MockClient struct {
	mu    sync.Mutex
	Calls []AlertMail

	// FailNext 置为 true 时，下一次调用返回 mock 错误并自动复位
	FailNext bool
}

func NewMockClient() *MockClient {
	return &MockClient{
		Calls: make([]AlertMail, 0),
	}
}

func (m *MockClient) SendAlertMail(ctx context.Context, mail AlertMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, mail)

	if m.FailNext {
		m.FailNext = false
		return errors.New("mock mail send failure")
	}

	return nil
}
