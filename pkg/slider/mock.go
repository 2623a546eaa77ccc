package slider

import (
	"context"
)

// MockClient 开发环境使用的 Mock 客户端，不进行真实验证
type MockClient struct{}

// Verify Mock 验证方法，始终通过
func (m *MockClient) Verify(ctx context.Context, captchaVerifyParam, remoteIp, scene string) (bool, error) {
	return true, nil
}
