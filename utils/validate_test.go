package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{
		"+33612345678",
		"+8613800138000",
		"+12025550123",
		"+14155552671",
	}
	for _, phone := range valid {
		assert.True(t, ValidatePhone(phone), "expected %s to be valid", phone)
	}

	invalid := []string{
		"",
		"0033612345678",  // 缺少 + 前缀
		"+0612345678",    // 国家码不能以 0 开头
		"+33 6 12 34 56", // 不允许空格
		"+33-612345678",
		"13800138000",
		"+1",
		"+123456789012345678", // 超出 E.164 最大长度
	}
	for _, phone := range invalid {
		assert.False(t, ValidatePhone(phone), "expected %s to be invalid", phone)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("alice@example.com"))
	assert.True(t, ValidateEmail("bob.smith+tag@sub.example.org"))

	assert.False(t, ValidateEmail(""))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("@example.com"))
	assert.False(t, ValidateEmail("alice@"))
}

func TestValidateLatitude(t *testing.T) {
	assert.True(t, ValidateLatitude(0))
	assert.True(t, ValidateLatitude(48.8566))
	assert.True(t, ValidateLatitude(-90))
	assert.True(t, ValidateLatitude(90))

	assert.False(t, ValidateLatitude(90.0001))
	assert.False(t, ValidateLatitude(-91))
}

func TestValidateLongitude(t *testing.T) {
	assert.True(t, ValidateLongitude(0))
	assert.True(t, ValidateLongitude(2.3522))
	assert.True(t, ValidateLongitude(-180))
	assert.True(t, ValidateLongitude(180))

	assert.False(t, ValidateLongitude(180.0001))
	assert.False(t, ValidateLongitude(-181))
}
