package sms

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SecurityAlert/config"
	"SecurityAlert/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

func TestSendSurvivalAlertSMS(t *testing.T) {
	mock := NewMockClient()
	SetClient(mock)

	config.Cfg.SMSSignName = "SecurityAlert"
	config.Cfg.SMSTemplateCode = "SMS_SURVIVAL_ALERT"

	err := SendSurvivalAlertSMS(context.Background(),
		"+33612345678", "Alice", "Come find me", "http://maps.google.com/maps?q=1,2")
	require.NoError(t, err)
	require.Len(t, mock.Calls, 1)

	call := mock.Calls[0]
	assert.Equal(t, "+33612345678", call.Phone)
	assert.Equal(t, "SecurityAlert", call.SignName)
	assert.Equal(t, "SMS_SURVIVAL_ALERT", call.TemplateCode)

	var param map[string]string
	require.NoError(t, json.Unmarshal([]byte(call.TemplateParam), &param))
	assert.Equal(t, "Alice", param["name"])
	assert.Equal(t, "Come find me", param["message"])
	assert.Equal(t, "http://maps.google.com/maps?q=1,2", param["location"])
}

func TestSendSurvivalAlertSMSWithoutLocation(t *testing.T) {
	mock := NewMockClient()
	SetClient(mock)

	err := SendSurvivalAlertSMS(context.Background(), "+33612345678", "Alice", "Help", "")
	require.NoError(t, err)
	require.Len(t, mock.Calls, 1)

	var param map[string]string
	require.NoError(t, json.Unmarshal([]byte(mock.Calls[0].TemplateParam), &param))
	_, hasLocation := param["location"]
	assert.False(t, hasLocation)
}

func TestMockClientFailNext(t *testing.T) {
	mock := NewMockClient()
	SetClient(mock)
	mock.FailNext = true

	_, err := SendSingle(context.Background(), "+33612345678", "Sign", "SMS_1", "{}")
	assert.Error(t, err)

	resp, err := SendSingle(context.Background(), "+33612345678", "Sign", "SMS_1", "{}")
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Code)
	assert.Len(t, mock.Calls, 2)
}
