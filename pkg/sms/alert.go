package sms

import (
	"context"
	"encoding/json"
	"fmt"

	"SecurityAlert/config"
)

// SendSurvivalAlertSMS 向紧急联系人发送求救短信
// phone: 联系人手机号
// ownerName: 触发预警的用户姓名
// message: 预警文案
// mapLink: 最后位置的地图链接，可为空
func SendSurvivalAlertSMS(ctx context.Context, phone, ownerName, message, mapLink string) error {
	cfg := config.Cfg
	signName := cfg.SMSSignName
	templateCode := cfg.SMSTemplateCode

	param := map[string]string{
		"name":    ownerName,
		"message": message,
	}
	if mapLink != "" {
		param["location"] = mapLink
	}

	paramJSON, err := json.Marshal(param)
	if err != nil {
		return fmt.Errorf("failed to marshal template param: %w", err)
	}

	_, err = SendSingle(ctx, phone, signName, templateCode, string(paramJSON))
	return err
}
