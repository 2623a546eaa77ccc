package dto

import "time"

// ========== Survival Alert 相关 DTO ==========

// EmergencyContactData 紧急联系人，email 和 phone 至少填一个
type EmergencyContactData struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UpsertAlertRequest 创建或更新求救预警配置
type UpsertAlertRequest struct {
	Message           string                 `json:"message"`
	EmergencyContacts []EmergencyContactData `json:"emergency_contacts"`
}

// AlertConfigData 预警配置视图
type AlertConfigData struct {
	Message           string                 `json:"message"`
	EmergencyContacts []EmergencyContactData `json:"emergency_contacts"`
	Status            string                 `json:"status"`
	LastTriggeredAt   *time.Time             `json:"last_triggered_at,omitempty"`
}

// TriggerAlertRequest 触发求救预警，坐标可选
type TriggerAlertRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// TriggerAlertResponse 触发结果：确认文案加上派发的通知数
type TriggerAlertResponse struct {
	Message       string `json:"message"`
	Status        string `json:"status"`
	Notifications int    `json:"notifications"`
	TriggeredAt   string `json:"triggered_at"`
}
