package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AlertStatus 生存告警状态枚举
type AlertStatus string

const (
	AlertStatusInactive  AlertStatus = "inactive"  // 初始状态，尚未配置
	AlertStatusActive    AlertStatus = "active"    // 已配置联系人，可随时触发
	AlertStatusTriggered AlertStatus = "triggered" // 已触发，保持到下次保存配置
)

// DefaultAlertMessage 新建配置时的默认求助消息
const DefaultAlertMessage = "I need urgent help. This is my last known location."

// SurvivalAlert 生存告警配置，每个用户唯一一条
// 联系人以 JSONB 数组存储，顺序即用户配置顺序

type SurvivalAlert struct {
	BaseModel
	UserID            int64             `gorm:"uniqueIndex;not null" json:"user_id"`
	User              *User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Message           string            `gorm:"type:text;not null" json:"message"`
	EmergencyContacts EmergencyContacts `gorm:"type:jsonb;not null;default:'[]'" json:"emergency_contacts"`
	Status            AlertStatus       `gorm:"type:varchar(16);not null;default:'inactive'" json:"status"`
	LastTriggeredAt   *time.Time        `gorm:"type:timestamptz" json:"last_triggered_at,omitempty"`
}

// TableName 指定表名
func (SurvivalAlert) TableName() string {
	return "survival_alerts"
}

// MarkTriggered 执行 active|inactive -> triggered 的状态迁移。
// 只表示"已发起投递"，不代表联系人已实际收到通知。
func (a *SurvivalAlert) MarkTriggered(now time.Time) {
	a.Status = AlertStatusTriggered
	a.LastTriggeredAt = &now
}

// EmergencyContact 紧急联系人（存储在 survival_alerts.emergency_contacts JSONB 中）
// 约束：Name 必填且不超过 255 字符，Email 与 Phone 至少其一
type EmergencyContact struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// EmergencyContacts 紧急联系人数组（JSONB）
type EmergencyContacts []EmergencyContact

func (c EmergencyContacts) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return json.Marshal(c)
}

func (c *EmergencyContacts) Scan(value interface{}) error {
	if value == nil {
		*c = EmergencyContacts{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal emergency contacts value")
	}
	return json.Unmarshal(bytes, c)
}
