package model

// NotificationChannel 通知渠道枚举
type NotificationChannel string

const (
	NotificationChannelEmail NotificationChannel = "email"
	NotificationChannelSMS   NotificationChannel = "sms"
)

// AlertNotificationMessage 告警通知任务消息
// 由 server 端按联系人逐条入队，worker 端消费并投递
type AlertNotificationMessage struct {
	MessageID     string              `json:"message_id"`
	UserID        int64               `json:"user_id"`
	Channel       NotificationChannel `json:"channel"`
	Recipient     string              `json:"recipient"`      // 邮箱地址或国际格式电话号码
	ContactName   string              `json:"contact_name"`   // 联系人称呼，空表示发给触发者本人的回执
	TriggeredBy   string              `json:"triggered_by"`   // 触发者展示名
	AlertMessage  string              `json:"alert_message"`  // 用户自定义求助消息
	MapLink       string              `json:"map_link,omitempty"` // 最后位置的地图链接，无定位时为空
	OwnerReceipt  bool                `json:"owner_receipt"`  // 是否为触发者本人的确认回执
	TriggeredAt   string              `json:"triggered_at"`   // RFC3339
}
