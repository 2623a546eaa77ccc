package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"SecurityAlert/config"
	"SecurityAlert/internal/cache"
	"SecurityAlert/internal/model"
	"SecurityAlert/internal/model/dto"
	"SecurityAlert/internal/queue"
	"SecurityAlert/pkg/errors"
	"SecurityAlert/pkg/logger"
	"SecurityAlert/pkg/metrics"
	"SecurityAlert/storage/database"
	"SecurityAlert/utils"
)

var (
	alertService *AlertService
	alertOnce    sync.Once
)

func Alert() *AlertService {
	alertOnce.Do(func() {
		alertService = &AlertService{}
	})
	return alertService
}

type AlertService struct{}

// GetOrCreate 读取用户的预警配置，不存在时落一条默认配置
// 并发首次访问时靠 user_id 唯一索引 + ON CONFLICT DO NOTHING 兜底，输掉的一方回读已有记录
func (s *AlertService) GetOrCreate(ctx context.Context, userID int64) (*model.SurvivalAlert, error) {
	db := database.DB().WithContext(ctx)

	var alert model.SurvivalAlert
	err := db.Where("user_id = ?", userID).First(&alert).Error
	if err == nil {
		return &alert, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to query survival alert: %w", err)
	}

	alert = model.SurvivalAlert{
		UserID:            userID,
		Message:           model.DefaultAlertMessage,
		EmergencyContacts: model.EmergencyContacts{},
		Status:            model.AlertStatusInactive,
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&alert)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create default survival alert: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// 并发创建被别人抢先，回读那一条
		if err := db.Where("user_id = ?", userID).First(&alert).Error; err != nil {
			return nil, fmt.Errorf("failed to reload survival alert after conflict: %w", err)
		}
		return &alert, nil
	}

	logger.Logger.Info("Default survival alert created",
		zap.Int64("user_id", userID),
	)

	return &alert, nil
}

// Upsert 保存预警配置，联系人校验全部通过才写库
// 保存后状态归位：有联系人为 active，否则 inactive（清掉 triggered）
func (s *AlertService) Upsert(ctx context.Context, userID int64, req *dto.UpsertAlertRequest) (*model.SurvivalAlert, error) {
	contacts, violations := validateContacts(req.EmergencyContacts)
	if len(violations) > 0 {
		return nil, errors.ValidationError.WithDetails(violations)
	}

	message := req.Message
	if message == "" {
		return nil, errors.ValidationError.WithDetails(map[string]interface{}{
			"message": "is required",
		})
	}
	if utf8.RuneCountInString(message) > 1000 {
		return nil, errors.ValidationError.WithDetails(map[string]interface{}{
			"message": "must not exceed 1000 characters",
		})
	}

	alert, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	alert.Message = message
	alert.EmergencyContacts = contacts
	if len(contacts) > 0 {
		alert.Status = model.AlertStatusActive
	} else {
		alert.Status = model.AlertStatusInactive
	}

	if err := database.DB().WithContext(ctx).Save(alert).Error; err != nil {
		return nil, fmt.Errorf("failed to save survival alert: %w", err)
	}

	logger.Logger.Info("Survival alert configuration saved",
		zap.Int64("user_id", userID),
		zap.Int("contacts", len(contacts)),
		zap.String("status", string(alert.Status)),
	)

	return alert, nil
}

// Trigger 触发求救预警：校验配置与坐标，抢触发锁，逐联系人入队，落触发状态
func (s *AlertService) Trigger(ctx context.Context, user *model.User, req *dto.TriggerAlertRequest) (*dto.TriggerAlertResponse, error) {
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, errors.ValidationError.WithDetails(map[string]interface{}{
			"location": "latitude and longitude must be provided together",
		})
	}
	if req.Latitude != nil {
		violations := map[string]interface{}{}
		if !utils.ValidateLatitude(*req.Latitude) {
			violations["latitude"] = "must be between -90 and 90"
		}
		if !utils.ValidateLongitude(*req.Longitude) {
			violations["longitude"] = "must be between -180 and 180"
		}
		if len(violations) > 0 {
			return nil, errors.ValidationError.WithDetails(violations)
		}
	}

	alert, err := s.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if len(alert.EmergencyContacts) == 0 {
		return nil, errors.AlertNotConfigured
	}

	// 同一用户的并发触发只放行一个，锁的 TTL 是进程异常退出时的兜底
	lockTTL := time.Duration(config.Cfg.TriggerLockSeconds) * time.Second
	locked, err := cache.TryTriggerLock(ctx, user.ID, lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire trigger lock: %w", err)
	}
	if !locked {
		return nil, errors.TriggerInProgress
	}
	defer func() {
		if err := cache.ReleaseTriggerLock(ctx, user.ID); err != nil {
			logger.Logger.Warn("Failed to release trigger lock",
				zap.Int64("user_id", user.ID),
				zap.Error(err),
			)
		}
	}()

	now := time.Now().UTC()

	mapLink := ""
	if req.Latitude != nil {
		mapLink = BuildMapLink(*req.Latitude, *req.Longitude)
	}

	messages := BuildAlertMessages(user, alert, mapLink, now)

	// 入队失败不回滚已入队的，尽力投递，失败只记录
	published := 0
	for _, msg := range messages {
		if err := queue.PublishAlertNotification(msg); err != nil {
			logger.Logger.Error("Failed to enqueue alert notification",
				zap.Int64("user_id", user.ID),
				zap.String("channel", string(msg.Channel)),
				zap.String("recipient", msg.Recipient),
				zap.Error(err),
			)
			continue
		}
		published++
	}

	alert.MarkTriggered(now)
	if err := database.DB().WithContext(ctx).Save(alert).Error; err != nil {
		// 通知已入队，状态落库失败只记录
		logger.Logger.Error("Failed to persist triggered state",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
	}

	metrics.RecordAlertTriggered(len(alert.EmergencyContacts))

	logger.Logger.Info("Survival alert triggered",
		zap.Int64("user_id", user.ID),
		zap.Int("notifications", published),
		zap.Bool("with_location", mapLink != ""),
	)

	return &dto.TriggerAlertResponse{
		Message:       "Survival alert triggered. Your emergency contacts have been notified.",
		Status:        string(model.AlertStatusTriggered),
		Notifications: published,
		TriggeredAt:   now.Format(time.RFC3339),
	}, nil
}

// BuildMapLink 生成最后位置的地图链接
func BuildMapLink(lat, lon float64) string {
	return "http://maps.google.com/maps?q=" +
		strconv.FormatFloat(lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(lon, 'f', -1, 64)
}

// BuildAlertMessages 展开触发产生的通知任务
// 每个联系人一条：有邮箱走邮件，只有电话走短信；触发者本人追加一条邮件回执
func BuildAlertMessages(user *model.User, alert *model.SurvivalAlert, mapLink string, triggeredAt time.Time) []model.AlertNotificationMessage {
	base := model.AlertNotificationMessage{
		UserID:       user.ID,
		TriggeredBy:  user.Name,
		AlertMessage: alert.Message,
		MapLink:      mapLink,
		TriggeredAt:  triggeredAt.Format(time.RFC3339),
	}

	messages := make([]model.AlertNotificationMessage, 0, len(alert.EmergencyContacts)+1)

	for _, contact := range alert.EmergencyContacts {
		msg := base
		msg.ContactName = contact.Name

		switch {
		case contact.Email != "":
			msg.Channel = model.NotificationChannelEmail
			msg.Recipient = contact.Email
		case contact.Phone != "":
			msg.Channel = model.NotificationChannelSMS
			msg.Recipient = contact.Phone
		default:
			continue
		}

		messages = append(messages, msg)
	}

	// 触发者本人只收一条回执
	receipt := base
	receipt.Channel = model.NotificationChannelEmail
	receipt.Recipient = user.Email
	receipt.ContactName = user.Name
	receipt.OwnerReceipt = true
	messages = append(messages, receipt)

	return messages
}

// validateContacts 校验联系人列表，返回规范化后的列表与全部违规项
func validateContacts(contacts []dto.EmergencyContactData) (model.EmergencyContacts, map[string]interface{}) {
	violations := map[string]interface{}{}
	result := make(model.EmergencyContacts, 0, len(contacts))

	for i, c := range contacts {
		prefix := fmt.Sprintf("emergency_contacts.%d", i)

		if c.Name == "" {
			violations[prefix+".name"] = "is required"
		} else if len(c.Name) > 255 {
			violations[prefix+".name"] = "must not exceed 255 characters"
		}

		if c.Email == "" && c.Phone == "" {
			violations[prefix] = "either email or phone is required"
		}
		if c.Email != "" && !utils.ValidateEmail(c.Email) {
			violations[prefix+".email"] = "invalid email address"
		}
		if c.Phone != "" && !utils.ValidatePhone(c.Phone) {
			violations[prefix+".phone"] = "must be an international number like +33612345678"
		}

		result = append(result, model.EmergencyContact{
			Name:  c.Name,
			Email: c.Email,
			Phone: c.Phone,
		})
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return result, nil
}

// ToAlertConfigData 配置视图
func ToAlertConfigData(alert *model.SurvivalAlert) dto.AlertConfigData {
	contacts := make([]dto.EmergencyContactData, 0, len(alert.EmergencyContacts))
	for _, c := range alert.EmergencyContacts {
		contacts = append(contacts, dto.EmergencyContactData{
			Name:  c.Name,
			Email: c.Email,
			Phone: c.Phone,
		})
	}

	return dto.AlertConfigData{
		Message:           alert.Message,
		EmergencyContacts: contacts,
		Status:            string(alert.Status),
		LastTriggeredAt:   alert.LastTriggeredAt,
	}
}
