package service

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"SecurityAlert/internal/cache"
	"SecurityAlert/internal/model"
	"SecurityAlert/internal/model/dto"
	apperrors "SecurityAlert/pkg/errors"
	"SecurityAlert/pkg/logger"
	"SecurityAlert/storage/database"
	storageredis "SecurityAlert/storage/redis"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	database.SetDB(gormDB)
	t.Cleanup(func() {
		database.SetDB(nil)
		conn.Close()
	})

	return mock
}

func newMockRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	storageredis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		storageredis.SetClient(nil)
	})

	return mr
}

// anyNonNullTime 匹配一个非空的时间参数
type anyNonNullTime struct{}

func (anyNonNullTime) Match(v driver.Value) bool {
	_, ok := v.(time.Time)
	return ok
}

func TestBuildMapLink(t *testing.T) {
	assert.Equal(t, "http://maps.google.com/maps?q=48.86,2.35", BuildMapLink(48.86, 2.35))
	assert.Equal(t, "http://maps.google.com/maps?q=-33.9249,18.4241", BuildMapLink(-33.9249, 18.4241))
	assert.Equal(t, "http://maps.google.com/maps?q=0,0", BuildMapLink(0, 0))
}

func TestValidateContacts(t *testing.T) {
	contacts, violations := validateContacts([]dto.EmergencyContactData{
		{Name: "Ana", Email: "ana@example.com"},
		{Name: "Bob", Phone: "+33612345678"},
	})
	require.Empty(t, violations)
	require.Len(t, contacts, 2)
	assert.Equal(t, "ana@example.com", contacts[0].Email)
	assert.Equal(t, "+33612345678", contacts[1].Phone)
}

func TestValidateContactsCollectsAllViolations(t *testing.T) {
	_, violations := validateContacts([]dto.EmergencyContactData{
		{Name: "", Email: "not-an-email"},
		{Name: "Carol"},
		{Name: "Dan", Phone: "0612345678"},
	})

	assert.Contains(t, violations, "emergency_contacts.0.name")
	assert.Contains(t, violations, "emergency_contacts.0.email")
	assert.Contains(t, violations, "emergency_contacts.1")
	assert.Contains(t, violations, "emergency_contacts.2.phone")
	assert.Len(t, violations, 4)
}

func TestBuildAlertMessages(t *testing.T) {
	user := &model.User{
		BaseModel: model.BaseModel{ID: 7},
		Name:      "Alice",
		Email:     "alice@example.com",
	}
	alert := &model.SurvivalAlert{
		UserID:  7,
		Message: "Come find me",
		EmergencyContacts: model.EmergencyContacts{
			{Name: "Ana", Email: "ana@example.com", Phone: "+33611111111"}, // 有邮箱优先走邮件
			{Name: "Bob", Phone: "+33622222222"},
			{Name: "Ghost"}, // 无邮箱无电话，跳过
		},
	}

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	messages := BuildAlertMessages(user, alert, "http://maps.google.com/maps?q=1,2", now)

	require.Len(t, messages, 3)

	assert.Equal(t, model.NotificationChannelEmail, messages[0].Channel)
	assert.Equal(t, "ana@example.com", messages[0].Recipient)
	assert.Equal(t, "Ana", messages[0].ContactName)
	assert.False(t, messages[0].OwnerReceipt)

	assert.Equal(t, model.NotificationChannelSMS, messages[1].Channel)
	assert.Equal(t, "+33622222222", messages[1].Recipient)

	// 最后一条是触发者本人的邮件回执
	receipt := messages[2]
	assert.True(t, receipt.OwnerReceipt)
	assert.Equal(t, model.NotificationChannelEmail, receipt.Channel)
	assert.Equal(t, "alice@example.com", receipt.Recipient)

	for _, msg := range messages {
		assert.Equal(t, int64(7), msg.UserID)
		assert.Equal(t, "Alice", msg.TriggeredBy)
		assert.Equal(t, "Come find me", msg.AlertMessage)
		assert.Equal(t, "http://maps.google.com/maps?q=1,2", msg.MapLink)
		assert.Equal(t, "2026-08-31T12:00:00Z", msg.TriggeredAt)
	}
}

func TestBuildAlertMessagesOwnerReceiptOnly(t *testing.T) {
	user := &model.User{
		BaseModel: model.BaseModel{ID: 3},
		Name:      "Solo",
		Email:     "solo@example.com",
	}
	alert := &model.SurvivalAlert{
		UserID:            3,
		Message:           model.DefaultAlertMessage,
		EmergencyContacts: model.EmergencyContacts{},
	}

	messages := BuildAlertMessages(user, alert, "", time.Now().UTC())

	require.Len(t, messages, 1)
	assert.True(t, messages[0].OwnerReceipt)
	assert.Empty(t, messages[0].MapLink)
}

func TestGetOrCreateReturnsExistingAlert(t *testing.T) {
	mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "user_id", "message", "emergency_contacts", "status"}).
		AddRow(int64(11), int64(7), "Come find me", []byte(`[{"name":"Ana","email":"ana@example.com"}]`), "active")
	mock.ExpectQuery(`SELECT .* FROM "survival_alerts"`).
		WithArgs(int64(7), 1).
		WillReturnRows(rows)

	alert, err := Alert().GetOrCreate(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), alert.UserID)
	assert.Equal(t, model.AlertStatusActive, alert.Status)
	require.Len(t, alert.EmergencyContacts, 1)
	assert.Equal(t, "Ana", alert.EmergencyContacts[0].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateCreatesDefaultAlert(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "survival_alerts"`).
		WithArgs(int64(9), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "survival_alerts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(21)))
	mock.ExpectCommit()

	alert, err := Alert().GetOrCreate(context.Background(), 9)
	require.NoError(t, err)

	assert.Equal(t, model.DefaultAlertMessage, alert.Message)
	assert.Equal(t, model.AlertStatusInactive, alert.Status)
	assert.Empty(t, alert.EmergencyContacts)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateRacingCreateFallsBackToExistingRow(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "survival_alerts"`).
		WithArgs(int64(9), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	// 唯一索引撞上并发创建时 DO NOTHING 一行都不返回
	mock.ExpectQuery(`INSERT INTO "survival_alerts" .* ON CONFLICT`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .* FROM "survival_alerts"`).
		WithArgs(int64(9), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "message", "emergency_contacts", "status"}).
			AddRow(int64(33), int64(9), "Come find me", []byte(`[{"name":"Ana","email":"ana@example.com"}]`), "active"))

	alert, err := Alert().GetOrCreate(context.Background(), 9)
	require.NoError(t, err)

	assert.Equal(t, int64(33), alert.ID)
	assert.Equal(t, "Come find me", alert.Message)
	assert.Equal(t, model.AlertStatusActive, alert.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRejectsInvalidContactsBeforeTouchingDB(t *testing.T) {
	_, err := Alert().Upsert(context.Background(), 1, &dto.UpsertAlertRequest{
		EmergencyContacts: []dto.EmergencyContactData{
			{Name: "", Phone: "not-a-phone"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Validation failed")
}

func TestUpsertRequiresMessage(t *testing.T) {
	_, err := Alert().Upsert(context.Background(), 1, &dto.UpsertAlertRequest{
		Message: "",
		EmergencyContacts: []dto.EmergencyContactData{
			{Name: "Ana", Email: "ana@example.com"},
		},
	})
	require.Error(t, err)

	var detailed *apperrors.DetailedError
	require.ErrorAs(t, err, &detailed)
	assert.Equal(t, "is required", detailed.Details["message"])
}

func TestUpsertMessageLengthCountsRunesNotBytes(t *testing.T) {
	// 1001 个字符超限，无论单字符占几个字节
	_, err := Alert().Upsert(context.Background(), 1, &dto.UpsertAlertRequest{
		Message: strings.Repeat("救", 1001),
		EmergencyContacts: []dto.EmergencyContactData{
			{Name: "Ana", Email: "ana@example.com"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Validation failed")

	// 1000 个多字节字符正好在限制内，应当落库
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT .* FROM "survival_alerts"`).
		WithArgs(int64(1), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "message", "emergency_contacts", "status"}).
			AddRow(int64(5), int64(1), model.DefaultAlertMessage, []byte(`[]`), "inactive"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "survival_alerts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	alert, err := Alert().Upsert(context.Background(), 1, &dto.UpsertAlertRequest{
		Message: strings.Repeat("救", 1000),
		EmergencyContacts: []dto.EmergencyContactData{
			{Name: "Ana", Email: "ana@example.com"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, alert.Message, 3000)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertThenGetOrCreatePreservesMessageAndContactOrder(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "survival_alerts"`).
		WithArgs(int64(7), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "message", "emergency_contacts", "status"}).
			AddRow(int64(11), int64(7), model.DefaultAlertMessage, []byte(`[]`), "inactive"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "survival_alerts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	saved, err := Alert().Upsert(context.Background(), 7, &dto.UpsertAlertRequest{
		Message: "Meet at the old bridge",
		EmergencyContacts: []dto.EmergencyContactData{
			{Name: "Cara", Email: "cara@example.com"},
			{Name: "Ana", Phone: "+33611111111"},
			{Name: "Bob", Email: "bob@example.com"},
		},
	})
	require.NoError(t, err)
	require.Len(t, saved.EmergencyContacts, 3)

	// 回读到的就是刚存的：消息原样，联系人保持配置顺序
	stored, err := json.Marshal(saved.EmergencyContacts)
	require.NoError(t, err)
	mock.ExpectQuery(`SELECT .* FROM "survival_alerts"`).
		WithArgs(int64(7), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "message", "emergency_contacts", "status"}).
			AddRow(int64(11), int64(7), saved.Message, stored, "active"))

	reloaded, err := Alert().GetOrCreate(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "Meet at the old bridge", reloaded.Message)
	require.Len(t, reloaded.EmergencyContacts, 3)
	assert.Equal(t, "Cara", reloaded.EmergencyContacts[0].Name)
	assert.Equal(t, "Ana", reloaded.EmergencyContacts[1].Name)
	assert.Equal(t, "Bob", reloaded.EmergencyContacts[2].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTriggerWithoutContactsLeavesStatusUnchanged(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "survival_alerts"`).
		WithArgs(int64(3), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "message", "emergency_contacts", "status"}).
			AddRow(int64(5), int64(3), model.DefaultAlertMessage, []byte(`[]`), "inactive"))

	user := &model.User{BaseModel: model.BaseModel{ID: 3}, Name: "Solo", Email: "solo@example.com"}
	_, err := Alert().Trigger(context.Background(), user, &dto.TriggerAlertRequest{})

	assert.ErrorIs(t, err, apperrors.AlertNotConfigured)
	// 没有任何 UPDATE 发生，状态保持原样
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTriggerMarksTriggeredAndReleasesLock(t *testing.T) {
	mock := newMockDB(t)
	newMockRedis(t)

	mock.ExpectQuery(`SELECT .* FROM "survival_alerts"`).
		WithArgs(int64(7), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "message", "emergency_contacts", "status"}).
			AddRow(int64(11), int64(7), "Come find me", []byte(`[{"name":"Ana","email":"ana@example.com"}]`), "active"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "survival_alerts" SET`).
		WithArgs(
			sqlmock.AnyArg(), // created_at
			sqlmock.AnyArg(), // updated_at
			sqlmock.AnyArg(), // deleted_at
			int64(7),
			"Come find me",
			sqlmock.AnyArg(), // emergency_contacts
			"triggered",
			anyNonNullTime{}, // last_triggered_at
			int64(11),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user := &model.User{BaseModel: model.BaseModel{ID: 7}, Name: "Alice", Email: "alice@example.com"}
	resp, err := Alert().Trigger(context.Background(), user, &dto.TriggerAlertRequest{})
	require.NoError(t, err)

	assert.Equal(t, "triggered", resp.Status)
	assert.Contains(t, resp.Message, "Survival alert triggered")
	_, parseErr := time.Parse(time.RFC3339, resp.TriggeredAt)
	assert.NoError(t, parseErr)

	// 触发结束后锁已释放，下一次触发可以立刻抢到
	locked, err := cache.TryTriggerLock(context.Background(), 7, time.Second)
	require.NoError(t, err)
	assert.True(t, locked)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTriggerRejectedWhileAnotherTriggerHoldsLock(t *testing.T) {
	mock := newMockDB(t)
	newMockRedis(t)

	mock.ExpectQuery(`SELECT .* FROM "survival_alerts"`).
		WithArgs(int64(7), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "message", "emergency_contacts", "status"}).
			AddRow(int64(11), int64(7), "Come find me", []byte(`[{"name":"Ana","email":"ana@example.com"}]`), "active"))

	locked, err := cache.TryTriggerLock(context.Background(), 7, time.Minute)
	require.NoError(t, err)
	require.True(t, locked)

	user := &model.User{BaseModel: model.BaseModel{ID: 7}, Name: "Alice", Email: "alice@example.com"}
	_, err = Alert().Trigger(context.Background(), user, &dto.TriggerAlertRequest{})

	assert.ErrorIs(t, err, apperrors.TriggerInProgress)
	assert.NoError(t, mock.ExpectationsWereMet())
}
