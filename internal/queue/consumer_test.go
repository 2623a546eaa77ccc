package queue

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"SecurityAlert/internal/model"
	apperrors "SecurityAlert/pkg/errors"
	"SecurityAlert/pkg/logger"
	"SecurityAlert/pkg/metrics"
	"SecurityAlert/storage/mq"
	storageredis "SecurityAlert/storage/redis"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

// backlogByQueue 按 queue 标签读出积压计数的当前值
func backlogByQueue(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "alert_notification_queue_backlog" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				if q, found := dp.Attributes.Value(attribute.Key("queue")); found {
					out[q.AsString()] = dp.Value
				}
			}
		}
	}
	return out
}

func TestDeliveryHandlerSettlesBacklogOncePerMessage(t *testing.T) {
	mr := miniredis.RunT(t)
	storageredis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		storageredis.SetClient(nil)
	})

	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, metrics.InitMetrics())

	delivered := 0
	var deliverErr error
	handler := newDeliveryHandler(context.Background(), mq.AlertEmailQueue, func(model.AlertNotificationMessage) error {
		delivered++
		return deliverErr
	})

	body := func(id string) []byte {
		b, err := json.Marshal(model.AlertNotificationMessage{
			MessageID: id,
			Channel:   model.NotificationChannelEmail,
			Recipient: "ana@example.com",
		})
		require.NoError(t, err)
		return b
	}

	// 可重试的投递失败：消息会重入队，积压不动
	deliverErr = stderrors.New("smtp down")
	require.Error(t, handler(body("alert_1")))
	assert.Equal(t, 1, delivered)
	assert.NotContains(t, backlogByQueue(t, reader), mq.AlertEmailQueue)

	// 重投后成功：积压结清一次
	deliverErr = nil
	require.NoError(t, handler(body("alert_1")))
	assert.Equal(t, 2, delivered)
	assert.Equal(t, int64(-1), backlogByQueue(t, reader)[mq.AlertEmailQueue])

	// 同一条消息重复投递：跳过，不再结清
	err := handler(body("alert_1"))
	var skip *apperrors.SkipMessageError
	assert.ErrorAs(t, err, &skip)
	assert.Equal(t, 2, delivered)
	assert.Equal(t, int64(-1), backlogByQueue(t, reader)[mq.AlertEmailQueue])

	// 不可重试错误：丢弃同样算离队，积压结清
	deliverErr = apperrors.NewNonRetryableError("SMS_TEMPLATE_INVALID", "sms template rejected", "check SMS_TEMPLATE_CODE")
	require.NoError(t, handler(body("alert_2")))
	assert.Equal(t, 3, delivered)
	assert.Equal(t, int64(-2), backlogByQueue(t, reader)[mq.AlertEmailQueue])
}
