package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SecurityAlert/internal/model"
	"SecurityAlert/storage/mq"
)

// 生产端和消费端给积压指标打的队列标签必须落在同一个名字上
func TestRouteForChannelMatchesConsumerQueues(t *testing.T) {
	routingKey, queueName, err := routeForChannel(model.NotificationChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, mq.AlertEmailRoutingKey, routingKey)
	assert.Equal(t, mq.AlertEmailQueue, queueName)

	routingKey, queueName, err = routeForChannel(model.NotificationChannelSMS)
	require.NoError(t, err)
	assert.Equal(t, mq.AlertSMSRoutingKey, routingKey)
	assert.Equal(t, mq.AlertSMSQueue, queueName)

	_, _, err = routeForChannel(model.NotificationChannel("pigeon"))
	assert.Error(t, err)
}
