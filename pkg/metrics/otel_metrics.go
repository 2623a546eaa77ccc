package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 求救预警相关指标
	AlertTriggeredTotal       metric.Int64Counter
	NotificationSentTotal     metric.Int64Counter
	NotificationFailedTotal   metric.Int64Counter
	NotificationSendDuration  metric.Float64Histogram
	NotificationQueueBacklog  metric.Int64UpDownCounter

	// 目击举报相关指标
	ReportSubmittedTotal metric.Int64Counter
	ReportReviewedTotal  metric.Int64Counter
}

var (
	metrics *OTelMetrics

	meter = otel.Meter("securityalert")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.AlertTriggeredTotal, err = meter.Int64Counter(
		"survival_alert_triggered_total",
		metric.WithDescription("Total number of survival alerts triggered"),
		metric.WithUnit("{alert}"),
	)
	if err != nil {
		return err
	}

	metrics.NotificationSentTotal, err = meter.Int64Counter(
		"alert_notification_sent_total",
		metric.WithDescription("Total number of alert notifications delivered"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return err
	}

	metrics.NotificationFailedTotal, err = meter.Int64Counter(
		"alert_notification_failed_total",
		metric.WithDescription("Total number of alert notification delivery failures"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return err
	}

	metrics.NotificationSendDuration, err = meter.Float64Histogram(
		"alert_notification_send_duration_seconds",
		metric.WithDescription("Time spent delivering an alert notification in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.NotificationQueueBacklog, err = meter.Int64UpDownCounter(
		"alert_notification_queue_backlog",
		metric.WithDescription("Number of alert notifications waiting in queue"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return err
	}

	metrics.ReportSubmittedTotal, err = meter.Int64Counter(
		"sighting_report_submitted_total",
		metric.WithDescription("Total number of sighting reports submitted"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return err
	}

	metrics.ReportReviewedTotal, err = meter.Int64Counter(
		"sighting_report_reviewed_total",
		metric.WithDescription("Total number of sighting reports reviewed"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordAlertTriggered 记录一次预警触发
func RecordAlertTriggered(contacts int) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.AlertTriggeredTotal.Add(context.Background(), 1,
		metric.WithAttributes(attribute.Int("contacts", contacts)),
	)
}

// RecordNotificationSent 记录一条通知投递成功
func RecordNotificationSent(channel string, duration float64) {
	m := GetMetrics()
	if m == nil {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("channel", channel))
	m.NotificationSentTotal.Add(ctx, 1, attrs)
	m.NotificationSendDuration.Record(ctx, duration, attrs)
}

// RecordNotificationFailed 记录一条通知投递失败
func RecordNotificationFailed(channel, reason string) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.NotificationFailedTotal.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("channel", channel),
			attribute.String("reason", reason),
		),
	)
}

// UpdateQueueBacklog 更新队列积压计数
func UpdateQueueBacklog(queueName string, delta int64) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.NotificationQueueBacklog.Add(context.Background(), delta,
		metric.WithAttributes(attribute.String("queue", queueName)),
	)
}

// RecordReportSubmitted 记录一次举报提交
func RecordReportSubmitted(anonymous bool) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.ReportSubmittedTotal.Add(context.Background(), 1,
		metric.WithAttributes(attribute.Bool("anonymous", anonymous)),
	)
}

// RecordReportReviewed 记录一次举报审核
func RecordReportReviewed(status string) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.ReportReviewedTotal.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}
