package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SecurityAlert/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

func TestBuildPlainTextForContact(t *testing.T) {
	text := buildPlainText(AlertMail{
		ToName:    "Ana",
		ToEmail:   "ana@example.com",
		OwnerName: "Alice",
		Message:   "Come find me",
		MapLink:   "http://maps.google.com/maps?q=48.86,2.35",
	})

	assert.Contains(t, text, "Hello Ana")
	assert.Contains(t, text, "Alice has triggered a survival alert")
	assert.Contains(t, text, "Come find me")
	assert.Contains(t, text, "http://maps.google.com/maps?q=48.86,2.35")
	assert.Contains(t, text, "contact local authorities")
}

func TestBuildPlainTextWithoutLocation(t *testing.T) {
	text := buildPlainText(AlertMail{
		ToName:    "Bob",
		OwnerName: "Alice",
		Message:   "Help",
	})

	assert.NotContains(t, text, "Last known location")
}

func TestBuildPlainTextForOwnerReceipt(t *testing.T) {
	text := buildPlainText(AlertMail{
		ToName:       "Alice",
		Message:      "Come find me",
		OwnerReceipt: true,
	})

	assert.Contains(t, text, "Your survival alert has been triggered")
	assert.Contains(t, text, "emergency contacts were notified")
	assert.NotContains(t, text, "listed you as an emergency contact")
}

func TestBuildHTMLIncludesLocationButton(t *testing.T) {
	html := buildHTML(AlertMail{
		ToName:    "Ana",
		OwnerName: "Alice",
		Message:   "Come find me",
		MapLink:   "http://maps.google.com/maps?q=1,2",
	})

	assert.Contains(t, html, "View Last Known Location")
	assert.Contains(t, html, `href="http://maps.google.com/maps?q=1,2"`)

	withoutLocation := buildHTML(AlertMail{
		ToName:    "Ana",
		OwnerName: "Alice",
		Message:   "Come find me",
	})
	assert.NotContains(t, withoutLocation, "View Last Known Location")
}

func TestMockClientRecordsCalls(t *testing.T) {
	mock := NewMockClient()
	SetClient(mock)

	err := SendAlertMail(context.Background(), AlertMail{
		ToEmail: "ana@example.com",
		Message: "Help",
	})
	require.NoError(t, err)
	require.Len(t, mock.Calls, 1)
	assert.Equal(t, "ana@example.com", mock.Calls[0].ToEmail)

	mock.FailNext = true
	err = SendAlertMail(context.Background(), AlertMail{ToEmail: "bob@example.com"})
	assert.Error(t, err)
	assert.Len(t, mock.Calls, 2)
}
