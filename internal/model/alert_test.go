package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkTriggered(t *testing.T) {
	alert := &SurvivalAlert{
		Status: AlertStatusActive,
		EmergencyContacts: EmergencyContacts{
			{Name: "Ana", Email: "ana@example.com"},
		},
	}

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	alert.MarkTriggered(now)

	assert.Equal(t, AlertStatusTriggered, alert.Status)
	require.NotNil(t, alert.LastTriggeredAt)
	assert.Equal(t, now, *alert.LastTriggeredAt)
}

func TestMarkTriggeredFromInactive(t *testing.T) {
	alert := &SurvivalAlert{Status: AlertStatusInactive}

	alert.MarkTriggered(time.Now().UTC())

	assert.Equal(t, AlertStatusTriggered, alert.Status)
	assert.NotNil(t, alert.LastTriggeredAt)
}

func TestEmergencyContactsRoundTripPreservesOrder(t *testing.T) {
	contacts := EmergencyContacts{
		{Name: "Cara", Email: "cara@example.com"},
		{Name: "Ana", Phone: "+33611111111"},
		{Name: "Bob", Email: "bob@example.com", Phone: "+33622222222"},
	}

	value, err := contacts.Value()
	require.NoError(t, err)

	var loaded EmergencyContacts
	require.NoError(t, loaded.Scan(value))

	require.Len(t, loaded, 3)
	assert.Equal(t, "Cara", loaded[0].Name)
	assert.Equal(t, "Ana", loaded[1].Name)
	assert.Equal(t, "Bob", loaded[2].Name)
	assert.Equal(t, "+33622222222", loaded[2].Phone)
}
