package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SecurityAlert/internal/model"
	"SecurityAlert/internal/model/dto"
	"SecurityAlert/pkg/errors"
)

func strPtr(s string) *string { return &s }

func TestBuildCriminal(t *testing.T) {
	criminal, err := buildCriminal(&dto.CriminalUpsertRequest{
		FullName:        "John Doe",
		Alias:           strPtr("The Ghost"),
		DateOfBirth:     strPtr("1980-05-15"),
		Description:     "Wanted for armed robbery",
		CrimesCommitted: "Armed robbery, assault",
		SecurityLevel:   "high",
		Status:          "at_large",
	})
	require.NoError(t, err)

	assert.Equal(t, "John Doe", criminal.FullName)
	assert.Equal(t, model.SecurityLevelHigh, criminal.SecurityLevel)
	assert.Equal(t, model.CriminalStatusAtLarge, criminal.Status)
	require.NotNil(t, criminal.DateOfBirth)
	assert.Equal(t, "1980-05-15", criminal.DateOfBirth.Format("2006-01-02"))
}

func TestBuildCriminalCollectsAllViolations(t *testing.T) {
	_, err := buildCriminal(&dto.CriminalUpsertRequest{
		FullName:        "",
		Description:     "",
		CrimesCommitted: "",
		SecurityLevel:   "extreme",
		Status:          "unknown",
		DateOfBirth:     strPtr("15/05/1980"),
	})
	require.Error(t, err)

	var detailed *errors.DetailedError
	require.ErrorAs(t, err, &detailed)
	assert.Equal(t, "VALIDATION_ERROR", detailed.Code)

	assert.Contains(t, detailed.Details, "full_name")
	assert.Contains(t, detailed.Details, "description")
	assert.Contains(t, detailed.Details, "crimes_committed")
	assert.Contains(t, detailed.Details, "security_level")
	assert.Contains(t, detailed.Details, "status")
	assert.Contains(t, detailed.Details, "date_of_birth")
}

func TestBuildCriminalOptionalDateOfBirth(t *testing.T) {
	criminal, err := buildCriminal(&dto.CriminalUpsertRequest{
		FullName:        "Jane Doe",
		Description:     "Wanted for fraud",
		CrimesCommitted: "Fraud",
		SecurityLevel:   "low",
		Status:          "captured",
	})
	require.NoError(t, err)
	assert.Nil(t, criminal.DateOfBirth)
	assert.Nil(t, criminal.Alias)
}
