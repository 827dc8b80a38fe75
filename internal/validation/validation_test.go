package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEnum(t *testing.T) {
	allowed := []string{"High", "Medium", "Low"}

	ve := &ValidationErrors{}
	ValidateEnum(ve, "priority", "High", allowed)
	ValidateEnum(ve, "priority", "", allowed)
	assert.False(t, ve.HasErrors())

	ValidateEnum(ve, "priority", "Normal", allowed)
	require.True(t, ve.HasErrors())
	assert.Equal(t, "priority: must be one of: High, Medium, Low", ve.Error())
}

func TestRequireField(t *testing.T) {
	ve := &ValidationErrors{}
	RequireField(ve, "name", "  ")
	RequireField(ve, "projectKey", "PROJ")
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "name", ve.Errors[0].Field)
}

func TestValidateDateAndOrder(t *testing.T) {
	ve := &ValidationErrors{}
	ValidateDate(ve, "plannedStartDate", "2026-02-30")
	ValidateDate(ve, "plannedEndDate", "2026-03-01")
	ValidateDateOrder(ve, "plannedStartDate", "2026-04-01", "2026-03-01")
	require.Len(t, ve.Errors, 2)
	assert.Contains(t, ve.Errors[0].Message, "YYYY-MM-DD")
	assert.Contains(t, ve.Errors[1].Message, "after")
}

func TestValidateInts(t *testing.T) {
	zero, neg, one := 0, -5, 1
	ve := &ValidationErrors{}
	ValidatePositiveInt(ve, "folderId", &zero)
	ValidatePositiveInt(ve, "folderId", &one)
	ValidatePositiveInt(ve, "folderId", nil)
	ValidateNonNegativeInt(ve, "executionTime", &neg)
	ValidateNonNegativeInt(ve, "executionTime", &zero)
	assert.Len(t, ve.Errors, 2)
}

func TestErr_NilWhenEmpty(t *testing.T) {
	ve := &ValidationErrors{}
	assert.NoError(t, ve.Err())

	ve.Add("status", "bad")
	err := ve.Err()
	require.Error(t, err)
	var target *ValidationErrors
	assert.True(t, errors.As(err, &target))
}
