package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/zscale/internal/service"
)

func TestValidateOptionalDate(t *testing.T) {
	assert.NoError(t, validateOptionalDate(""))
	assert.NoError(t, validateOptionalDate("2026-02-28"))
	assert.Error(t, validateOptionalDate("28/02/2026"))
}

func TestRequiredText(t *testing.T) {
	v := requiredText("name")
	assert.EqualError(t, v("  "), "name is required")
	assert.NoError(t, v("Login"))
}

func TestTestCaseForm_DefaultsFromTables(t *testing.T) {
	req := service.TestCaseRequest{ProjectKey: "PROJ"}
	form := testCaseForm(&req)

	assert.NotNil(t, form)
	assert.Equal(t, "Medium", req.Priority)
	assert.Equal(t, "Draft", req.Status)
}

func TestTestCaseForm_KeepsGivenValues(t *testing.T) {
	req := service.TestCaseRequest{Priority: "High", Status: "Approved"}
	_ = testCaseForm(&req)
	assert.Equal(t, "High", req.Priority)
	assert.Equal(t, "Approved", req.Status)
}
