package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_CountsPerStatus(t *testing.T) {
	s := Summarize([]TestExecution{
		{Status: ExecutionPass},
		{Status: ExecutionPass},
		{Status: ExecutionFail},
		{Status: ExecutionNotExecuted},
		{Status: "Retest"},
	})

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.ByStatus[ExecutionPass])
	assert.Equal(t, 1, s.ByStatus[ExecutionFail])
	assert.Equal(t, 0, s.ByStatus[ExecutionBlocked])
	assert.Equal(t, 1, s.Other)
	assert.Len(t, s.ByStatus, 5)
	assert.InDelta(t, 2.0/3.0, s.PassRate(), 1e-9)
}

func TestSummary_PassRateWithNothingExecuted(t *testing.T) {
	s := Summarize([]TestExecution{{Status: ExecutionNotExecuted}, {Status: ExecutionInProgress}})
	assert.Equal(t, 0.0, s.PassRate())
}
