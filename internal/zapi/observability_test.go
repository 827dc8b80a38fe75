package zapi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(&buf)

	obs.OnCallComplete(CallEvent{Method: "GET", Path: "testcases/PROJ-T1", Status: 200, LatencyMs: 12, Attempts: 1, Success: true})
	obs.OnCallComplete(CallEvent{Method: "GET", Path: "testcases/PROJ-T2", Status: 404, Attempts: 1, ErrorCode: "NOT_FOUND"})

	out := buf.String()
	assert.Contains(t, out, "msg=zapi_call")
	assert.Contains(t, out, "path=testcases/PROJ-T1")
	assert.Contains(t, out, "latency_ms=12")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "error_code=NOT_FOUND")
}
