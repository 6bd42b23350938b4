package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captured(buf *bytes.Buffer) context.Context {
	l := zerolog.New(buf)
	return l.WithContext(context.Background())
}

func TestErrorErr(t *testing.T) {
	var buf bytes.Buffer
	ErrorErr(captured(&buf), errors.New("dial tcp: connection refused"), "health check failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "health check failed", entry["message"])
	assert.Equal(t, "dial tcp: connection refused", entry["error"])
}

func TestErrorLog_FormatsArgs(t *testing.T) {
	var buf bytes.Buffer
	ErrorLog(captured(&buf), "timesheet %s not recomputed", "ts-1")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "timesheet ts-1 not recomputed", entry["message"])
}

func TestWithLogger_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(captured(&buf), map[string]interface{}{"request_id": "req-1"})
	InfoLog(ctx, "request done")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
}
