package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "info", "json")
	defer Initialize("info", "text")

	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))

	InfoContext(ctx, "hello", "rentalID", 5)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, float64(5), record["rentalID"])
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "warn", "text")
	defer Initialize("info", "text")

	Info("hidden")
	EnterMethod("hidden.method")
	Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithAttrsKeepsRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "info", "json")
	defer Initialize("info", "text")

	ctx := WithRequestID(context.Background(), "req-2")
	WithService("contracts").InfoContext(ctx, "generated")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "contracts", record["service"])
	assert.Equal(t, "req-2", record["request_id"])
}

func TestTraceErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "error", "json")
	defer Initialize("info", "text")

	DatabaseResult("rentals.close", 0, nil)
	assert.Empty(t, buf.String())

	DatabaseResult("rentals.close", 0, errors.New("conn reset"), "rentalID", 7)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "← Database call failed", record["msg"])
	assert.Equal(t, "rentals.close", record["operation"])
	assert.Equal(t, "conn reset", record["error"])
	assert.Equal(t, float64(7), record["rentalID"])
}
