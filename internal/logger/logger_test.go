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

func TestFromContext_AddsRequestAndActor(t *testing.T) {
	buf := &bytes.Buffer{}
	initWith("production", buf)
	t.Cleanup(func() { initWith("test", &bytes.Buffer{}) })

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithActor(ctx, "user-42", "moderator")
	CtxInfo(ctx, "project moderated", "project_id", "p-1")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "project moderated", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "user-42", entry["user_id"])
	assert.Equal(t, "moderator", entry["role"])
	assert.Equal(t, "p-1", entry["project_id"])
}

func TestFromContext_AnonymousRequest(t *testing.T) {
	buf := &bytes.Buffer{}
	initWith("production", buf)
	t.Cleanup(func() { initWith("test", &bytes.Buffer{}) })

	CtxWithError(WithRequestID(context.Background(), "req-2"), "upload failed", errors.New("disk full"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "disk full", entry["error"])
	assert.Equal(t, "req-2", entry["request_id"])
	assert.NotContains(t, entry, "user_id")
	assert.NotContains(t, entry, "role")
}

func TestInit_TestEnvOnlyErrors(t *testing.T) {
	buf := &bytes.Buffer{}
	initWith("test", buf)

	Info("skipped")
	CtxWarn(context.Background(), "skipped too")
	assert.Zero(t, buf.Len())

	Error("kept")
	assert.Contains(t, buf.String(), "kept")
}
