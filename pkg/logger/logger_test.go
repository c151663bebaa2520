package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("wishlist", "warn", &buf)

	l.Info("should be filtered")
	assert.Zero(t, buf.Len())

	l.Warn("should be written")
	require.NotZero(t, buf.Len())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "wishlist", entry["service"])
	assert.Equal(t, "should be written", entry["msg"])
}

func TestCorrelationID_RoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "corr-123")
	assert.Equal(t, "corr-123", CorrelationIDFromContext(ctx))
	assert.Equal(t, "", CorrelationIDFromContext(context.Background()))
}

func TestOwnerKey_RoundTrip(t *testing.T) {
	ctx := WithOwnerKey(context.Background(), "guest:tok-1")
	assert.Equal(t, "guest:tok-1", OwnerKeyFromContext(ctx))
	assert.Equal(t, "", OwnerKeyFromContext(context.Background()))
}

func TestFromContext_Fallback(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer
	l := NewWithWriter("wishlist", "info", &buf)
	ctx := NewContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestWithContext_EnrichesFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("wishlist", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "corr-9")
	ctx = WithOwnerKey(ctx, "customer:42")

	WithContext(ctx, base).Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "corr-9", entry["correlation_id"])
	assert.Equal(t, "customer:42", entry["owner_key"])
}
