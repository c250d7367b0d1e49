package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestAdapterWritesFields(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewAdapter(New(Options{Level: "debug", Format: FormatJSON, Writer: &buf}))

	adapter.Info("profile created", "profile_id", "abc", "followers", 10)
	line := decode(t, &buf)
	require.Equal(t, "info", line["level"])
	require.Equal(t, "profile created", line["message"])
	require.Equal(t, "abc", line["profile_id"])
	require.EqualValues(t, 10, line["followers"])
}

func TestAdapterErrorIncludesCause(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewAdapter(New(Options{Format: FormatJSON, Writer: &buf}))

	adapter.Error("click recording failed", errors.New("store down"), "profile_id")
	line := decode(t, &buf)
	require.Equal(t, "error", line["level"])
	require.Equal(t, "store down", line["error"])
	require.Equal(t, "(MISSING)", line["profile_id"])
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewAdapter(New(Options{Level: "bogus", Format: FormatJSON, Writer: &buf}))

	adapter.Debug("hidden")
	require.Zero(t, buf.Len())
}

func TestCtxAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Format: FormatJSON, Writer: &buf})

	var captured context.Context
	handler := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = r.Context()
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	Ctx(captured).Info().Msg("with id")
	line := decode(t, &buf)
	require.NotEmpty(t, line["request_id"])
}
