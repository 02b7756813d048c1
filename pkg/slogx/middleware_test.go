package slogx_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/subham12r/portfolio/pkg/idx"
	"github.com/subham12r/portfolio/pkg/slogx"
)

func TestHTTPMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("mints a request id and logs the request", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slogx.New(slogx.Config{Service: "test", Format: "json", Output: &buf})

		var ctxLoggerSeen bool
		h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxLoggerSeen = slogx.FromContext(r.Context()) != logger
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

		require.Equal(t, http.StatusTeapot, rec.Code)
		require.True(t, ctxLoggerSeen)

		reqID := rec.Header().Get(slogx.RequestIDHeader)
		_, err := idx.Parse(reqID)
		require.NoError(t, err)

		var line map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
		require.Equal(t, "http_request", line["msg"])
		require.Equal(t, reqID, line["req_id"])
		require.EqualValues(t, http.StatusTeapot, line["status"])
		require.Equal(t, "/livez", line["path"])
	})

	t.Run("keeps a caller supplied id", func(t *testing.T) {
		t.Parallel()

		h := slogx.HTTPMiddleware(slogx.Discard())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(slogx.RequestIDHeader, "upstream-id-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, "upstream-id-123", rec.Header().Get(slogx.RequestIDHeader))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "DEBUG", slogx.ParseLevel("debug").String())
	require.Equal(t, "WARN", slogx.ParseLevel(" Warning ").String())
	require.Equal(t, "ERROR", slogx.ParseLevel("error").String())
	require.Equal(t, "INFO", slogx.ParseLevel("nonsense").String())
}
