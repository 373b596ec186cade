package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"camstation/internal/logger"

	"github.com/stretchr/testify/assert"
)

func TestRequestID_UsesProvidedID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "client-provided-request-id")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "client-provided-request-id", seen)
	assert.Equal(t, "client-provided-request-id", w.Header().Get(RequestIDHeader))
}

func TestRequestID_GeneratesDistinctIDs(t *testing.T) {
	var seen []string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, GetRequestID(r.Context()))
	}))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, seen[i], w.Header().Get(RequestIDHeader))
		assert.Len(t, seen[i], 36)
	}

	assert.NotEqual(t, seen[0], seen[1])
	assert.NotEqual(t, seen[1], seen[2])
}

func TestAccessLog_PassesStatusThrough(t *testing.T) {
	handler := AccessLog(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestGetRequestID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetRequestID(req.Context()))
}
