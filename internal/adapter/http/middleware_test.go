package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAuth(t *testing.T) {
	validToken := "test-token-123"

	tests := []struct {
		name           string
		authHeader     string
		handlerCalled  bool
		expectedStatus int
	}{
		{
			name:           "Valid Token",
			authHeader:     validToken,
			handlerCalled:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid Token",
			authHeader:     "wrong-token",
			handlerCalled:  false,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Token",
			authHeader:     "",
			handlerCalled:  false,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := Auth(validToken)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.handlerCalled, handlerCalled)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	handler := RequestLogger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
