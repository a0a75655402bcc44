package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name       string
		origins    []string
		method     string
		origin     string
		preflight  bool
		wantStatus int
		wantAllow  string
	}{
		{"allowed origin", []string{"https://app.test/"}, http.MethodGet, "https://app.test", false, http.StatusTeapot, "https://app.test"},
		{"disallowed origin", []string{"https://app.test"}, http.MethodGet, "https://evil.test", false, http.StatusTeapot, ""},
		{"preflight allowed", []string{"https://app.test"}, http.MethodOptions, "https://app.test", true, http.StatusNoContent, "https://app.test"},
		{"preflight disallowed", []string{"https://app.test"}, http.MethodOptions, "https://evil.test", true, http.StatusNoContent, ""},
		{"wildcard", []string{"*"}, http.MethodGet, "https://any.test", false, http.StatusTeapot, "https://any.test"},
		{"plain options reaches handler", []string{"https://app.test"}, http.MethodOptions, "https://app.test", false, http.StatusTeapot, "https://app.test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/clubs", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rr := httptest.NewRecorder()

			CORS(tt.origins, next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantAllow, rr.Header().Get("Access-Control-Allow-Origin"))
			if tt.preflight && tt.wantAllow != "" {
				assert.Equal(t, corsAllowMethods, rr.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}
