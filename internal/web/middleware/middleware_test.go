package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/reportcheck/internal/config"
)

func echoRemoteAddr() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.RemoteAddr))
	})
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "no trusted proxies",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "1.2.3.4"},
			want:       "10.0.0.1:1234",
		},
		{
			name:       "trusted cidr with X-Real-IP",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "1.2.3.4"},
			want:       "1.2.3.4",
		},
		{
			name:       "trusted single address with X-Forwarded-For",
			trusted:    []string{"10.0.0.1"},
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "5.6.7.8, 10.0.0.1"},
			want:       "5.6.7.8",
		},
		{
			name:       "X-Real-IP wins over X-Forwarded-For",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "1.2.3.4", "X-Forwarded-For": "5.6.7.8"},
			want:       "1.2.3.4",
		},
		{
			name:       "untrusted source keeps RemoteAddr",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "192.168.1.1:1234",
			headers:    map[string]string{"X-Real-IP": "1.2.3.4"},
			want:       "192.168.1.1:1234",
		},
		{
			name:       "invalid header value ignored",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "not-an-ip"},
			want:       "10.0.0.1:1234",
		},
		{
			name:       "invalid trusted entry skipped",
			trusted:    []string{"garbage", " 10.0.0.0/8 "},
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "1.2.3.4"},
			want:       "1.2.3.4",
		},
		{
			name:       "ipv6 proxy",
			trusted:    []string{"::1"},
			remoteAddr: "[::1]:1234",
			headers:    map[string]string{"X-Real-IP": "2001:db8::1"},
			want:       "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			TrustedRealIP(tt.trusted)(echoRemoteAddr()).ServeHTTP(rec, req)

			if got := rec.Body.String(); got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		cfg      config.SecurityConfig
		header   string
		value    string
		want     int
		wantCode string
	}{
		{"disabled", config.SecurityConfig{}, "", "", http.StatusNoContent, ""},
		{"missing key", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}}, "", "", http.StatusUnauthorized, CodeMissingKey},
		{"wrong key", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}}, "X-API-Key", "k2", http.StatusForbidden, CodeInvalidKey},
		{"valid key", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}}, "X-API-Key", "k2", http.StatusNoContent, ""},
		{"bearer token", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}}, "Authorization", "Bearer k1", http.StatusNoContent, ""},
		{"no keys configured", config.SecurityConfig{RequireAPIKey: true}, "X-API-Key", "k1", http.StatusForbidden, CodeInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/schema", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()

			cfg := tt.cfg
			APIKeyAuth(&cfg)(ok).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.wantCode != "" && !strings.Contains(rec.Body.String(), tt.wantCode) {
				t.Errorf("body = %s, want code %s", rec.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestLogger_CapturesStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("short"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if rec.Body.String() != "short" {
		t.Errorf("body = %q, want short", rec.Body.String())
	}
}

func TestResponseWriter_CountsBytes(t *testing.T) {
	ww := &responseWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	ww.Write([]byte("abc"))
	ww.Write([]byte("de"))

	if ww.bytes != 5 {
		t.Errorf("bytes = %d, want 5", ww.bytes)
	}
	if !ww.wroteHeader || ww.status != http.StatusOK {
		t.Errorf("wroteHeader = %v status = %d, want true 200", ww.wroteHeader, ww.status)
	}
}
