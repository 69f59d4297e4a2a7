package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/reportcheck/internal/core"
)

// withClient attaches the caller's IP and User-Agent for the history log.
// RemoteAddr has already been resolved by TrustedRealIP.
func withClient(r *http.Request) context.Context {
	return core.ContextWithClient(r.Context(), core.ClientInfo{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
}
