package core

import "context"

type contextKey string

const ctxKeyClient contextKey = "client_info"

// ClientInfo identifies who submitted a workbook, for the history log.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// ContextWithClient attaches client details to ctx.
func ContextWithClient(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, ctxKeyClient, info)
}

// ClientFromContext returns the client details attached to ctx, or the zero
// value when there are none.
func ClientFromContext(ctx context.Context) ClientInfo {
	if v, ok := ctx.Value(ctxKeyClient).(ClientInfo); ok {
		return v
	}
	return ClientInfo{}
}
