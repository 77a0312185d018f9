package httpapi

import (
	"context"

	"github.com/riskibarqy/dirty-thirty/internal/domain/user"
)

type contextKey string

const (
	principalContextKey contextKey = "user_principal"
	requestIDContextKey contextKey = "request_id"
	routeContextKey     contextKey = "route_label"
)

func withPrincipal(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, principalContextKey, u)
}

func principalFromContext(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(principalContextKey).(user.User)
	return u, ok
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// routeLabel is filled by the matched route so outer middleware can label metrics
// with the pattern instead of the raw path.
type routeLabel struct {
	pattern string
}

func withRouteLabel(ctx context.Context) (context.Context, *routeLabel) {
	label := &routeLabel{}
	return context.WithValue(ctx, routeContextKey, label), label
}

func setRouteLabel(ctx context.Context, pattern string) {
	if label, ok := ctx.Value(routeContextKey).(*routeLabel); ok {
		label.pattern = pattern
	}
}
