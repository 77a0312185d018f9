package httpapi

import (
	"net/http"

	"github.com/riskibarqy/dirty-thirty/internal/platform/logging"
)

// RouterOptions carries the optional surfaces of the router.
type RouterOptions struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	Metrics            RequestMetrics
	// MetricsHandler is served on GET /metrics when set.
	MetricsHandler http.Handler
}

func NewRouter(handler *Handler, users UserLookup, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts)
	registerGameRoutes(mux, handler)
	registerUserRoutes(mux, handler, users)
	registerLeaderboardRoutes(mux, handler)

	return RequestTracing(RequestID(RequestLogging(logger, opts.Metrics, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
