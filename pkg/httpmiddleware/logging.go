package httpmiddleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// InjectLogger makes lg the request context logger.
func InjectLogger(lg *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(zctx.Base(r.Context(), lg)))
		})
	}
}

// LogRequests logs every completed request. Mounted inside a chi router it
// reports the matched route pattern.
func LogRequests() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.code()),
				zap.Int("bytes", rec.bytes),
				zap.Duration("duration", time.Since(start)),
			}
			if route := RoutePattern(r); route != "" {
				fields = append(fields, zap.String("route", route))
			}

			lg := zctx.From(r.Context())
			switch code := rec.code(); {
			case code >= http.StatusInternalServerError:
				lg.Error("Request failed", fields...)
			case code >= http.StatusBadRequest:
				lg.Warn("Request rejected", fields...)
			default:
				lg.Debug("Request", fields...)
			}
		})
	}
}

// RoutePattern returns the chi route pattern matched for r, or "".
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
