// AngelaMos | 2026
// logger.go

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/carterperez-dev/eightspots/internal/core"
)

// accessEntry lets handlers deeper in the chain annotate the access log
// line, since they only see a derived request context.
type accessEntry struct {
	userID int64
}

const accessEntryKey contextKey = "access_entry"

func annotateUser(ctx context.Context, userID int64) {
	if e, ok := ctx.Value(accessEntryKey).(*accessEntry); ok {
		e.userID = userID
	}
}

func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			entry := &accessEntry{}
			r = r.WithContext(context.WithValue(r.Context(), accessEntryKey, entry))

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				attrs := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", GetRequestID(r.Context()),
				}
				if entry.userID != 0 {
					attrs = append(attrs, "user_id", entry.userID)
				}
				if traceID := core.TraceIDFromContext(r.Context()); traceID != "" {
					attrs = append(attrs, "trace_id", traceID)
				}

				switch {
				case status >= 500:
					logger.Error("request", attrs...)
				case status >= 400:
					logger.Warn("request", attrs...)
				default:
					logger.Info("request", attrs...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
