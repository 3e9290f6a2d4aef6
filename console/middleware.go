package console

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/user/labconsole/apperror"
	"github.com/user/labconsole/respond"
	"github.com/user/labconsole/router"
)

// requestLogger logs every console request through logrus once it completes.
func requestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			fields := logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": middleware.GetReqID(r.Context()),
				"remote":     r.RemoteAddr,
			}
			if rt, ok := router.Match(r.URL.Path); ok {
				fields["screen"] = rt.Name
			}
			entry := log.WithFields(fields)
			switch {
			case ww.Status() >= http.StatusInternalServerError:
				entry.Error("request")
			case ww.Status() >= http.StatusBadRequest:
				entry.Warn("request")
			default:
				entry.Info("request")
			}
		})
	}
}

// recoverer turns a panic into an internal error page.
func recoverer(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					log.WithFields(logrus.Fields{
						"panic":      rvr,
						"path":       r.URL.Path,
						"request_id": middleware.GetReqID(r.Context()),
					}).Error("handler panicked")
					respond.Error(w, r, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
