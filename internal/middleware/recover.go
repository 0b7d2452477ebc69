package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"award-registration/internal/logger"
	"award-registration/internal/utils"
)

// Recover turns a handler panic into 500 {"error":"Internal error"}.
func Recover(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("PANIC", fmt.Sprintf("%s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack()))
				utils.WriteError(w, http.StatusInternalServerError, "Internal error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
