package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// recoverer turns a panic in a downstream handler into a JSON server error.
// http.ErrAbortHandler is re-panicked so net/http can abort the response.
func recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	const op = "adapter.delivery.http.recoverer"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				logger.Error(
					"panic recovered",
					slog.Group(op,
						slog.Any("err", rvr),
						slog.String("request_id", middleware.GetReqID(r.Context())),
					),
				)

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, serverErrorResponse)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
