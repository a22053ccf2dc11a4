package http

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/vadimbarashkov/alias-shortener/internal/entity"
)

// redirect resolves an alias: 302 to the long URL, 404 pointing at the
// fallback URL, or 429 once the URL reached its hit-count threshold.
func (h *urlHandler) redirect(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")

	res, err := h.useCase.ResolveAlias(r.Context(), alias, clientFromRequest(r))
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	httplog.LogEntrySetField(r.Context(), "outcome", slog.StringValue(res.Outcome.String()))

	switch res.Outcome {
	case entity.OutcomeRedirect:
		http.Redirect(w, r, res.Location, http.StatusFound)
	case entity.OutcomeRateLimited:
		render.Status(r, http.StatusTooManyRequests)
		render.JSON(w, r, tooManyRequestsResponse)
	default:
		if res.Location != "" {
			w.Header().Set("Location", res.Location)
		}

		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, urlNotFoundResponse)
	}
}

// clientFromRequest expects middleware.RealIP to have run already.
func clientFromRequest(r *http.Request) entity.Client {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}

	return entity.Client{
		IP:        ip,
		Signature: r.UserAgent(),
	}
}
