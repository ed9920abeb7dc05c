package google

import (
	"ProgJulia/internal/lib/api/response"
	"ProgJulia/internal/lib/sl"
	"ProgJulia/internal/service/sheets"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Callback finishes the consent round started by /google_credentials.
func Callback(log *slog.Logger, handler Core) http.HandlerFunc {
	mod := sl.Module("http.handlers.google")

	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("google authorization not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Google authorization not available"))
			return
		}

		query := r.URL.Query()
		if reason := query.Get("error"); reason != "" {
			logger.With(slog.String("reason", reason)).Warn("google consent denied")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Access was not granted: "+reason))
			return
		}

		state, code := query.Get("state"), query.Get("code")
		if state == "" || code == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Missing state or code parameter"))
			return
		}

		err := handler.CompleteAuthorization(r.Context(), state, code)
		switch {
		case err == nil:
		case errors.Is(err, sheets.ErrBadState):
			logger.Warn("stale oauth state")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Authorization link expired, upload the credentials again"))
			return
		case errors.Is(err, sheets.ErrNoCredentials):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("Google credentials are not installed"))
			return
		default:
			logger.With(sl.Err(err)).Error("complete google authorization")
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("Authorization failed"))
			return
		}

		logger.Info("google authorization completed")
		render.JSON(w, r, response.Ok("Google access granted"))
	}
}
