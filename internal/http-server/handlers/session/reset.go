package session

import (
	"ProgJulia/internal/lib/api/cont"
	"ProgJulia/internal/lib/api/response"
	"ProgJulia/internal/lib/sl"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func Reset(log *slog.Logger, handler Core) http.HandlerFunc {
	mod := sl.Module("http.handlers.session")

	return func(w http.ResponseWriter, r *http.Request) {
		if handler == nil {
			log.With(mod).Error("sessions not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Sessions not available"))
			return
		}

		chatID, err := strconv.ParseInt(chi.URLParam(r, "chat_id"), 10, 64)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid chat_id parameter"))
			return
		}

		logger := log.With(mod, slog.Int64("chat_id", chatID))
		if user := cont.GetUser(r.Context()); user != nil {
			logger = logger.With(slog.String("user", user.Username))
		}

		reset, err := handler.ResetSession(chatID)
		if err != nil {
			logger.With(sl.Err(err)).Error("reset session")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Reset failed"))
			return
		}
		if !reset {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("No active session for this chat"))
			return
		}

		logger.Info("session reset")
		render.JSON(w, r, response.Ok("Session reset successfully"))
	}
}
