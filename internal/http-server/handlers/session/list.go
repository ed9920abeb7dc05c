package session

import (
	"ProgJulia/entity"
	"ProgJulia/internal/lib/api/response"
	"ProgJulia/internal/lib/sl"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

type sessionView struct {
	entity.SessionInfo
	IdleSeconds int64 `json:"idle_seconds"`
}

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	mod := sl.Module("http.handlers.session")

	return func(w http.ResponseWriter, r *http.Request) {
		if handler == nil {
			log.With(mod).Error("sessions not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Sessions not available"))
			return
		}

		sessions, err := handler.ActiveSessions()
		if err != nil {
			log.With(mod, sl.Err(err)).Error("list sessions")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to list sessions"))
			return
		}

		now := time.Now()
		views := make([]sessionView, 0, len(sessions))
		for _, s := range sessions {
			views = append(views, sessionView{
				SessionInfo: s,
				IdleSeconds: int64(now.Sub(s.LastAction).Seconds()),
			})
		}
		render.JSON(w, r, response.Ok(views))
	}
}
