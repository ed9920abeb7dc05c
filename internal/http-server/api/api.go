package api

import (
	"ProgJulia/internal/config"
	"ProgJulia/internal/http-server/handlers/errors"
	"ProgJulia/internal/http-server/handlers/google"
	"ProgJulia/internal/http-server/handlers/session"
	"ProgJulia/internal/http-server/middleware/authenticate"
	"ProgJulia/internal/lib/sl"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	google.Core
	session.Core
}

// NewRouter builds the management API routes.
func NewRouter(log *slog.Logger, handler Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Get("/google/callback", google.Callback(log, handler))

		v1.Group(func(r chi.Router) {
			r.Use(authenticate.New(log, handler))
			r.Get("/sessions", session.List(log, handler))
			r.Delete("/sessions/{chat_id}", session.Reset(log, handler))
		})
	})

	return router
}

// New starts the API server and blocks until it stops.
func New(conf *config.Config, log *slog.Logger, handler Handler) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:           NewRouter(log, handler),
		ErrorLog:          httpLog,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
