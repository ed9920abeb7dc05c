package core

import (
	"ProgJulia/entity"
	"ProgJulia/internal/lib/sl"
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
)

var (
	ErrNotConfigured = errors.New("service is not configured")
	ErrInvalidToken  = errors.New("invalid api key")
)

// SessionManager is the admin command executor as seen by the API.
type SessionManager interface {
	Sessions() []entity.SessionInfo
	Reset(chatID int64) bool
}

type GoogleAuthorizer interface {
	Exchange(ctx context.Context, state, code string) error
}

// MessageService delivers service notes to the bot admin.
type MessageService interface {
	SendMessage(msg string)
}

type Core struct {
	sessions SessionManager
	google   GoogleAuthorizer
	ms       MessageService
	authKey  string
	log      *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log: log.With(sl.Module("core")),
	}
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

func (c *Core) SetSessionManager(sessions SessionManager) {
	c.sessions = sessions
}

func (c *Core) SetGoogleAuthorizer(google GoogleAuthorizer) {
	c.google = google
}

func (c *Core) SetMessageService(ms MessageService) {
	c.ms = ms
}

// AuthenticateByToken accepts the API key from the config file; an empty key disables the API.
func (c *Core) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if c.authKey == "" {
		return nil, ErrNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(c.authKey)) != 1 {
		return nil, ErrInvalidToken
	}
	return &entity.UserAuth{Username: "api", Token: token}, nil
}
