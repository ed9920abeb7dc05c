package core

import (
	"ProgJulia/entity"
	"log/slog"
)

func (c *Core) ActiveSessions() ([]entity.SessionInfo, error) {
	if c.sessions == nil {
		return nil, ErrNotConfigured
	}
	return c.sessions.Sessions(), nil
}

func (c *Core) ResetSession(chatID int64) (bool, error) {
	if c.sessions == nil {
		return false, ErrNotConfigured
	}
	reset := c.sessions.Reset(chatID)
	if reset {
		c.log.With(slog.Int64("chat_id", chatID)).Info("admin session reset")
	}
	return reset, nil
}
