package session

import "ProgJulia/entity"

type Core interface {
	ActiveSessions() ([]entity.SessionInfo, error)
	ResetSession(chatID int64) (bool, error)
}
