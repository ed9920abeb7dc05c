package entity

import "time"

type SessionInfo struct {
	ChatID     int64     `json:"chat_id"`
	Command    string    `json:"command"`
	Step       int       `json:"step"`
	Steps      int       `json:"steps"`
	StartedAt  time.Time `json:"started_at"`
	LastAction time.Time `json:"last_action"`
}
