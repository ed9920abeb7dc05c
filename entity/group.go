package entity

import "time"

// CoworkersGroup is the reserved destination of role invites.
const CoworkersGroup = "ProgAcademy"

type Group struct {
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
