package entity

import "time"

type DestinationType string

const (
	DestinationGroup    DestinationType = "GROUP"
	DestinationCoworker DestinationType = "COWORKER"
)

type Invite struct {
	Code            string          `json:"code" bson:"code"`
	Role            Role            `json:"role" bson:"role"`
	DestinationType DestinationType `json:"destination_type" bson:"destination_type"`
	Destination     string          `json:"destination" bson:"destination"`
	MaxUsage        int             `json:"max_usage" bson:"max_usage"`
	Used            int             `json:"used" bson:"used"`
	CreatedAt       time.Time       `json:"created_at" bson:"created_at"`
	ExpiresAt       time.Time       `json:"expires_at" bson:"expires_at"`
}

func (i *Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
