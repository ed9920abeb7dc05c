package entity

// UserAuth identifies the caller of the management API.
type UserAuth struct {
	Username string `json:"username"`
	Token    string `json:"-"`
}
