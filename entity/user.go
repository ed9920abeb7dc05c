package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	StudentRole Role = "STUDENT"
	MentorRole  Role = "MENTOR"
	TeacherRole Role = "TEACHER"
	ManagerRole Role = "MANAGER"
	AdminRole   Role = "ADMIN"
)

// CoworkerRoles may be granted through a role invite.
var CoworkerRoles = []Role{AdminRole, TeacherRole, ManagerRole, MentorRole}

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case StudentRole, MentorRole, TeacherRole, ManagerRole, AdminRole:
		return r, nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

type User struct {
	ID             int64     `json:"id" bson:"id"`
	UniqueID       string    `json:"unique_id" bson:"unique_id"`
	Name           string    `json:"name" bson:"name"`
	Surname        string    `json:"surname" bson:"surname"`
	Email          string    `json:"email" bson:"email" validate:"omitempty,email"`
	Emails         []string  `json:"emails" bson:"emails" validate:"omitempty,dive,email"`
	Phone          string    `json:"phone" bson:"phone"`
	Phones         []string  `json:"phones" bson:"phones"`
	Role           Role      `json:"role" bson:"role"`
	Banned         bool      `json:"banned" bson:"banned"`
	TelegramChatID string    `json:"telegram_chat_id" bson:"telegram_chat_id"`
	Groups         []string  `json:"groups" bson:"groups"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

func NewUser(name, email, phone string, role Role) *User {
	return &User{
		UniqueID:  uuid.NewString(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Role:      role,
		CreatedAt: time.Now(),
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == AdminRole
}

func (u *User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g == name {
			return true
		}
	}
	return false
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}
