package states

import (
	"ProgJulia/bot/admin"
	"ProgJulia/entity"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

const inviteDays = 30

// CreateInvite issues a student invite into an existing group.
type CreateInvite struct {
	admin.BaseState
	groupKey    string
	maxKey      string
	frontendURL string
	days        int
}

func NewCreateInvite(groupKey, maxKey, frontendURL string, days int) *CreateInvite {
	if days <= 0 {
		days = inviteDays
	}
	return &CreateInvite{
		BaseState:   admin.NewBaseState(false),
		groupKey:    groupKey,
		maxKey:      maxKey,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		days:        days,
	}
}

func (s *CreateInvite) Enter(c *admin.Context) error {
	group := strings.TrimSpace(c.Attributes().MustString(s.groupKey))
	maxUsers := c.Attributes().MustInt(s.maxKey)

	if maxUsers <= 0 {
		c.Send("Error: Max users must be a positive integer.")
		return nil
	}

	names, err := c.Groups().GroupNames(c.Context())
	if err != nil {
		return err
	}
	if !slices.Contains(names, group) {
		c.Send("Error: Group with name " + group + " does not exist.")
		return nil
	}

	code, err := c.Invites().CreateInvite(c.Context(), entity.StudentRole, s.days, maxUsers, entity.DestinationGroup, group)
	if err != nil {
		return err
	}
	c.Log().With(
		slog.String("group", group),
		slog.Int("max_usage", maxUsers),
	).Info("group invite created")
	c.Send(fmt.Sprintf("Invite URL is: %s/invite\nYour invite code: %s", s.frontendURL, code))
	return nil
}

// CreateInviteByRole issues an invite for a coworker role.
type CreateInviteByRole struct {
	admin.BaseState
	roleKey string
	maxKey  string
	days    int
}

func NewCreateInviteByRole(roleKey, maxKey string, days int) *CreateInviteByRole {
	if days <= 0 {
		days = inviteDays
	}
	return &CreateInviteByRole{
		BaseState: admin.NewBaseState(false),
		roleKey:   roleKey,
		maxKey:    maxKey,
		days:      days,
	}
}

func (s *CreateInviteByRole) Enter(c *admin.Context) error {
	role, err := entity.ParseRole(c.Attributes().MustString(s.roleKey))
	if err != nil || !slices.Contains(entity.CoworkerRoles, role) {
		c.Send("Wrong role name! Please select from ADMIN, TEACHER, MANAGER, MENTOR.")
		return nil
	}
	maxUsers := c.Attributes().MustInt(s.maxKey)
	if maxUsers <= 0 {
		c.Send("Error: Max users must be a positive integer.")
		return nil
	}

	code, err := c.Invites().CreateInvite(c.Context(), role, s.days, maxUsers, entity.DestinationCoworker, entity.CoworkersGroup)
	if err != nil {
		return err
	}
	c.Log().With(
		slog.String("role", string(role)),
		slog.Int("max_usage", maxUsers),
	).Info("role invite created")
	c.Send(fmt.Sprintf("New invite code for %s(s) is: %s", role, code))
	return nil
}
