package states

import (
	"ProgJulia/bot/admin"
	"ProgJulia/entity"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

type CreateGroup struct {
	admin.BaseState
	key string
}

func NewCreateGroup(key string) *CreateGroup {
	return &CreateGroup{BaseState: admin.NewBaseState(false), key: key}
}

func (s *CreateGroup) Enter(c *admin.Context) error {
	name := strings.TrimSpace(c.Attributes().MustString(s.key))
	if name == "" {
		c.Send("Wrong group name")
		return nil
	}
	if name == entity.CoworkersGroup {
		c.Send("This group name is reserved and cannot be used")
		return nil
	}

	created, err := c.Groups().CreateGroup(c.Context(), name)
	if err != nil {
		return err
	}
	if !created {
		c.Send("Group already exists")
		return nil
	}
	c.Log().With(slog.String("group", name)).Info("group created")
	return nil
}

type ListGroups struct {
	admin.BaseState
}

func NewListGroups() *ListGroups {
	return &ListGroups{BaseState: admin.NewBaseState(false)}
}

func (s *ListGroups) Enter(c *admin.Context) error {
	names, err := c.Groups().GroupNames(c.Context())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		c.Send("No groups defined")
		return nil
	}
	c.Send(strings.Join(names, "\r\n"))
	return nil
}

type groupOp struct {
	userID string
	group  string
	add    bool
}

// parseGroupOps reads "1+group1;2-group2": user id, sign, group name.
func parseGroupOps(data string) ([]groupOp, bool) {
	var ops []groupOp
	for _, element := range strings.Split(data, ";") {
		i := strings.IndexAny(element, "+-")
		if i < 0 {
			return nil, false
		}
		group := element[i+1:]
		if j := strings.IndexAny(group, "+-"); j >= 0 {
			group = group[:j]
		}
		group = strings.TrimSpace(group)
		if group == "" {
			return nil, false
		}
		ops = append(ops, groupOp{
			userID: strings.TrimSpace(element[:i]),
			group:  group,
			add:    element[i] == '+',
		})
	}
	return ops, true
}

// Group adds users to groups and removes them. Operations run in order and
// stop at the first bad one.
type Group struct {
	admin.BaseState
	key string
}

func NewGroup(key string) *Group {
	return &Group{BaseState: admin.NewBaseState(false), key: key}
}

func (s *Group) Enter(c *admin.Context) error {
	data := c.Attributes().MustString(s.key)
	if !strings.ContainsAny(data, "+-") {
		c.Send("Incorrect input: at least one \"+\" or \"-\" is required!")
		return nil
	}
	ops, ok := parseGroupOps(data)
	if !ok {
		c.Send("Incorrect input")
		return nil
	}

	names, err := c.Groups().GroupNames(c.Context())
	if err != nil {
		return err
	}

	for _, op := range ops {
		id, err := strconv.ParseInt(op.userID, 10, 64)
		if err != nil {
			c.Send("Incorrect input of user's id!")
			return nil
		}
		user, err := c.Users().FindByID(c.Context(), id)
		if err != nil {
			return err
		}
		if user == nil {
			c.Send("User not found!")
			return nil
		}
		if !slices.Contains(names, op.group) {
			c.Send(fmt.Sprintf("Incorrect input: group \"%s\" doesn't exist!", op.group))
			return nil
		}

		if op.add {
			err = c.Users().AddToGroup(c.Context(), id, op.group)
		} else {
			err = c.Users().RemoveFromGroup(c.Context(), id, op.group)
		}
		if err != nil {
			return err
		}
		c.Log().With(
			slog.Int64("user_id", id),
			slog.String("group", op.group),
			slog.Bool("add", op.add),
		).Info("group membership changed")
	}
	return nil
}

// BroadcastGroup messages every member of a group page by page. Members
// without a linked chat or whose delivery fails are counted as skipped.
type BroadcastGroup struct {
	admin.BaseState
	groupKey   string
	messageKey string
	pageSize   int
}

func NewBroadcastGroup(groupKey, messageKey string, pageSize int) *BroadcastGroup {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &BroadcastGroup{
		BaseState:  admin.NewBaseState(false),
		groupKey:   groupKey,
		messageKey: messageKey,
		pageSize:   pageSize,
	}
}

func (s *BroadcastGroup) Enter(c *admin.Context) error {
	name := strings.TrimSpace(c.Attributes().MustString(s.groupKey))
	message := c.Attributes().MustString(s.messageKey)

	group, err := c.Groups().FindGroup(c.Context(), name)
	if err != nil {
		return err
	}
	if group == nil {
		c.Send("This Group does not exist. Please try again.")
		return nil
	}

	sent, skipped, err := sendToGroup(c, group.Name, message, s.pageSize)
	if err != nil {
		return err
	}
	c.Send(fmt.Sprintf("Message sent to %d user(s), skipped %d.", sent, skipped))
	return nil
}

// sendToGroup walks the group members in pages of size.
func sendToGroup(c *admin.Context, group, message string, size int) (sent, skipped int, err error) {
	total, err := c.Users().CountByGroup(c.Context(), group)
	if err != nil {
		return 0, 0, err
	}
	pages := int((total + int64(size) - 1) / int64(size))

	for page := 0; page < pages; page++ {
		users, err := c.Users().FindByGroup(c.Context(), group, page, size)
		if err != nil {
			return sent, skipped, err
		}
		for _, u := range users {
			if err := c.SendTo(u.TelegramChatID, message); err != nil {
				skipped++
				continue
			}
			sent++
		}
	}
	c.Log().With(
		slog.String("group", group),
		slog.Int("sent", sent),
		slog.Int("skipped", skipped),
	).Info("group notified")
	return sent, skipped, nil
}
