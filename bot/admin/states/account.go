package states

import (
	"ProgJulia/bot/admin"
	"ProgJulia/entity"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

var uaPhone = regexp.MustCompile(`^\+380\d{9}$`)

// findAccount resolves a +380 phone, a numeric user id or an e-mail.
func findAccount(c *admin.Context, input string) (*entity.User, error) {
	input = strings.TrimSpace(input)
	users := c.Users()

	if uaPhone.MatchString(input) {
		list, err := users.FindByPhone(c.Context(), input)
		if err != nil || len(list) == 0 {
			return nil, err
		}
		return &list[0], nil
	}
	if id, err := strconv.ParseInt(input, 10, 64); err == nil {
		return users.FindByID(c.Context(), id)
	}
	if strings.Contains(input, "@") {
		return users.FindByEmail(c.Context(), input)
	}
	return nil, nil
}

// splitSearch reads "phone;email", or a single phone or e-mail.
func splitSearch(search string) (phone, email string) {
	parts := strings.Split(search, ";")
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	if strings.Index(search, "@") > 0 {
		return "", strings.TrimSpace(search)
	}
	return strings.TrimSpace(search), ""
}

type Block struct {
	admin.BaseState
	key string
}

func NewBlock(key string) *Block {
	return &Block{BaseState: admin.NewBaseState(false), key: key}
}

func (s *Block) Enter(c *admin.Context) error {
	input := c.Attributes().MustString(s.key)
	if strings.TrimSpace(input) == "" {
		c.Send("Incorrect input: phone number, email, or user ID is required!")
		return nil
	}

	user, err := findAccount(c, input)
	if err != nil {
		return err
	}
	if user == nil {
		c.Send("User not found!")
		return nil
	}
	if user.IsAdmin() {
		c.Send(fmt.Sprintf("You can't block an administrator with Id %d", user.ID))
		return nil
	}

	if err = c.Users().SetBanned(c.Context(), user.ID, true); err != nil {
		return err
	}
	c.Log().With(slog.Int64("user_id", user.ID)).Info("user blocked")
	c.Send("User blocked successfully.")
	return nil
}

type Unblock struct {
	admin.BaseState
	key string
}

func NewUnblock(key string) *Unblock {
	return &Unblock{BaseState: admin.NewBaseState(false), key: key}
}

func (s *Unblock) Enter(c *admin.Context) error {
	input := c.Attributes().MustString(s.key)
	if strings.TrimSpace(input) == "" {
		c.Send("Incorrect input: phone number, email, or user ID is required!")
		return nil
	}

	user, err := findAccount(c, input)
	if err != nil {
		return err
	}
	if user == nil {
		c.Send("User not found!")
		return nil
	}
	if !user.Banned {
		c.Send("User is not blocked.")
		return nil
	}

	if err = c.Users().SetBanned(c.Context(), user.ID, false); err != nil {
		return err
	}
	c.Log().With(slog.Int64("user_id", user.ID)).Info("user unblocked")
	c.Send("User unblocked successfully.")
	return nil
}

// FindUser lists users matching the search. Nothing found ends the command.
type FindUser struct {
	admin.BaseState
	key string
}

func NewFindUser(key string) *FindUser {
	return &FindUser{BaseState: admin.NewBaseState(false), key: key}
}

func (s *FindUser) Enter(c *admin.Context) error {
	phone, email := splitSearch(c.Attributes().MustString(s.key))

	users, err := c.Users().FindByPhoneOrEmailLike(c.Context(), phone, email)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		c.Send("No users found")
		c.SetFinished(true)
		return nil
	}

	var sb strings.Builder
	for _, u := range users {
		fmt.Fprintf(&sb, "The person you are looking for: \nID: %d\nName: %s\r\n", u.ID, u.Name)
	}
	c.Send(sb.String())
	return nil
}

// SetEmail replaces the e-mails of the first user matching the search.
// The first address becomes the login.
type SetEmail struct {
	admin.BaseState
	userKey   string
	emailsKey string
	email     admin.Validator
}

func NewSetEmail(userKey, emailsKey string) *SetEmail {
	return &SetEmail{
		BaseState: admin.NewBaseState(false),
		userKey:   userKey,
		emailsKey: emailsKey,
		email:     admin.Email(),
	}
}

func (s *SetEmail) Enter(c *admin.Context) error {
	phone, email := splitSearch(c.Attributes().MustString(s.userKey))

	users, err := c.Users().FindByPhoneOrEmailLike(c.Context(), phone, email)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		c.Send("No users found")
		return nil
	}
	user := users[0]

	emails := splitList(c.Attributes().MustString(s.emailsKey), ",")
	if len(emails) == 0 {
		c.Send("Wrong user search pattern")
		return nil
	}
	for i, e := range emails {
		e = strings.ToLower(e)
		emails[i] = e
		if s.email.Validate(e) != nil {
			c.Send("Invalid email address: " + e)
			return nil
		}
		owner, err := c.Users().FindByEmail(c.Context(), e)
		if err != nil {
			return err
		}
		if owner != nil && owner.ID != user.ID {
			c.Send("Email address " + e + " is already in use by another user.")
			return nil
		}
	}

	user.Email = emails[0]
	user.Emails = unique(emails)
	if err = c.Users().SaveUser(c.Context(), &user); err != nil {
		return err
	}

	c.Send("User emails successfully updated")
	c.Send("Now user has the following emails:")
	c.Send(strings.Join(user.Emails, ", "))
	return nil
}

// SetPhone replaces the phones of a user given by id.
type SetPhone struct {
	admin.BaseState
	userIDKey string
	phonesKey string
}

func NewSetPhone(userIDKey, phonesKey string) *SetPhone {
	return &SetPhone{
		BaseState: admin.NewBaseState(false),
		userIDKey: userIDKey,
		phonesKey: phonesKey,
	}
}

func (s *SetPhone) Enter(c *admin.Context) error {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Attributes().MustString(s.userIDKey)), 10, 64)
	if err != nil {
		c.Send("Wrong user id")
		return nil
	}
	phones := normalizePhones(c.Attributes().MustString(s.phonesKey))
	if len(phones) == 0 {
		c.Send("Wrong user phones")
		return nil
	}

	user, err := c.Users().FindByID(c.Context(), id)
	if err != nil {
		return err
	}
	if user == nil {
		c.Send("user id not exists")
		return nil
	}

	for _, p := range phones {
		if msg := checkPhone(p); msg != "" {
			c.Send(msg)
			return nil
		}
		owners, err := c.Users().FindByPhone(c.Context(), p)
		if err != nil {
			return err
		}
		for _, o := range owners {
			if o.ID != user.ID {
				c.Send("Phone number " + p + " is already in use by another user.")
				return nil
			}
		}
	}

	stored := make([]string, 0, len(phones))
	for _, p := range unique(phones) {
		stored = append(stored, "+"+p)
	}
	user.Phones = stored
	user.Phone = user.Phones[0]
	if err = c.Users().SaveUser(c.Context(), user); err != nil {
		return err
	}
	c.Send("User phone(s) successfully changed")
	return nil
}

type ListUsers struct {
	admin.BaseState
}

func NewListUsers() *ListUsers {
	return &ListUsers{BaseState: admin.NewBaseState(false)}
}

func (s *ListUsers) Enter(c *admin.Context) error {
	users, err := c.Users().FindAll(c.Context())
	if err != nil {
		return err
	}
	if len(users) == 0 {
		c.Send("There are no users, except you")
		return nil
	}

	var sb strings.Builder
	sb.WriteString("All user list:\r\n")
	for _, u := range users {
		fmt.Fprintf(&sb, "Id: %d, name: %s, surname: %s, email: %s, phone: %s\r\n",
			u.ID, u.Name, u.Surname, u.Email, u.Phone)
	}
	c.Send(sb.String())
	return nil
}

func splitList(s, sep string) []string {
	var list []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}

func unique(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
