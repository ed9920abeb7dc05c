// Package states holds the reusable steps the admin commands are assembled from.
package states

import (
	"ProgJulia/bot/admin"
	"strconv"
	"strings"
)

// EnterText prompts the operator and stores the reply under key.
type EnterText struct {
	admin.BaseState
	prompt string
	key    string
}

func NewEnterText(prompt, key string, validators ...admin.Validator) *EnterText {
	return &EnterText{
		BaseState: admin.NewBaseState(true, validators...),
		prompt:    prompt,
		key:       key,
	}
}

func (s *EnterText) Enter(c *admin.Context) error {
	c.Send(s.prompt)
	return nil
}

func (s *EnterText) HandleInput(c *admin.Context) error {
	if err := s.BaseState.HandleInput(c); err != nil {
		return err
	}
	c.PutAttribute(s.key, c.Message())
	return nil
}

// EnterInteger stores the reply as an int.
type EnterInteger struct {
	EnterText
}

func NewEnterInteger(prompt, key string) *EnterInteger {
	return &EnterInteger{EnterText: *NewEnterText(prompt, key, admin.Integer())}
}

func (s *EnterInteger) HandleInput(c *admin.Context) error {
	if err := s.BaseState.HandleInput(c); err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(c.Message()))
	if err != nil {
		return admin.Invalid(err.Error())
	}
	c.PutAttribute(s.key, n)
	return nil
}

// PrintText sends a text an earlier state stored.
type PrintText struct {
	admin.BaseState
	key string
}

func NewPrintText(key string) *PrintText {
	return &PrintText{BaseState: admin.NewBaseState(false), key: key}
}

func (s *PrintText) Enter(c *admin.Context) error {
	c.Send(c.Attributes().MustString(s.key))
	return nil
}

// CreateHelp lists the commands the operator's role may run.
type CreateHelp struct {
	admin.BaseState
	key string
}

func NewCreateHelp(key string) *CreateHelp {
	return &CreateHelp{BaseState: admin.NewBaseState(false), key: key}
}

func (s *CreateHelp) Enter(c *admin.Context) error {
	var sb strings.Builder
	for _, cmd := range c.Registry().All() {
		if !cmd.Allowed(c.Operator().Role) {
			continue
		}
		sb.WriteString(cmd.Name)
		sb.WriteString(": ")
		sb.WriteString(cmd.Description)
		sb.WriteString("\r\n")
	}
	c.PutAttribute(s.key, sb.String())
	return nil
}
