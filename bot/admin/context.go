package admin

import (
	"ProgJulia/entity"
	"ProgJulia/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
)

var ErrNoRecipient = errors.New("recipient has no chat id")

// Context is built by the executor for one update and handed to every state hook
// run while processing it.
type Context struct {
	ctx      context.Context
	operator *entity.User
	update   Update
	session  *Session
	exec     *Executor
	finished bool
	log      *slog.Logger
}

func (c *Context) Context() context.Context {
	return c.ctx
}

func (c *Context) Operator() *entity.User {
	return c.operator
}

func (c *Context) ChatID() int64 {
	return c.update.ChatID
}

func (c *Context) Update() Update {
	return c.update
}

// Message is the text of the current update.
func (c *Context) Message() string {
	return c.update.Text
}

func (c *Context) Command() *Command {
	return c.session.Command
}

func (c *Context) Log() *slog.Logger {
	return c.log
}

// Send replies to the operator. Delivery problems are logged only.
func (c *Context) Send(text string) {
	if err := c.exec.messenger.SendText(strconv.FormatInt(c.update.ChatID, 10), text); err != nil {
		c.log.With(sl.Err(err)).Warn("send to operator")
	}
}

// SendTo delivers text to another chat. The error is returned so fan-out
// states can count skipped recipients.
func (c *Context) SendTo(recipient, text string) error {
	if recipient == "" {
		return ErrNoRecipient
	}
	if err := c.exec.messenger.SendText(recipient, text); err != nil {
		c.log.With(
			slog.String("recipient", recipient),
			sl.Err(err),
		).Debug("send to recipient")
		return err
	}
	return nil
}

func (c *Context) Attributes() *Attributes {
	return c.session.Attributes
}

func (c *Context) PutAttribute(key string, value any) {
	c.session.Attributes.Put(key, value)
}

func (c *Context) String(key string) (string, error) {
	return c.session.Attributes.String(key)
}

func (c *Context) Int(key string) (int, error) {
	return c.session.Attributes.Int(key)
}

// SetFinished ends the command after the current hook returns. The executor
// drops the session without the success message.
func (c *Context) SetFinished(finished bool) {
	c.finished = finished
}

func (c *Context) Finished() bool {
	return c.finished
}

func (c *Context) Users() UserService {
	return c.exec.services.Users
}

func (c *Context) Groups() GroupService {
	return c.exec.services.Groups
}

func (c *Context) Invites() InviteService {
	return c.exec.services.Invites
}

func (c *Context) Courses() CourseService {
	return c.exec.services.Courses
}

func (c *Context) Certificates() CertificateService {
	return c.exec.services.Certificates
}

func (c *Context) Credentials() CredentialService {
	return c.exec.services.Credentials
}

func (c *Context) Locker() Locker {
	return c.exec.services.Locker
}

func (c *Context) Files() Messenger {
	return c.exec.messenger
}

func (c *Context) Registry() *Registry {
	return c.exec.registry
}

// Go runs fn outside the update. The context passed to fn is not cancelled
// when the update finishes. fn must not touch session attributes.
func (c *Context) Go(name string, fn func(ctx context.Context)) {
	ctx := context.WithoutCancel(c.ctx)
	log := c.log.With(slog.String("task", name))
	c.exec.wg.Add(1)
	go func() {
		defer c.exec.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.With(sl.Err(fmt.Errorf("panic: %v", r))).Error("background task")
			}
		}()
		fn(ctx)
	}()
}
