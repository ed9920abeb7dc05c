package admin

import (
	"ProgJulia/entity"
	"ProgJulia/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

const DefaultSessionTimeout = 20 * time.Minute

// Executor drives command sessions: it starts commands, feeds operator input
// to the current state and walks the chain until a state waits for input.
type Executor struct {
	registry  *Registry
	sessions  SessionStore
	messenger Messenger
	services  Services
	timeout   time.Duration
	chats     chatLocks
	wg        sync.WaitGroup
	log       *slog.Logger
}

func NewExecutor(registry *Registry, sessions SessionStore, messenger Messenger, services Services, log *slog.Logger) *Executor {
	return &Executor{
		registry:  registry,
		sessions:  sessions,
		messenger: messenger,
		services:  services,
		timeout:   DefaultSessionTimeout,
		chats:     chatLocks{locks: make(map[int64]*chatLock)},
		log:       log.With(sl.Module("admin.executor")),
	}
}

func (e *Executor) SetSessionTimeout(timeout time.Duration) {
	if timeout > 0 {
		e.timeout = timeout
	}
}

func (e *Executor) Registry() *Registry {
	return e.registry
}

// Execute processes one update from an already authorised operator.
func (e *Executor) Execute(ctx context.Context, operator *entity.User, u Update) {
	unlock := e.chats.lock(u.ChatID)
	defer unlock()

	session := e.sessions.Get(u.ChatID)

	if u.Command() == ExitCommand {
		e.exit(session, u.ChatID)
		return
	}

	fresh := false
	if session == nil {
		cmd := e.registry.Get(u.Command())
		if cmd == nil || len(cmd.States) == 0 {
			e.reply(u.ChatID, "Unknown command")
			return
		}
		if !cmd.Allowed(operator.Role) {
			e.reply(u.ChatID, "Command not allowed for this user role")
			return
		}
		session = NewSession(u.ChatID, cmd)
		e.sessions.Put(session)
		fresh = true
	}

	log := e.log.With(
		slog.Int64("chat_id", u.ChatID),
		slog.Int64("operator", operator.ID),
		slog.String("command", session.Command.Name),
	)
	if fresh {
		log.Info("command started")
	}

	c := &Context{
		ctx:      ctx,
		operator: operator,
		update:   u,
		session:  session,
		exec:     e,
		log:      log,
	}

	err := e.advance(c, session, fresh)

	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		c.Send("Wrong input: " + verr.Message)
		session.Touch()
	case err != nil:
		log.With(sl.Err(err)).Error("command failed")
		e.sessions.Delete(u.ChatID)
		c.Send(fmt.Sprintf("The \"%s\" command failed, please try again later", session.Command.Name))
	case c.Finished():
		e.sessions.Delete(u.ChatID)
		log.Info("command finished")
	case session.Current() == nil:
		e.sessions.Delete(u.ChatID)
		c.Send(fmt.Sprintf("The \"%s\" command execution finished successfully!", session.Command.Name))
		log.Info("command completed")
	default:
		session.Touch()
	}
}

// advance runs the hooks for one update. A panicking state is turned into an error.
func (e *Executor) advance(c *Context, s *Session, fresh bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("state panic: %v", r)
		}
	}()

	state := s.Current()
	if fresh {
		if err = state.Enter(c); err != nil {
			return err
		}
	} else {
		if c.update.Document != nil {
			err = state.HandleUpdate(c)
		} else {
			err = state.HandleInput(c)
		}
		if err != nil {
			return err
		}
		if c.Finished() {
			return nil
		}
		state = s.Next()
		if state != nil {
			if err = state.Enter(c); err != nil {
				return err
			}
		}
	}

	for state != nil && !state.NeedsInput() && !c.Finished() {
		state = s.Next()
		if state == nil {
			break
		}
		if err = state.Enter(c); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) exit(session *Session, chatID int64) {
	if session == nil {
		e.reply(chatID, "There are no commands that need exit")
		return
	}
	e.sessions.Delete(chatID)
	e.reply(chatID, fmt.Sprintf("The \"%s\" command execution was forced to finished", session.Command.Name))
	e.log.With(
		slog.Int64("chat_id", chatID),
		slog.String("command", session.Command.Name),
	).Info("command aborted")
}

func (e *Executor) reply(chatID int64, text string) {
	if err := e.messenger.SendText(strconv.FormatInt(chatID, 10), text); err != nil {
		e.log.With(
			slog.Int64("chat_id", chatID),
			sl.Err(err),
		).Warn("send reply")
	}
}

// chatLocks serialises turns per chat. An entry lives only while someone
// holds or waits for it.
type chatLocks struct {
	mu    sync.Mutex
	locks map[int64]*chatLock
}

type chatLock struct {
	sync.Mutex
	refs int
}

func (l *chatLocks) lock(chatID int64) func() {
	l.mu.Lock()
	cl, ok := l.locks[chatID]
	if !ok {
		cl = &chatLock{}
		l.locks[chatID] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.Lock()
	return func() {
		cl.Unlock()
		l.mu.Lock()
		cl.refs--
		if cl.refs == 0 {
			delete(l.locks, chatID)
		}
		l.mu.Unlock()
	}
}

func (l *chatLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// Sessions lists the active sessions.
func (e *Executor) Sessions() []entity.SessionInfo {
	all := e.sessions.All()
	list := make([]entity.SessionInfo, 0, len(all))
	for _, s := range all {
		list = append(list, s.Info())
	}
	return list
}

// Reset drops the session of a chat, as /exit would, and tells the operator.
func (e *Executor) Reset(chatID int64) bool {
	unlock := e.chats.lock(chatID)
	defer unlock()

	session := e.sessions.Get(chatID)
	if session == nil {
		return false
	}
	e.exit(session, chatID)
	return true
}

// ExpireIdle removes sessions without activity for longer than the session timeout.
func (e *Executor) ExpireIdle() int {
	expired := e.sessions.Expire(e.timeout)
	for _, s := range expired {
		e.log.With(
			slog.Int64("chat_id", s.ChatID),
			slog.String("command", s.Command.Name),
		).Info("session expired")
	}
	return len(expired)
}

// Run expires idle sessions every interval until ctx is done.
func (e *Executor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.ExpireIdle()
		}
	}
}

// Wait blocks until background tasks started by states are done.
func (e *Executor) Wait() {
	e.wg.Wait()
}
