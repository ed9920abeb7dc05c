package admin

import (
	"ProgJulia/entity"
	"sort"
	"sync"
)

// ExitCommand aborts the active command. The executor handles it itself.
const ExitCommand = "/exit"

type Command struct {
	Name        string
	Description string
	// Roles allowed to run the command; empty means everyone.
	Roles  []entity.Role
	States []State
}

func (c *Command) Allowed(role entity.Role) bool {
	if len(c.Roles) == 0 {
		return true
	}
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (c *Command) State(i int) State {
	if i < 0 || i >= len(c.States) {
		return nil
	}
	return c.States[i]
}

type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

func (r *Registry) Register(cmd *Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd.Name] = cmd
}

func (r *Registry) Get(name string) *Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands[name]
}

// All returns the commands ordered by name.
func (r *Registry) All() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		list = append(list, cmd)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}
