package admin

// State is one step of a command. States are shared by every session running
// the command, so they keep per-conversation data in the Context attributes.
//
// A *ValidationError returned from a hook keeps the session on the same step.
// Any other error ends the session.
type State interface {
	NeedsInput() bool
	Validators() []Validator
	Enter(c *Context) error
	HandleInput(c *Context) error
	HandleUpdate(c *Context) error
}

// BaseState supplies default hooks for states to embed.
type BaseState struct {
	needsInput bool
	validators []Validator
}

func NewBaseState(needsInput bool, validators ...Validator) BaseState {
	return BaseState{
		needsInput: needsInput,
		validators: validators,
	}
}

func (s BaseState) NeedsInput() bool {
	return s.needsInput
}

func (s BaseState) Validators() []Validator {
	return s.validators
}

func (s BaseState) Enter(*Context) error {
	return nil
}

func (s BaseState) HandleInput(c *Context) error {
	return RunValidators(s.validators, c.Message())
}

// HandleUpdate rejects documents; only file states accept them.
func (s BaseState) HandleUpdate(*Context) error {
	return Invalid("Please send a text message.")
}
