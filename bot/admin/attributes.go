package admin

import (
	"errors"
	"fmt"
)

var (
	ErrAttributeMissing = errors.New("attribute is not set")
	ErrAttributeType    = errors.New("attribute has another type")
)

// KeyError reports an attribute that is absent or holds an unexpected type.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("attribute %q: %v", e.Key, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// Attributes is the per-session scratchpad states use to hand values down the chain.
type Attributes struct {
	values map[string]any
}

func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]any)}
}

func (a *Attributes) Put(key string, value any) {
	a.values[key] = value
}

func (a *Attributes) Value(key string) (any, bool) {
	v, ok := a.values[key]
	return v, ok
}

func (a *Attributes) Len() int {
	return len(a.values)
}

func (a *Attributes) String(key string) (string, error) {
	v, ok := a.values[key]
	if !ok {
		return "", &KeyError{Key: key, Err: ErrAttributeMissing}
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	}
	return "", &KeyError{Key: key, Err: ErrAttributeType}
}

func (a *Attributes) Int(key string) (int, error) {
	v, ok := a.values[key]
	if !ok {
		return 0, &KeyError{Key: key, Err: ErrAttributeMissing}
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	}
	return 0, &KeyError{Key: key, Err: ErrAttributeType}
}

func (a *Attributes) Strings(key string) ([]string, error) {
	v, ok := a.values[key]
	if !ok {
		return nil, &KeyError{Key: key, Err: ErrAttributeMissing}
	}
	s, ok := v.([]string)
	if !ok {
		return nil, &KeyError{Key: key, Err: ErrAttributeType}
	}
	return s, nil
}

// MustString is for keys an earlier state of the same command always sets.
// A miss is a wiring bug; the executor recovers the panic and ends the session.
func (a *Attributes) MustString(key string) string {
	s, err := a.String(key)
	if err != nil {
		panic(err)
	}
	return s
}

func (a *Attributes) MustInt(key string) int {
	n, err := a.Int(key)
	if err != nil {
		panic(err)
	}
	return n
}
