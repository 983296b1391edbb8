// Package params declares the tunable knobs of a simulation model and
// loads validated values into them.
package params

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound reports a lookup of a parameter that was never declared.
var ErrNotFound = errors.New("parameter not found")

// Param is one named knob with an optional validator.
type Param struct {
	Name        string
	Description string
	Validator   func(v any) error

	value any
}

// NewParam declares a parameter. The default value is stored as-is, without
// running the validator.
func NewParam(name string, def any, validator func(v any) error, desc string) *Param {
	return &Param{
		Name:        name,
		Description: desc,
		Validator:   validator,
		value:       def,
	}
}

// Value returns the current value.
func (p *Param) Value() any {
	return p.value
}

// SetValue validates v and stores it.
func (p *Param) SetValue(v any) error {
	if p.Validator != nil {
		if err := p.Validator(v); err != nil {
			return fmt.Errorf("parameter %q: %w", p.Name, err)
		}
	}

	p.value = v

	return nil
}

// Set is a collection of parameters addressed by name.
type Set struct {
	params map[string]*Param
}

// NewSet returns an empty collection.
func NewSet() *Set {
	return &Set{params: make(map[string]*Param)}
}

// Add puts p into the set, replacing any parameter with the same name.
func (s *Set) Add(p *Param) *Set {
	s.params[p.Name] = p
	return s
}

// Get returns the parameter declared under name.
func (s *Set) Get(name string) (*Param, error) {
	p, ok := s.params[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	return p, nil
}

// Value returns the current value of the parameter declared under name.
func (s *Set) Value(name string) (any, error) {
	p, err := s.Get(name)
	if err != nil {
		return nil, err
	}

	return p.Value(), nil
}

// SetValue validates and stores v on the parameter declared under name.
func (s *Set) SetValue(name string, v any) error {
	p, err := s.Get(name)
	if err != nil {
		return err
	}

	return p.SetValue(v)
}

// Int returns the parameter as an integer, coercing smaller integer kinds.
func (s *Set) Int(name string) (int64, error) {
	v, err := s.Value(name)
	if err != nil {
		return 0, err
	}

	i, ok := asInt64(v)
	if !ok {
		return 0, fmt.Errorf("parameter %q: %v is not an integer", name, v)
	}

	return i, nil
}

// Float returns the parameter as a float, accepting integer values too.
func (s *Set) Float(name string) (float64, error) {
	v, err := s.Value(name)
	if err != nil {
		return 0, err
	}

	f, ok := asFloat64(v)
	if !ok {
		return 0, fmt.Errorf("parameter %q: %v is not a number", name, v)
	}

	return f, nil
}

// String returns the parameter as a string.
func (s *Set) String(name string) (string, error) {
	v, err := s.Value(name)
	if err != nil {
		return "", err
	}

	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q: %v is not a string", name, v)
	}

	return str, nil
}

// Bool returns the parameter as a boolean.
func (s *Set) Bool(name string) (bool, error) {
	v, err := s.Value(name)
	if err != nil {
		return false, err
	}

	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("parameter %q: %v is not a boolean", name, v)
	}

	return b, nil
}

// Names returns the declared parameter names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.params))
	for name := range s.params {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ToMap returns the current values keyed by name.
func (s *Set) ToMap() map[string]any {
	m := make(map[string]any, len(s.params))
	for name, p := range s.params {
		m[name] = p.Value()
	}

	return m
}

// Clone returns an isolated copy of the set. Values of map or slice type are
// copied recursively so mutations do not leak between copies.
func (s *Set) Clone() *Set {
	clone := NewSet()
	for _, p := range s.params {
		clone.Add(NewParam(p.Name, deepCopy(p.value), p.Validator, p.Description))
	}

	return clone
}

func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = deepCopy(item)
		}

		return m
	case []any:
		l := make([]any, len(val))
		for i, item := range val {
			l[i] = deepCopy(item)
		}

		return l
	}

	return v
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	}

	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}

	return asInt64AsFloat(v)
}

func asInt64AsFloat(v any) (float64, bool) {
	i, ok := asInt64(v)
	if !ok {
		return 0, false
	}

	return float64(i), true
}
