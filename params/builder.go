package params

import (
	"errors"
	"fmt"
)

// Int accepts any integer value.
func Int() func(v any) error {
	return func(v any) error {
		if _, ok := asInt64(v); !ok {
			return fmt.Errorf("%v is not an integer", v)
		}

		return nil
	}
}

// IntRange accepts integers in [min, max].
func IntRange(min, max int64) func(v any) error {
	return func(v any) error {
		i, ok := asInt64(v)
		if !ok {
			return fmt.Errorf("%v is not an integer", v)
		}

		if i < min || i > max {
			return fmt.Errorf("%d is outside [%d, %d]", i, min, max)
		}

		return nil
	}
}

// Float accepts any numeric value.
func Float() func(v any) error {
	return func(v any) error {
		if _, ok := asFloat64(v); !ok {
			return fmt.Errorf("%v is not a number", v)
		}

		return nil
	}
}

// FloatRange accepts numbers in [min, max].
func FloatRange(min, max float64) func(v any) error {
	return func(v any) error {
		f, ok := asFloat64(v)
		if !ok {
			return fmt.Errorf("%v is not a number", v)
		}

		if f < min || f > max {
			return fmt.Errorf("%g is outside [%g, %g]", f, min, max)
		}

		return nil
	}
}

// String accepts any string value.
func String() func(v any) error {
	return func(v any) error {
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%v is not a string", v)
		}

		return nil
	}
}

// OneOf accepts only the listed strings.
func OneOf(allowed ...string) func(v any) error {
	return func(v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%v is not a string", v)
		}

		for _, a := range allowed {
			if s == a {
				return nil
			}
		}

		return fmt.Errorf("%q is not one of %v", s, allowed)
	}
}

// Bool accepts any boolean value.
func Bool() func(v any) error {
	return func(v any) error {
		if _, ok := v.(bool); !ok {
			return errors.New("not a boolean")
		}

		return nil
	}
}

// Builder declares a parameter set step by step.
type Builder struct {
	params []*Param
}

// MakeBuilder returns an empty builder.
func MakeBuilder() Builder {
	return Builder{}
}

// AddInt declares an integer parameter.
func (b Builder) AddInt(name string, def int64, desc string) Builder {
	b.params = append(b.params, NewParam(name, def, Int(), desc))
	return b
}

// AddIntRange declares an integer parameter constrained to [min, max].
func (b Builder) AddIntRange(
	name string,
	def, min, max int64,
	desc string,
) Builder {
	b.params = append(b.params, NewParam(name, def, IntRange(min, max), desc))
	return b
}

// AddFloat declares a numeric parameter.
func (b Builder) AddFloat(name string, def float64, desc string) Builder {
	b.params = append(b.params, NewParam(name, def, Float(), desc))
	return b
}

// AddFloatRange declares a numeric parameter constrained to [min, max].
func (b Builder) AddFloatRange(
	name string,
	def, min, max float64,
	desc string,
) Builder {
	b.params = append(b.params, NewParam(name, def, FloatRange(min, max), desc))
	return b
}

// AddString declares a string parameter.
func (b Builder) AddString(name, def, desc string) Builder {
	b.params = append(b.params, NewParam(name, def, String(), desc))
	return b
}

// AddEnum declares a string parameter restricted to the allowed values.
func (b Builder) AddEnum(
	name, def string,
	allowed []string,
	desc string,
) Builder {
	b.params = append(b.params, NewParam(name, def, OneOf(allowed...), desc))
	return b
}

// AddBool declares a boolean parameter.
func (b Builder) AddBool(name string, def bool, desc string) Builder {
	b.params = append(b.params, NewParam(name, def, Bool(), desc))
	return b
}

// AddCustom declares a parameter with a caller-supplied validator.
func (b Builder) AddCustom(p *Param) Builder {
	b.params = append(b.params, p)
	return b
}

// Build assembles an isolated set from the declarations. The builder can be
// reused; each Build returns an independent copy.
func (b Builder) Build() *Set {
	set := NewSet()
	for _, p := range b.params {
		set.Add(p)
	}

	return set.Clone()
}
