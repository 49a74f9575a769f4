// Package opt contains a small optional-value type.
package opt

import (
	"encoding/json"
	"fmt"
)

// Maybe holds either a value of type V or nothing. The zero value is None.
type Maybe[V any] struct {
	defined bool
	value   V
}

// Some wraps a value.
func Some[V any](value V) Maybe[V] {
	return Maybe[V]{defined: true, value: value}
}

// None returns an empty Maybe.
func None[V any]() Maybe[V] { return Maybe[V]{} }

// IsDefined returns true if there is a value.
func (m Maybe[V]) IsDefined() bool { return m.defined }

// Value returns the value, or the zero value of V if there is none.
func (m Maybe[V]) Value() V { return m.value }

// OrElse returns the value if there is one, or otherwise the fallback.
func (m Maybe[V]) OrElse(fallback V) V {
	if m.defined {
		return m.value
	}
	return fallback
}

// String returns "[none]" for an empty Maybe, and otherwise the value formatted with %v.
func (m Maybe[V]) String() string {
	if !m.defined {
		return "[none]"
	}
	return fmt.Sprintf("%v", m.value)
}

// MarshalJSON encodes None as null.
func (m Maybe[V]) MarshalJSON() ([]byte, error) {
	if !m.defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

// UnmarshalJSON decodes null as None and anything else as Some.
func (m *Maybe[V]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = None[V]()
		return nil
	}
	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*m = Some(value)
	return nil
}
