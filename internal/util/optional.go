package util

import (
	"encoding/json"
	"fmt"
)

// Optional is a value that may or may not be present.
// The zero value is an absent Optional.
type Optional[T comparable] struct {
	value   T
	present bool
}

// Some returns an Optional holding value
func Some[T comparable](value T) Optional[T] {
	return Optional[T]{value: value, present: true}
}

// None returns an absent Optional
func None[T comparable]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) IsPresent() bool {
	return o.present
}

// OrElse returns the value if present, fallback otherwise
func (o Optional[T]) OrElse(fallback T) T {
	if !o.present {
		return fallback
	}
	return o.value
}

// Equals reports whether both are absent, or both are present with equal values
func (o Optional[T]) Equals(other Optional[T]) bool {
	if o.present != other.present {
		return false
	}
	return !o.present || o.value == other.value
}

func (o Optional[T]) String() string {
	if !o.present {
		return "N/A"
	}
	return fmt.Sprintf("%v", o.value)
}

// MarshalJSON renders an absent value as null
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = None[T]()
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*o = Some(value)
	return nil
}
