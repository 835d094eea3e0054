package types

import (
	"bytes"
	"encoding/json"
)

type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldNull
	fieldValue
)

// Field is one member of a partial-update payload. It distinguishes a
// key that was absent from the JSON body (Unset), a key sent as null
// (Null) and a key carrying a value (Value).
//
// The zero Field is Unset. UnmarshalJSON is only invoked for keys that
// are present, which is what makes the distinction possible.
type Field[T any] struct {
	state fieldState
	value T
}

// Value returns a Field holding v.
func Value[T any](v T) Field[T] {
	return Field[T]{state: fieldValue, value: v}
}

// Null returns a Field that was explicitly sent as null.
func Null[T any]() Field[T] {
	return Field[T]{state: fieldNull}
}

// IsUnset reports whether the key was absent.
func (f Field[T]) IsUnset() bool { return f.state == fieldUnset }

// IsNull reports whether the key was sent as null.
func (f Field[T]) IsNull() bool { return f.state == fieldNull }

// Get returns the carried value and whether there is one.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == fieldValue
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.state, f.value = fieldNull, zero
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.state, f.value = fieldValue, v
	return nil
}

// MarshalJSON implements json.Marshaler. Unset and Null both encode as
// null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != fieldValue {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
