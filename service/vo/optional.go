package vo

import (
	"encoding/json"
)

// Optional holds a value that may be absent from the wire. The zero Optional
// is absent, so `omitzero` drops it on encode.
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// OrElse returns the value if present, otherwise fallback.
func (o Optional[T]) OrElse(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

func (o Optional[T]) IsZero() bool {
	return !o.set
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value = v
	o.set = true
	return nil
}
