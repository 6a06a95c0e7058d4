package dto

import (
	"bytes"
	"encoding/json"
)

// Optional marks whether a JSON field was present in a request body.
// It backs patch payloads: only fields with Set applied are written.
type Optional[T any] struct {
	Value T
	Set   bool
	// Null is true when the field was sent as an explicit JSON null.
	Null bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
