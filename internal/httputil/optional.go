package httputil

import (
	"bytes"
	"encoding/json"
)

// Optional tracks presence and value for JSON merge-patch fields (RFC 7396):
//   - Set=false: field absent from JSON (don't change)
//   - Set=true, Value=nil: field is JSON null (clear it)
//   - Set=true, Value!=nil: field has a value
type Optional[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON is only called when the field is present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Patch converts the field to the pointer-to-pointer form used by item
// patches: nil when absent, a pointer to nil when cleared.
func (o Optional[T]) Patch() **T {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}
