package model

import (
	"bytes"
	"encoding/json"
)

// Ref is a foreign-reference field: on the wire it is either the
// referenced document's id or, after populate, the expanded document.
type Ref[T any] struct {
	id  string
	doc *T
}

// NewRef returns an unresolved reference to the given id.
func NewRef[T any](id string) Ref[T] {
	return Ref[T]{id: id}
}

// ID returns the referenced document id.
func (r Ref[T]) ID() string {
	return r.id
}

// Doc returns the expanded document, nil while unresolved.
func (r Ref[T]) Doc() *T {
	return r.doc
}

// Resolved reports whether the reference has been populated.
func (r Ref[T]) Resolved() bool {
	return r.doc != nil
}

// IsZero reports whether the reference is empty.
func (r Ref[T]) IsZero() bool {
	return r.id == "" && r.doc == nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.doc != nil {
		return json.Marshal(r.doc)
	}
	return json.Marshal(r.id)
}

func (r *Ref[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}
	if b[0] == '"' {
		r.doc = nil
		return json.Unmarshal(b, &r.id)
	}
	doc := new(T)
	if err := json.Unmarshal(b, doc); err != nil {
		return err
	}
	// An expanded document carries its own id field.
	var ident struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(b, &ident)
	r.id = ident.ID
	r.doc = doc
	return nil
}
