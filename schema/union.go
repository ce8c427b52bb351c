package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// UnionError is raised when a tagged-union request cannot be resolved to
// any of its candidate branches (spec.md §4.3 tie-break rules).
type UnionError struct {
	DiscriminatorKey string
	Got              any
	Want             []string
}

func (e *UnionError) Error() string {
	return fmt.Sprintf("schema: discriminator %q = %v does not match any of %v", e.DiscriminatorKey, e.Got, e.Want)
}

// ResolveUnion picks the branch of a tagged union whose discriminator field
// (the field tagged `forge:"...,discriminator"`) matches the discriminator
// value found in raw. branches must be pointers to zero-valued candidate
// structs (e.g. []any{(*CreateUser)(nil), (*UpdateUser)(nil)}); the return
// value is a freshly allocated, populated instance of the matching branch.
func ResolveUnion(raw map[string]any, branches []any) (any, error) {
	var key string
	var allowed []string

	for _, branch := range branches {
		t := reflect.TypeOf(branch)
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		descs, err := Describe(t)
		if err != nil {
			return nil, err
		}
		for _, d := range descs {
			if !d.Discriminator {
				continue
			}
			key = d.WireName()
			want := d.Default
			allowed = append(allowed, want)
			if got, ok := raw[key]; ok {
				if fmt.Sprint(got) == want {
					return decodeBranch(raw, t)
				}
			}
		}
	}
	return nil, &UnionError{DiscriminatorKey: key, Got: raw[key], Want: allowed}
}

func decodeBranch(raw map[string]any, t reflect.Type) (any, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	out := reflect.New(t)
	if err := json.Unmarshal(b, out.Interface()); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}
