package schema

import (
	"encoding/json"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses the generic JSON value carried by an httpmsg.Response into
// a typed response struct, then runs struct-tag validation
// (github.com/go-playground/validator/v10, the library the teacher's cereal
// package already depends on for field validation).
func Decode[T any](raw any) (T, error) {
	var out T
	if raw == nil {
		return out, nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, err
	}
	if reflect.ValueOf(out).Kind() == reflect.Struct {
		if err := validate.Struct(out); err != nil {
			return out, err
		}
	}
	return out, nil
}

// DecodeInto is the reflection-based counterpart of Decode, used where the
// target type is only known at runtime (e.g. the route proxy decoding
// dict-shaped params into the contract's request type).
func DecodeInto(raw any, target any) error {
	if raw == nil {
		return nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, target); err != nil {
		return err
	}
	v := reflect.ValueOf(target)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() == reflect.Struct {
		return validate.Struct(target)
	}
	return nil
}
