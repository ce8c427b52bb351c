package schema

import (
	"fmt"
	"net/url"
)

// FormContentType is the x-www-form-urlencoded body content type.
const FormContentType = "application/x-www-form-urlencoded"

// FormSerializer marshals body fields to a form-encoded body. Slice values
// serialize with doseq semantics (repeated key per element), matching the
// query serializer (spec.md §4.1).
type FormSerializer struct{}

// NewFormSerializer builds the built-in form body serializer.
func NewFormSerializer() *FormSerializer { return &FormSerializer{} }

func (FormSerializer) ContentType() string { return FormContentType }

func (FormSerializer) Marshal(fields map[string]any) (string, error) {
	if len(fields) == 0 {
		return "", nil
	}
	values := url.Values{}
	for k, v := range fields {
		v = unwrapSecrets(v)
		switch vv := v.(type) {
		case []string:
			for _, item := range vv {
				values.Add(k, item)
			}
		case []any:
			for _, item := range vv {
				values.Add(k, fmt.Sprint(item))
			}
		default:
			values.Add(k, fmt.Sprint(vv))
		}
	}
	return values.Encode(), nil
}
