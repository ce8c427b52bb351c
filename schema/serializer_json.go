package schema

import (
	"bytes"
	"encoding/json"
	"time"
)

// JSONContentType is the default body content type (spec.md §4.1).
const JSONContentType = "application/json"

// JSONSerializer marshals body fields to JSON. Timestamps (time.Time) are
// rendered as ISO-8601 strings (time.RFC3339Nano) before encoding; secret-valued
// fields (anything implementing Revealer) are unwrapped to their plain
// string before encoding, never to a placeholder (spec.md §4.1, §8).
type JSONSerializer struct{}

// NewJSONSerializer builds the built-in JSON body serializer.
func NewJSONSerializer() *JSONSerializer { return &JSONSerializer{} }

func (JSONSerializer) ContentType() string { return JSONContentType }

func (JSONSerializer) Marshal(fields map[string]any) (string, error) {
	if len(fields) == 0 {
		return "", nil
	}
	unwrapped := make(map[string]any, len(fields))
	for k, v := range fields {
		unwrapped[k] = unwrapSecrets(v)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(unwrapped); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func unwrapSecrets(v any) any {
	if r, ok := v.(Revealer); ok {
		return r.Reveal()
	}
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339Nano)
	}
	return v
}
