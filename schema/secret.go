package schema

// Revealer is implemented by secret-valued fields: serialization always
// unwraps to the revealed string, never to a placeholder (spec.md §4.1,
// §8 boundary behavior). Grounded on cereal's Secret field concept
// (zoobzio-zbz/cereal/field.go), adapted from a tagged Field value into a
// small generic wrapper type that a request struct field can hold directly.
type Revealer interface {
	Reveal() string
}

// Secret wraps a string so that it never prints or logs in the clear:
// String() redacts, Reveal() (used only by the body serializer) does not.
type Secret string

// Reveal returns the unredacted value.
func (s Secret) Reveal() string { return string(s) }

// String redacts the value — satisfies fmt.Stringer so that accidental
// logging, error formatting, or %v never leaks the secret.
func (s Secret) String() string { return "******" }

// MarshalJSON redacts by default; the body serializer bypasses this by
// calling Reveal() directly before handing fields to the JSON encoder.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"******"`), nil
}
