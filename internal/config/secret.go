package config

import (
	"log/slog"
	"strconv"

	"gopkg.in/yaml.v3"
)

// RedactedPlaceholder is the token written in place of the API key whenever
// a snapshot is rendered or exported. Only Reveal returns the raw value.
const RedactedPlaceholder = "YOUR_API_KEY_HERE"

// Secret holds a sensitive string whose default textual representation is
// always RedactedPlaceholder.
type Secret struct {
	value string
}

// NewSecret wraps a raw secret value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Reveal returns the raw secret value. Call sites must use this
// deliberately; nothing reveals the value implicitly.
func (s Secret) Reveal() string { return s.value }

// Empty reports whether no value is set.
func (s Secret) Empty() bool { return s.value == "" }

func (s Secret) String() string { return RedactedPlaceholder }

// GoString keeps %#v renderings redacted as well.
func (s Secret) GoString() string { return "config.Secret{" + RedactedPlaceholder + "}" }

// LogValue redacts the secret in slog output.
func (s Secret) LogValue() slog.Value { return slog.StringValue(RedactedPlaceholder) }

// MarshalYAML exports the placeholder, never the raw value.
func (s Secret) MarshalYAML() (any, error) { return RedactedPlaceholder, nil }

// UnmarshalYAML reads a plain string into the secret.
func (s *Secret) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	s.value = raw
	return nil
}

// MarshalJSON exports the placeholder, never the raw value.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(RedactedPlaceholder)), nil
}

// UnmarshalJSON reads a plain string into the secret.
func (s *Secret) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	s.value = raw
	return nil
}
