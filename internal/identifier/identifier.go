package identifier

import (
	"strings"
)

const (
	Separator = "/"

	// replacement for Separator characters inside a single part
	escapedSeparator = "_"
)

// Identifier is a hierarchical, stable name of a hardware item, sensor or control,
// e.g. "/atigpu/0/temperature/0". It is used as the root of all persisted settings keys.
type Identifier struct {
	parts []string
}

// New creates an identifier from the given parts.
// Separator characters inside a part are replaced, so String() and Parse() always round trip.
func New(parts ...string) Identifier {
	sanitized := make([]string, 0, len(parts))
	for _, part := range parts {
		if len(part) <= 0 {
			continue
		}
		sanitized = append(sanitized, strings.ReplaceAll(part, Separator, escapedSeparator))
	}
	return Identifier{parts: sanitized}
}

// Parse reverses String()
func Parse(text string) Identifier {
	return New(strings.Split(text, Separator)...)
}

// Child returns a new identifier with the given parts appended
func (i Identifier) Child(parts ...string) Identifier {
	combined := make([]string, 0, len(i.parts)+len(parts))
	combined = append(combined, i.parts...)
	combined = append(combined, parts...)
	return New(combined...)
}

func (i Identifier) Parts() []string {
	result := make([]string, len(i.parts))
	copy(result, i.parts)
	return result
}

func (i Identifier) IsEmpty() bool {
	return len(i.parts) <= 0
}

// HasPrefix returns true if other is an ancestor of (or equal to) i
func (i Identifier) HasPrefix(other Identifier) bool {
	if len(other.parts) > len(i.parts) {
		return false
	}
	for idx, part := range other.parts {
		if i.parts[idx] != part {
			return false
		}
	}
	return true
}

func (i Identifier) Equals(other Identifier) bool {
	return len(i.parts) == len(other.parts) && i.HasPrefix(other)
}

func (i Identifier) String() string {
	return Separator + strings.Join(i.parts, Separator)
}

func (i Identifier) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Identifier) UnmarshalText(text []byte) error {
	*i = Parse(string(text))
	return nil
}
