package formatter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Normalizer converts strings from a source charset to valid UTF-8.
type Normalizer struct {
	name string
	enc  encoding.Encoding // nil for UTF-8
}

// NewNormalizer returns a Normalizer for the IANA charset name. An empty
// name means UTF-8.
func NewNormalizer(name string) (*Normalizer, error) {
	if isUTF8(name) {
		return &Normalizer{name: "UTF-8"}, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("formatter: unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("formatter: unsupported encoding %q", name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}
	return &Normalizer{name: canonical, enc: enc}, nil
}

func isUTF8(name string) bool {
	return name == "" || strings.EqualFold(name, "UTF-8") || strings.EqualFold(name, "UTF8")
}

// Name returns the canonical charset name
func (n *Normalizer) Name() string {
	return n.name
}

// String returns s as valid UTF-8. Bytes that cannot be decoded are
// replaced with U+FFFD.
func (n *Normalizer) String(s string) string {
	if n.enc == nil {
		if utf8.ValidString(s) {
			return s
		}
		return strings.ToValidUTF8(s, "\uFFFD")
	}
	out, err := n.enc.NewDecoder().String(s)
	if err != nil {
		return strings.ToValidUTF8(s, "\uFFFD")
	}
	return out
}
