package cloak

import (
	"strings"
	"unicode/utf8"
)

// Masker hides a sensitive value while keeping it recognisable in
// diagnostics. Maskers never affect what is sent on the wire.
type Masker interface {
	// Mask applies masking to the value.
	Mask(value string) string
}

// keepMasker keeps a fixed number of leading and trailing characters.
type keepMasker struct {
	head, tail int
}

// IDCardMasker masks identity numbers: 110101199001011234 -> 110101********1234
// Preserves the 6-digit region code and the last 4 characters.
func IDCardMasker() Masker {
	return &keepMasker{head: 6, tail: 4}
}

// MobileMasker masks mobile numbers: 13800001234 -> 138****1234
func MobileMasker() Masker {
	return &keepMasker{head: 3, tail: 4}
}

// NumericMasker masks numeric identifiers: 1234567 -> *****67
// Values of two characters or fewer are masked entirely.
func NumericMasker() Masker {
	return &keepMasker{tail: 2}
}

// FullMasker masks every character.
func FullMasker() Masker {
	return &keepMasker{}
}

func (m *keepMasker) Mask(value string) string {
	n := utf8.RuneCountInString(value)
	if n <= m.head+m.tail {
		return strings.Repeat("*", n)
	}

	runes := []rune(value)
	return string(runes[:m.head]) + strings.Repeat("*", n-m.head-m.tail) + string(runes[n-m.tail:])
}
