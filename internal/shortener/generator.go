package shortener

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

const (
	// Alphabet is the set of characters short codes are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// DefaultCodeLength is the code length used when none is configured.
	DefaultCodeLength = 6
	// MinCodeLength is the shortest length the nanoid generator can fill.
	MinCodeLength = 5
	// MaxCodeLength matches the width of the short_code columns.
	MaxCodeLength = 16
)

// CodeGenerator generates candidate short codes. Uniqueness is the caller's concern.
type CodeGenerator func() string

// NewCodeGenerator returns a generator of length-character codes drawn
// uniformly from Alphabet using a cryptographically secure source.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	if length < MinCodeLength || length > MaxCodeLength {
		return nil, fmt.Errorf("code length must be between %d and %d, got %d", MinCodeLength, MaxCodeLength, length)
	}

	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("code generator of length %d: %w", length, err)
	}

	return CodeGenerator(gen), nil
}
