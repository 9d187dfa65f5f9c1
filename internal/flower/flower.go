// Package flower defines the size and species vocabulary shared by designs
// and the inventory, and parses single inventory tokens.
package flower

import (
	"errors"
	"fmt"
	"unicode"
)

var (
	// ErrUnknownSize is returned for size tags outside the supported set.
	ErrUnknownSize = errors.New("unknown flower size")
	// ErrMalformedStem is returned when an inventory token is not <species><size>.
	ErrMalformedStem = errors.New("flower must be a species letter followed by a size tag")
)

// Size partitions designs and stock into independent pools.
type Size byte

const (
	// Small is the "S" size tag.
	Small Size = 'S'
	// Large is the "L" size tag.
	Large Size = 'L'
)

// Sizes lists every supported size in rendering order.
func Sizes() []Size { return []Size{Small, Large} }

// ParseSize converts a size tag into a Size.
func ParseSize(r rune) (Size, error) {
	switch r {
	case rune(Small), rune(Large):
		return Size(r), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSize, r)
	}
}

func (s Size) String() string { return string(rune(s)) }

// Species is a single-letter flower type.
type Species byte

// IsSpecies reports whether r can name a species.
func IsSpecies(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsLetter(r)
}

func (s Species) String() string { return string(rune(s)) }

// Stem is one unit of inventory.
type Stem struct {
	Species Species
	Size    Size
}

// ParseStem decodes a two-character token such as "rL".
func ParseStem(token string) (Stem, error) {
	if len(token) != 2 || !IsSpecies(rune(token[0])) {
		return Stem{}, fmt.Errorf("%w: %q", ErrMalformedStem, token)
	}
	size, err := ParseSize(rune(token[1]))
	if err != nil {
		return Stem{}, fmt.Errorf("%w: %q: %w", ErrMalformedStem, token, err)
	}
	return Stem{Species: Species(token[0]), Size: size}, nil
}

func (s Stem) String() string { return s.Species.String() + s.Size.String() }
