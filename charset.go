package img2ascii

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidRange is returned for a character range spec that cannot be
// parsed.
var ErrInvalidRange = errors.New("img2ascii: invalid character range")

// CharSet is a set of distinct characters. Runes returns them in code
// point order, which is the order ties are broken in.
type CharSet struct {
	chars map[rune]struct{}
}

// NewCharSet returns a set holding chars.
func NewCharSet(chars ...rune) *CharSet {
	s := &CharSet{chars: make(map[rune]struct{}, len(chars))}
	for _, c := range chars {
		s.chars[c] = struct{}{}
	}
	return s
}

// ParseRange parses a character range spec into its inclusive bounds:
//
//	"x"      the single character x
//	"all"    every printable ASCII character, ' ' through '~'
//	"space"  the space character
//	"a-z"    a through z; reversed bounds such as "z-a" are swapped
func ParseRange(spec string) (lo, hi rune, err error) {
	switch spec {
	case "all":
		return ' ', '~', nil
	case "space":
		return ' ', ' ', nil
	}

	r := []rune(spec)
	switch {
	case len(r) == 1:
		return r[0], r[0], nil
	case len(r) == 3 && r[1] == '-':
		lo, hi = r[0], r[2]
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi, nil
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRange, spec)
}

// Add adds every character of the range spec, see ParseRange.
func (s *CharSet) Add(spec string) error {
	lo, hi, err := ParseRange(spec)
	if err != nil {
		return err
	}
	for c := lo; c <= hi; c++ {
		s.chars[c] = struct{}{}
	}
	return nil
}

// Remove removes every character of the range spec, see ParseRange.
func (s *CharSet) Remove(spec string) error {
	lo, hi, err := ParseRange(spec)
	if err != nil {
		return err
	}
	for c := lo; c <= hi; c++ {
		delete(s.chars, c)
	}
	return nil
}

// Contains reports whether c is in the set.
func (s *CharSet) Contains(c rune) bool {
	_, ok := s.chars[c]
	return ok
}

// Len returns the number of characters in the set.
func (s *CharSet) Len() int {
	return len(s.chars)
}

// Runes returns the characters sorted by code point.
func (s *CharSet) Runes() []rune {
	out := make([]rune, 0, len(s.chars))
	for c := range s.chars {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
