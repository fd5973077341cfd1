// Package category defines the closed set of vault document categories.
package category

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned by Parse for values outside the closed set.
var ErrUnknownCategory = errors.New("unknown category")

// Category classifies a vault document. The zero value is Other.
type Category int

const (
	Other Category = iota
	Passport
	Insurance
	Visa
	ID
	Medical
)

var names = map[Category]string{
	Other:     "other",
	Passport:  "passport",
	Insurance: "insurance",
	Visa:      "visa",
	ID:        "id",
	Medical:   "medical",
}

// All returns every category in display order, Other last.
func All() []Category {
	return []Category{Passport, Insurance, Visa, ID, Medical, Other}
}

func (c Category) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return names[Other]
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	_, ok := names[c]
	return ok
}

// Parse maps a stored or user-entered name to a Category. Matching is
// case-insensitive and ignores surrounding whitespace.
func Parse(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, n := range names {
		if n == s {
			return c, nil
		}
	}
	return Other, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// FromString is Parse with unknown values folded into Other. It is meant for
// reading rows written before a category existed.
func FromString(s string) Category {
	c, err := Parse(s)
	if err != nil {
		return Other
	}
	return c
}
