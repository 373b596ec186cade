package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownAge    = errors.New("unknown age bracket")
	ErrUnknownGender = errors.New("unknown gender")
	ErrInvalidDate   = errors.New("invalid date")
)

// All is the selector value meaning "no constraint" in filters.
const All = "All"

// Gender is the classifier's gender label.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// Genders lists every gender in classifier output order.
var Genders = []Gender{Male, Female}

// AgeBracket is one range of the age classifier's output space.
type AgeBracket string

// AgeBrackets lists every bracket in ascending order. Brackets are mutually
// exclusive and cover the whole classifier output.
var AgeBrackets = []AgeBracket{
	"11-15", "16-20", "21-25", "26-30", "31-35", "36-40", "41-45", "46-50", "51-55",
}

// ParseGender matches s against the known genders, ignoring case and surrounding space.
func ParseGender(s string) (Gender, error) {
	s = strings.TrimSpace(s)
	for _, g := range Genders {
		if strings.EqualFold(s, string(g)) {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGender, s)
}

// ParseAgeBracket matches s against the known brackets. The parenthesised
// form written by older station builds, e.g. "(41-45)", is accepted too.
func ParseAgeBracket(s string) (AgeBracket, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	s = strings.ReplaceAll(s, " ", "")
	for _, a := range AgeBrackets {
		if s == string(a) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAge, s)
}

// Index returns the position of g in Genders, or -1.
func (g Gender) Index() int {
	for i, v := range Genders {
		if v == g {
			return i
		}
	}
	return -1
}

// Valid reports whether g is one of Genders.
func (g Gender) Valid() bool { return g.Index() >= 0 }

// Index returns the position of a in AgeBrackets, or -1.
func (a AgeBracket) Index() int {
	for i, v := range AgeBrackets {
		if v == a {
			return i
		}
	}
	return -1
}

// Valid reports whether a is one of AgeBrackets.
func (a AgeBracket) Valid() bool { return a.Index() >= 0 }

// IsAll reports whether a selector value means "no constraint".
func IsAll(selector string) bool {
	return selector == "" || strings.EqualFold(selector, All)
}

// ValidateSelectors rejects age, gender and date selectors outside their
// domains. Empty or "All" selectors are always valid.
func ValidateSelectors(age, gender, date string) error {
	if !IsAll(age) {
		if _, err := ParseAgeBracket(age); err != nil {
			return err
		}
	}
	if !IsAll(gender) {
		if _, err := ParseGender(gender); err != nil {
			return err
		}
	}
	if !IsAll(date) {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return fmt.Errorf("%w: %q, want YYYY-MM-DD", ErrInvalidDate, date)
		}
	}
	return nil
}
