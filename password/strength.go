// Package password checks candidate passwords against a strength policy.
package password

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"catalog-cart/apperr"
	"catalog-cart/config"
)

// Specials is the set of characters that satisfy the special-character rule.
const Specials = "!@#$%&*()-_+={}[]|:;<>,.?/"

type Violation string

const (
	TooShort       Violation = "too_short"
	MissingDigit   Violation = "missing_digit"
	MissingSpecial Violation = "missing_special"
	MissingUpper   Violation = "missing_upper"
	MissingLower   Violation = "missing_lower"
)

var messages = map[Violation]string{
	MissingDigit:   "must contain at least one number",
	MissingSpecial: "must contain at least one special character",
	MissingUpper:   "must contain at least one uppercase letter",
	MissingLower:   "must contain at least one lowercase letter",
}

// Policy selects which rules Check enforces.
type Policy struct {
	MinLength      int
	RequireDigit   bool
	RequireSpecial bool
	RequireUpper   bool
	RequireLower   bool
}

// DefaultPolicy: eight characters with a number, a special character and an
// uppercase letter.
func DefaultPolicy() Policy {
	return Policy{MinLength: 8, RequireDigit: true, RequireSpecial: true, RequireUpper: true}
}

func PolicyFromConfig(cfg config.PasswordConfig) Policy {
	return Policy{
		MinLength:      cfg.MinLength,
		RequireDigit:   cfg.RequireDigit,
		RequireSpecial: cfg.RequireSpecial,
		RequireUpper:   cfg.RequireUpper,
		RequireLower:   cfg.RequireLower,
	}
}

// Check returns every rule pw breaks, in policy order.
func (p Policy) Check(pw string) []Violation {
	var out []Violation
	if utf8.RuneCountInString(pw) < p.MinLength {
		out = append(out, TooShort)
	}
	var digit, special, upper, lower bool
	for _, r := range pw {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(Specials, r):
			special = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case unicode.IsLower(r):
			lower = true
		}
	}
	if p.RequireDigit && !digit {
		out = append(out, MissingDigit)
	}
	if p.RequireSpecial && !special {
		out = append(out, MissingSpecial)
	}
	if p.RequireUpper && !upper {
		out = append(out, MissingUpper)
	}
	if p.RequireLower && !lower {
		out = append(out, MissingLower)
	}
	return out
}

func (p Policy) Valid(pw string) bool { return len(p.Check(pw)) == 0 }

// Validate wraps the violations into a validation error, or returns nil.
func (p Policy) Validate(pw string) error {
	violations := p.Check(pw)
	if len(violations) == 0 {
		return nil
	}
	return apperr.New(apperr.ReasonWeakPassword, "password does not meet the requirements").
		WithDetails(p.Describe(violations)...)
}

// Describe renders violations as messages.
func (p Policy) Describe(violations []Violation) []string {
	msgs := make([]string, 0, len(violations))
	for _, v := range violations {
		if v == TooShort {
			msgs = append(msgs, fmt.Sprintf("must be at least %d characters long", p.MinLength))
			continue
		}
		msgs = append(msgs, messages[v])
	}
	return msgs
}

// Rules lists the active requirements for display.
func (p Policy) Rules() []string {
	rules := []string{"at least " + strconv.Itoa(p.MinLength) + " characters"}
	if p.RequireDigit {
		rules = append(rules, "at least 1 number")
	}
	if p.RequireSpecial {
		rules = append(rules, "at least 1 special character ("+Specials[:8]+"...)")
	}
	if p.RequireUpper {
		rules = append(rules, "at least 1 uppercase letter")
	}
	if p.RequireLower {
		rules = append(rules, "at least 1 lowercase letter")
	}
	return rules
}
