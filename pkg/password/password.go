// Package password implements the pluggable password strength policy used
// by registration, reset and change flows.
package password

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrTooShort   = errors.New("password must be at least 8 characters long")
	ErrAllNumeric = errors.New("password cannot be entirely numeric")
	ErrTooCommon  = errors.New("password is too common")
	ErrTooSimilar = errors.New("password is too similar to your personal information")
)

// Policy validates password strength. The attributes are user-supplied
// values (username, email) the password must not resemble.
type Policy interface {
	Validate(password string, attributes ...string) error
}

// DefaultPolicy mirrors a conventional validator stack: minimum length,
// numeric-only rejection, a common-password denylist and a similarity
// check against account attributes.
type DefaultPolicy struct {
	MinLength int
}

func NewDefaultPolicy(minLength int) *DefaultPolicy {
	return &DefaultPolicy{MinLength: minLength}
}

var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"qwerty123":   {},
	"letmein123":  {},
	"iloveyou1":   {},
	"admin1234":   {},
	"welcome1":    {},
}

func (p *DefaultPolicy) Validate(password string, attributes ...string) error {
	if len(password) < p.MinLength {
		return ErrTooShort
	}

	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return ErrAllNumeric
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return ErrTooCommon
	}

	lowered := strings.ToLower(password)
	for _, attr := range attributes {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if attr == "" {
			continue
		}
		// Compare against the local part of emails as well.
		if at := strings.IndexByte(attr, '@'); at > 0 {
			attr = attr[:at]
		}
		if len(attr) >= 4 && strings.Contains(lowered, attr) {
			return ErrTooSimilar
		}
	}

	return nil
}
