package validator

import (
	"regexp"
	"strings"
)

// emailPattern is the address shape browsers and the client form agree on.
// RE2 has no lookahead, so the leading-dot and double-dot rules live in isEmail.
var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9_'+\-.]*[A-Z0-9_+-]@([A-Z0-9][A-Z0-9-]*\.)+[A-Z]{2,}$`)

// ValidEmail accepts a bare address whose domain ends in an alphabetic label
// of at least two letters.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return isEmail(value)
		},
		Error: ValidationError{
			Field:             field,
			Message:           "must be a valid email address",
			TranslationKey:    "validation.email",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

func isEmail(value string) bool {
	if strings.HasPrefix(value, ".") || strings.Contains(value, "..") {
		return false
	}
	return emailPattern.MatchString(value)
}
