package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Required fails for empty or whitespace-only strings.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "is required"},
	}
}

// MinLen fails when the value is shorter than min runes.
func MinLen(field, value string, min int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) >= min },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", min)},
	}
}

// MaxLen fails when the value is longer than max runes.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)},
	}
}

// ValidEmail fails for addresses net/mail cannot parse. Empty values pass;
// combine with Required when the field is mandatory.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			addr, err := mail.ParseAddress(value)
			return err == nil && addr.Address == value
		},
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}

// phonePattern accepts international phone numbers with optional separators.
var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-./]{5,24}$`)

// ValidPhone fails for values that do not look like a phone number.
// Empty values pass.
func ValidPhone(field, value string) Rule {
	return Rule{
		Check: func() bool { return value == "" || phonePattern.MatchString(value) },
		Error: ValidationError{Field: field, Message: "must be a valid phone number"},
	}
}

// OneOf fails when value is not among the allowed options.
func OneOf[T comparable](field string, value T, options []T) Rule {
	return Rule{
		Check: func() bool {
			for _, opt := range options {
				if value == opt {
					return true
				}
			}
			return false
		},
		Error: ValidationError{Field: field, Message: "is not an allowed value"},
	}
}

// ValidDate fails when the value is not a date in the given layout.
// Empty values pass.
func ValidDate(field, value, layout string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			_, err := time.Parse(layout, value)
			return err == nil
		},
		Error: ValidationError{Field: field, Message: "must be a valid date"},
	}
}

// MinAge fails when the birthdate implies an age below minAge. Unparseable
// or empty values pass so date format errors surface once via ValidDate.
func MinAge(field, value, layout string, minAge int) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			birthdate, err := time.Parse(layout, value)
			if err != nil {
				return true
			}
			return !birthdate.AddDate(minAge, 0, 0).After(time.Now())
		},
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d years in the past", minAge)},
	}
}

// Accepted fails unless the boolean consent is true.
func Accepted(field string, value bool) Rule {
	return Rule{
		Check: func() bool { return value },
		Error: ValidationError{Field: field, Message: "must be accepted"},
	}
}
