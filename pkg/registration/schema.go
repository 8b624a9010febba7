package registration

import (
	"regexp"

	"github.com/idadental/registration/pkg/identity"
	"github.com/idadental/registration/pkg/validator"
)

// space is the whitespace set browsers use for \s; RE2's \s is ASCII only.
const space = `\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

// phonePattern accepts far more than plausible phone numbers (any run of
// digits, for one). It is kept as-is so existing accepted inputs stay valid.
var phonePattern = regexp.MustCompile(`^([+]?[` + space + `0-9]+)?(\d{3}|[(]?[0-9]+[)])?([-]?[` + space + `]?[0-9])+$`)

const (
	msgFirstName = "First name must be at least 2 characters"
	msgLastName  = "Last name must be at least 2 characters"
	msgEmail     = "Invalid email address"
	msgPhone     = "Invalid phone number"
	msgCity      = "City must be at least 2 characters"
)

const minNameLen = 2

// Schema is the field set and rule set for one auth method. Values are immutable.
type Schema struct {
	method    identity.AuthMethod
	withEmail bool
}

var (
	passwordOrSocialSchema = Schema{method: identity.MethodPasswordOrSocial, withEmail: true}
	phoneOTPSchema         = Schema{method: identity.MethodPhoneOTP}
)

// SchemaFor returns the schema variant for m. Unknown methods get ok=false.
func SchemaFor(m identity.AuthMethod) (Schema, bool) {
	switch m {
	case identity.MethodPasswordOrSocial:
		return passwordOrSocialSchema, true
	case identity.MethodPhoneOTP:
		return phoneOTPSchema, true
	default:
		return Schema{}, false
	}
}

func (s Schema) Method() identity.AuthMethod {
	return s.method
}

// Includes reports whether f is part of the schema. Only clinicName depends
// on the draft: it is present while HasClinic is set.
func (s Schema) Includes(f Field, d Draft) bool {
	switch f {
	case FieldEmail:
		return s.withEmail
	case FieldClinicName:
		return d.HasClinic
	case FieldFirstName, FieldLastName, FieldPhone, FieldCity, FieldHasClinic:
		return true
	default:
		return false
	}
}

// Required reports whether an empty value for f fails validation.
func (s Schema) Required(f Field) bool {
	switch f {
	case FieldFirstName, FieldLastName, FieldPhone, FieldCity:
		return true
	case FieldEmail:
		return s.withEmail
	default:
		return false
	}
}

// Fields returns the rendered field set in display order.
func (s Schema) Fields(d Draft) []Field {
	fields := make([]Field, 0, len(allFields))
	for _, f := range allFields {
		if s.Includes(f, d) {
			fields = append(fields, f)
		}
	}
	return fields
}

// Validate checks every field in the schema and reports at most one message per field.
func (s Schema) Validate(d Draft) validator.ValidationErrors {
	var errs validator.ValidationErrors
	for _, f := range s.Fields(d) {
		if verr, failed := validator.FirstFailure(s.rules(f, d)...); failed {
			errs.Add(verr)
		}
	}
	return errs
}

// ValidateField returns the message for f, or "" when f is valid or not in the schema.
func (s Schema) ValidateField(d Draft, f Field) string {
	if !s.Includes(f, d) {
		return ""
	}
	verr, failed := validator.FirstFailure(s.rules(f, d)...)
	if !failed {
		return ""
	}
	return verr.Message
}

func (s Schema) rules(f Field, d Draft) []validator.Rule {
	name := f.String()
	switch f {
	case FieldFirstName:
		return []validator.Rule{validator.MinLen(name, d.FirstName, minNameLen).WithMessage(msgFirstName)}
	case FieldLastName:
		return []validator.Rule{validator.MinLen(name, d.LastName, minNameLen).WithMessage(msgLastName)}
	case FieldCity:
		return []validator.Rule{validator.MinLen(name, d.City, minNameLen).WithMessage(msgCity)}
	case FieldEmail:
		if !s.withEmail {
			return nil
		}
		return []validator.Rule{validator.ValidEmail(name, d.Email).WithMessage(msgEmail)}
	case FieldPhone:
		return []validator.Rule{validator.MatchesPattern(name, d.Phone, phonePattern, "phone").WithMessage(msgPhone)}
	default:
		return nil
	}
}
