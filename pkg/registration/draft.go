package registration

import "github.com/idadental/registration/pkg/identity"

// Field names a draft attribute. Values match the form's input names.
type Field string

const (
	FieldFirstName  Field = "firstName"
	FieldLastName   Field = "lastName"
	FieldEmail      Field = "email"
	FieldPhone      Field = "phone"
	FieldCity       Field = "city"
	FieldHasClinic  Field = "hasClinic"
	FieldClinicName Field = "clinicName"
)

// allFields is the render order.
var allFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldCity,
	FieldHasClinic,
	FieldClinicName,
}

// ParseField maps an input name to a Field.
func ParseField(name string) (Field, error) {
	f := Field(name)
	for _, known := range allFields {
		if f == known {
			return f, nil
		}
	}
	return "", ErrUnknownField
}

func (f Field) String() string {
	return string(f)
}

// Draft is the user-entered form state.
type Draft struct {
	FirstName  string `form:"firstName" json:"firstName"`
	LastName   string `form:"lastName" json:"lastName"`
	Email      string `form:"email" json:"email,omitempty"`
	Phone      string `form:"phone" json:"phone"`
	City       string `form:"city" json:"city"`
	HasClinic  bool   `form:"hasClinic" json:"hasClinic"`
	ClinicName string `form:"clinicName" json:"clinicName,omitempty"`
}

// SeedDraft builds the initial draft for p. Email is seeded only for
// password/social sign-ins.
func SeedDraft(p identity.Profile) Draft {
	d := Draft{
		FirstName: p.GivenName,
		LastName:  p.FamilyName,
		Phone:     p.PhoneNumber,
	}
	if p.AuthMethod == identity.MethodPasswordOrSocial {
		d.Email = p.Email
	}
	return d
}

// Text returns the value of a text field.
func (d Draft) Text(f Field) (string, error) {
	switch f {
	case FieldFirstName:
		return d.FirstName, nil
	case FieldLastName:
		return d.LastName, nil
	case FieldEmail:
		return d.Email, nil
	case FieldPhone:
		return d.Phone, nil
	case FieldCity:
		return d.City, nil
	case FieldClinicName:
		return d.ClinicName, nil
	case FieldHasClinic:
		return "", ErrNotTextField
	default:
		return "", ErrUnknownField
	}
}

func (d *Draft) setText(f Field, v string) {
	switch f {
	case FieldFirstName:
		d.FirstName = v
	case FieldLastName:
		d.LastName = v
	case FieldEmail:
		d.Email = v
	case FieldPhone:
		d.Phone = v
	case FieldCity:
		d.City = v
	case FieldClinicName:
		d.ClinicName = v
	}
}
