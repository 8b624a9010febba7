package registration

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/idadental/registration/pkg/notifications"
	regform "github.com/idadental/registration/pkg/registration"
)

//go:embed fields.yaml
var fieldsYAML []byte

type fieldPresentation struct {
	Label       string `yaml:"label"`
	Type        string `yaml:"type"`
	Placeholder string `yaml:"placeholder"`
}

var presentations = mustParsePresentations(fieldsYAML)

// parsePresentations reads input labels keyed by field name. Unknown field
// names are rejected so a typo cannot silently drop an input.
func parsePresentations(raw []byte) (map[regform.Field]fieldPresentation, error) {
	var byName map[string]fieldPresentation
	if err := yaml.Unmarshal(raw, &byName); err != nil {
		return nil, fmt.Errorf("parse field presentations: %w", err)
	}
	out := make(map[regform.Field]fieldPresentation, len(byName))
	for name, pres := range byName {
		field, err := regform.ParseField(name)
		if err != nil {
			return nil, fmt.Errorf("field presentation %q: %w", name, err)
		}
		if pres.Type == "" {
			pres.Type = "text"
		}
		out[field] = pres
	}
	return out, nil
}

func mustParsePresentations(raw []byte) map[regform.Field]fieldPresentation {
	p, err := parsePresentations(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// textFields lists the inputs a posted form may carry, in render order.
var textFields = []regform.Field{
	regform.FieldFirstName,
	regform.FieldLastName,
	regform.FieldEmail,
	regform.FieldPhone,
	regform.FieldCity,
	regform.FieldClinicName,
}

// formParams snapshots f for rendering. The field set is derived from the
// same draft copy as the values so they always agree.
func formParams(f *regform.Form) FormParams {
	d := f.Draft()
	errs := f.Errors()
	schema := f.Schema()
	state := f.State()

	p := FormParams{
		HasClinic: d.HasClinic,
		Control:   regform.ControlFor(state),
		State:     state.String(),
	}
	for _, field := range schema.Fields(d) {
		pres, ok := presentations[field]
		if !ok {
			continue
		}
		value, _ := d.Text(field)
		fp := FieldParams{
			Name:        field.String(),
			Label:       pres.Label,
			Type:        pres.Type,
			Placeholder: pres.Placeholder,
			Value:       value,
			Error:       errs[field],
			Required:    schema.Required(field),
		}
		if field == regform.FieldClinicName {
			p.Clinic = &fp
			continue
		}
		p.Fields = append(p.Fields, fp)
	}
	return p
}

func toastParams(n notifications.Notification) ToastParams {
	variant := "success"
	if n.Type == notifications.TypeError {
		variant = "destructive"
	}
	return ToastParams{
		ID:          n.ID,
		Variant:     variant,
		Title:       n.Title,
		Description: n.Message,
	}
}
