package registration

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/idadental/registration/handler"
	regform "github.com/idadental/registration/pkg/registration"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// PageParams contains data for the page layout.
type PageParams struct {
	Title             string
	DataStarScriptURL string
	RefreshSeconds    int
	SignedIn          bool
	Toasts            []ToastParams
	Content           templ.Component
}

// LoginParams contains data for the sign-in choices.
type LoginParams struct {
	ReturnTo string
}

// FieldParams describes one rendered input.
type FieldParams struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Value       string
	Error       string
	Required    bool
}

// FormParams contains data for rendering the registration form.
type FormParams struct {
	Fields    []FieldParams
	Clinic    *FieldParams
	HasClinic bool
	Control   regform.Control
	State     string
}

// ToastParams contains data for one toast.
type ToastParams struct {
	ID          string
	Variant     string // "success" or "destructive"
	Title       string
	Description string
}

// Views renders the module's pages and fragments.
type Views struct {
	Page       func(PageParams) templ.Component
	Loading    func() templ.Component
	Login      func(LoginParams) templ.Component
	Form       func(FormParams) templ.Component
	Toast      func(ToastParams) templ.Component
	ErrorPage  func(handler.ErrorPageParams) templ.Component
	ErrorToast func(handler.ErrorToastParams) templ.Component
}

// DefaultViews renders the embedded html/template templates.
func DefaultViews() Views {
	return Views{
		Page: func(p PageParams) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				if err := templates.ExecuteTemplate(w, "page_open", p); err != nil {
					return err
				}
				if p.Content != nil {
					if err := p.Content.Render(ctx, w); err != nil {
						return err
					}
				}
				return templates.ExecuteTemplate(w, "page_close", p)
			})
		},
		Loading: func() templ.Component {
			return templ.FromGoHTML(templates.Lookup("loading"), nil)
		},
		Login: func(p LoginParams) templ.Component {
			return templ.FromGoHTML(templates.Lookup("login"), p)
		},
		Form: func(p FormParams) templ.Component {
			return templ.FromGoHTML(templates.Lookup("form"), p)
		},
		Toast: func(p ToastParams) templ.Component {
			return templ.FromGoHTML(templates.Lookup("toast"), p)
		},
		ErrorPage: func(p handler.ErrorPageParams) templ.Component {
			return templ.FromGoHTML(templates.Lookup("error_page"), p)
		},
		ErrorToast: func(p handler.ErrorToastParams) templ.Component {
			return templ.FromGoHTML(templates.Lookup("toast"), ToastParams{
				Variant:     "destructive",
				Title:       "Something went wrong",
				Description: p.Message,
			})
		},
	}
}
