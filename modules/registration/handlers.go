package registration

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/idadental/registration/handler"
	"github.com/idadental/registration/pkg/identity"
	"github.com/idadental/registration/pkg/logger"
	regform "github.com/idadental/registration/pkg/registration"
	"github.com/idadental/registration/pkg/validator"
)

const pageTitle = "IDA Member Registration"

type loginRequest struct {
	Connection string `query:"connection"`
	ReturnTo   string `query:"return_to"`
}

type callbackRequest struct {
	Code             string `query:"code"`
	State            string `query:"state"`
	Error            string `query:"error"`
	ErrorDescription string `query:"error_description"`
}

// draftRequest carries the posted form inputs.
type draftRequest struct {
	regform.Draft
}

// fieldRequest names the input that lost focus; the form body carries its value.
type fieldRequest struct {
	Field string `query:"field"`
	regform.Draft
}

func (s *Service) page(p PageParams) handler.Response {
	p.Title = pageTitle
	p.DataStarScriptURL = s.cfg.DataStarScriptURL
	return handler.Templ(s.views.Page(p))
}

func (s *Service) index(ctx handler.Context, _ struct{}) handler.Response {
	token := s.sessionToken(ctx.Request())
	if token == "" {
		return s.page(PageParams{Content: s.views.Login(LoginParams{ReturnTo: "/"})})
	}

	snap, err := s.login.Snapshot(ctx, token)
	if err != nil {
		return handler.Error(handler.ErrServiceUnavailable.Wrap(err))
	}

	sess := s.sessions.get(token)
	_, status := sess.adapter.Observe(snap)

	switch status {
	case identity.StatusPending:
		return s.page(PageParams{
			RefreshSeconds: max(int(s.cfg.PendingRefresh.Seconds()), 1),
			Content:        s.views.Loading(),
		})
	case identity.StatusUnauthenticated:
		return s.page(PageParams{Content: s.views.Login(LoginParams{ReturnTo: "/"})})
	}

	form := sess.currentForm()
	if form == nil {
		return handler.Error(handler.ErrInternalServerError.Wrap(errors.New("registration form not mounted")))
	}
	return s.page(PageParams{
		SignedIn: true,
		Toasts:   s.drainToasts(ctx, token),
		Content:  s.views.Form(formParams(form)),
	})
}

func (s *Service) startLogin(ctx handler.Context, req loginRequest) handler.Response {
	conn, err := identity.ParseConnection(req.Connection)
	if err != nil {
		return handler.Error(handler.ErrBadRequest.Wrap(err))
	}

	token := s.ensureSession(ctx.ResponseWriter(), ctx.Request())
	authURL, err := s.login.Begin(ctx, token, conn, req.ReturnTo)
	if err != nil {
		return handler.Error(handler.ErrServiceUnavailable.Wrap(err))
	}
	if s.metrics != nil {
		s.metrics.Logins.WithLabelValues(conn.String()).Inc()
	}
	return handler.RedirectWithCode(authURL, http.StatusFound)
}

func (s *Service) callback(ctx handler.Context, req callbackRequest) handler.Response {
	token := s.sessionToken(ctx.Request())
	if token == "" {
		return handler.Error(handler.ErrBadRequest.Wrap(identity.ErrInvalidState))
	}

	if req.Error != "" {
		s.logger.WarnContext(ctx, "identity provider refused login",
			logger.Component("registration_web"),
			slog.String("error", req.Error),
			slog.String("description", req.ErrorDescription),
		)
		if err := s.login.Cancel(ctx, token); err != nil {
			return handler.Error(handler.ErrServiceUnavailable.Wrap(err))
		}
		return handler.Redirect("/")
	}

	returnTo, err := s.login.Complete(ctx, token, req.Code, req.State)
	switch {
	case err == nil:
		return handler.Redirect(returnTo)
	case errors.Is(err, identity.ErrInvalidState):
		return handler.Error(handler.ErrBadRequest.Wrap(err))
	case errors.Is(err, identity.ErrInvalidCode), errors.Is(err, identity.ErrMissingSubject):
		return handler.Error(handler.ErrUnauthorized.Wrap(err))
	default:
		return handler.Error(handler.ErrServiceUnavailable.Wrap(err))
	}
}

func (s *Service) logout(ctx handler.Context, _ struct{}) handler.Response {
	token := s.sessionToken(ctx.Request())
	if token != "" {
		if err := s.login.Logout(ctx, token); err != nil {
			return handler.Error(handler.ErrServiceUnavailable.Wrap(err))
		}
		s.sessions.drop(token)
	}
	s.clearSession(ctx.ResponseWriter())
	return handler.Redirect("/")
}

func (s *Service) setField(ctx handler.Context, req fieldRequest) handler.Response {
	form, ok := s.mountedForm(ctx.Request())
	if !ok {
		return handler.Redirect("/")
	}

	field, err := regform.ParseField(req.Field)
	if err != nil {
		return handler.Error(handler.ErrBadRequest.Wrap(err))
	}
	value, err := req.Text(field)
	if err != nil {
		return handler.Error(handler.ErrBadRequest.Wrap(err))
	}

	// Hidden fields are ignored: the clinic name may blur while being hidden.
	// A running submission keeps its draft; the form is only re-rendered.
	switch err := form.Set(field, value); {
	case err == nil:
		form.Blur(field)
	case errors.Is(err, regform.ErrFieldNotInSchema), errors.Is(err, regform.ErrSubmitInProgress):
	default:
		return handler.Error(handler.ErrBadRequest.Wrap(err))
	}
	return s.renderForm(form)
}

func (s *Service) toggleClinic(ctx handler.Context, req draftRequest) handler.Response {
	form, ok := s.mountedForm(ctx.Request())
	if !ok {
		return handler.Redirect("/")
	}
	if err := s.apply(form, ctx.Request(), req.Draft); err != nil && !errors.Is(err, regform.ErrSubmitInProgress) {
		return handler.Error(handler.ErrInternalServerError.Wrap(err))
	}
	return s.renderForm(form)
}

func (s *Service) submit(ctx handler.Context, req draftRequest) handler.Response {
	form, ok := s.mountedForm(ctx.Request())
	if !ok {
		return handler.Redirect("/")
	}
	// A duplicate submit must not touch the draft of the one in flight.
	if form.State() != regform.StateIdle {
		return s.renderForm(form)
	}
	if err := s.apply(form, ctx.Request(), req.Draft); err != nil {
		if errors.Is(err, regform.ErrSubmitInProgress) {
			return s.renderForm(form)
		}
		return handler.Error(handler.ErrInternalServerError.Wrap(err))
	}

	err := form.Submit(ctx)
	switch {
	case validator.IsValidationError(err):
		if handler.IsDataStar(ctx.Request()) {
			return s.renderForm(form)
		}
		return handler.TemplWithStatus(http.StatusUnprocessableEntity, s.views.Page(PageParams{
			Title:             pageTitle,
			DataStarScriptURL: s.cfg.DataStarScriptURL,
			SignedIn:          true,
			Content:           s.views.Form(formParams(form)),
		}))
	case errors.Is(err, regform.ErrSubmitInProgress):
		return s.renderForm(form)
	}

	// Success and collaborator failures both leave a toast for this session.
	if !handler.IsDataStar(ctx.Request()) {
		return handler.Redirect("/")
	}
	token := s.sessionToken(ctx.Request())
	patches := []handler.TemplPatch{handler.Patch(s.views.Form(formParams(form)))}
	for _, t := range s.drainToasts(ctx, token) {
		patches = append(patches, handler.Patch(s.views.Toast(t),
			handler.WithTarget("#toasts"),
			handler.WithPatchMode(handler.PatchAppend),
		))
	}
	return handler.TemplMulti(patches...)
}

// apply copies posted inputs into form. Inputs absent from the body keep their
// value; hidden inputs are skipped. It stops at ErrSubmitInProgress, leaving
// the draft of the running submission alone.
func (s *Service) apply(form *regform.Form, r *http.Request, d regform.Draft) error {
	if err := form.SetHasClinic(d.HasClinic); err != nil {
		return err
	}
	for _, field := range textFields {
		if !r.PostForm.Has(field.String()) {
			continue
		}
		value, err := d.Text(field)
		if err != nil {
			return fmt.Errorf("read %s: %w", field, err)
		}
		if err := form.Set(field, value); err != nil && !errors.Is(err, regform.ErrFieldNotInSchema) {
			return fmt.Errorf("set %s: %w", field, err)
		}
	}
	return nil
}

func (s *Service) renderForm(form *regform.Form) handler.Response {
	return handler.Templ(s.views.Form(formParams(form)))
}

// mountedForm returns the form of the request's session, if one is mounted.
func (s *Service) mountedForm(r *http.Request) (*regform.Form, bool) {
	token := s.sessionToken(r)
	if token == "" {
		return nil, false
	}
	sess, ok := s.sessions.lookup(token)
	if !ok {
		return nil, false
	}
	form := sess.currentForm()
	return form, form != nil
}

func (s *Service) drainToasts(ctx handler.Context, token string) []ToastParams {
	pending, err := s.notifications.Drain(ctx, token)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load notifications",
			logger.Component("registration_web"),
			logger.Error(err),
		)
		return nil
	}
	toasts := make([]ToastParams, 0, len(pending))
	for _, n := range pending {
		toasts = append(toasts, toastParams(n))
	}
	return toasts
}
