package registration

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/idadental/registration/pkg/identity"
	"github.com/idadental/registration/pkg/logger"
	"github.com/idadental/registration/pkg/statemachine"
	"github.com/idadental/registration/pkg/validator"
)

// SubmitFunc persists a validated draft. It receives a copy of the draft and
// a context that is not cancelled when the caller's context is.
type SubmitFunc func(ctx context.Context, d Draft) error

// FieldErrors maps a field to its current message. Fields without errors are absent.
type FieldErrors map[Field]string

// Form owns one registration draft and its submission lifecycle.
// It is safe for concurrent use.
type Form struct {
	mu      sync.Mutex
	profile identity.Profile
	schema  Schema
	submit  SubmitFunc
	initial Draft
	draft   Draft
	errors  FieldErrors
	sm      *statemachine.Machine

	notifier  Notifier
	logger    *slog.Logger
	observers []func(from, to State)
	success   Notification
	failure   Notification
}

// New builds a form for profile. The schema variant is fixed for the form's lifetime.
func New(profile identity.Profile, submit SubmitFunc, opts ...Option) (*Form, error) {
	schema, ok := SchemaFor(profile.AuthMethod)
	if !ok {
		return nil, ErrInvalidProfile
	}
	if submit == nil {
		return nil, ErrNilSubmitFunc
	}

	seed := SeedDraft(profile)
	f := &Form{
		profile:  profile,
		schema:   schema,
		submit:   submit,
		initial:  seed,
		draft:    seed,
		errors:   make(FieldErrors),
		notifier: noopNotifier{},
		logger:   slog.Default(),
		success:  defaultSuccessNotification,
		failure:  defaultFailureNotification,
	}
	for _, opt := range opts {
		opt(f)
	}

	sm, err := statemachine.New(StateIdle,
		statemachine.WithTransition(StateIdle, StateSubmitting, eventSubmit,
			statemachine.WithGuard(f.draftIsValid)),
		statemachine.WithTransition(StateSubmitting, StateSucceeded, eventResolve),
		statemachine.WithTransition(StateSubmitting, StateFailed, eventReject),
		statemachine.WithTransition(StateSucceeded, StateIdle, eventSettle),
		statemachine.WithTransition(StateFailed, StateIdle, eventSettle),
		statemachine.WithObserver(f.notifyObservers),
	)
	if err != nil {
		return nil, fmt.Errorf("build submission state machine: %w", err)
	}
	f.sm = sm

	return f, nil
}

func (f *Form) draftIsValid(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
	d, ok := data.(Draft)
	return ok && f.schema.Validate(d).IsEmpty()
}

func (f *Form) notifyObservers(_ context.Context, from, to statemachine.State, _ statemachine.Event) {
	for _, fn := range f.observers {
		fn(from.(State), to.(State))
	}
}

// Set updates a text field. A field that already shows an error is re-validated.
// The draft is frozen while a submission runs: Set then returns ErrSubmitInProgress.
func (f *Form) Set(field Field, value string) error {
	if _, err := ParseField(string(field)); err != nil {
		return err
	}
	if field == FieldHasClinic {
		return ErrNotTextField
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state() != StateIdle {
		return ErrSubmitInProgress
	}
	if !f.schema.Includes(field, f.draft) {
		return fmt.Errorf("%w: %s", ErrFieldNotInSchema, field)
	}
	f.draft.setText(field, value)
	if _, shown := f.errors[field]; shown {
		f.revalidate(field)
	}
	return nil
}

// SetHasClinic toggles the clinic checkbox. Hiding the clinic name keeps its value.
func (f *Form) SetHasClinic(v bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state() != StateIdle {
		return ErrSubmitInProgress
	}
	f.draft.HasClinic = v
	if !v {
		delete(f.errors, FieldClinicName)
	}
	return nil
}

// ClearClinicName empties the clinic name regardless of visibility.
func (f *Form) ClearClinicName() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state() != StateIdle {
		return ErrSubmitInProgress
	}
	f.draft.ClinicName = ""
	return nil
}

// Blur recomputes the error of one field and returns it ("" when valid).
func (f *Form) Blur(field Field) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revalidate(field)
}

func (f *Form) revalidate(field Field) string {
	msg := f.schema.ValidateField(f.draft, field)
	if msg == "" {
		delete(f.errors, field)
	} else {
		f.errors[field] = msg
	}
	return msg
}

// Validate checks the whole draft, replaces the shown errors and returns them.
func (f *Form) Validate() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.errors = toFieldErrors(f.schema.Validate(f.draft))
	return maps.Clone(f.errors)
}

func toFieldErrors(verrs validator.ValidationErrors) FieldErrors {
	fe := make(FieldErrors, len(verrs))
	for _, name := range verrs.Fields() {
		fe[Field(name)] = verrs.First(name)
	}
	return fe
}

// Submit validates the draft and hands it to the submit collaborator.
//
// It returns ErrSubmitInProgress when a submission is already running,
// validator.ValidationErrors when the draft is invalid (the collaborator is not
// called), or an error wrapping ErrSubmitFailed when the collaborator fails.
// On success the draft returns to its seeded values.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state() != StateIdle {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}

	d := f.draft
	if verrs := f.schema.Validate(d); !verrs.IsEmpty() {
		f.errors = toFieldErrors(verrs)
		f.mu.Unlock()
		return verrs
	}
	if err := f.sm.Fire(ctx, eventSubmit, d); err != nil {
		f.mu.Unlock()
		if statemachine.IsNoTransitionAvailableError(err) {
			return ErrSubmitInProgress
		}
		return fmt.Errorf("start submission: %w", err)
	}
	f.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	start := time.Now()
	submitErr := f.callSubmit(detached, d)
	elapsed := time.Since(start)

	f.mu.Lock()
	n := f.success
	if submitErr == nil {
		f.fire(detached, eventResolve)
		f.draft = f.initial
		f.errors = make(FieldErrors)
	} else {
		n = f.failure
		f.fire(detached, eventReject)
	}
	f.fire(detached, eventSettle)
	f.mu.Unlock()

	attrs := []any{
		logger.Component("registration"),
		logger.SubjectID(f.profile.SubjectID),
		logger.AuthMethod(f.profile.AuthMethod.String()),
		logger.Duration(elapsed),
	}
	if submitErr != nil {
		f.logger.ErrorContext(ctx, "registration submission failed", append(attrs, logger.Error(submitErr))...)
	} else {
		f.logger.InfoContext(ctx, "registration submitted", attrs...)
	}

	if err := f.notifier.Notify(detached, n); err != nil {
		f.logger.WarnContext(ctx, "failed to deliver registration notification",
			logger.Component("registration"),
			logger.Error(err),
		)
	}

	if submitErr != nil {
		return fmt.Errorf("%w: %w", ErrSubmitFailed, submitErr)
	}
	return nil
}

func (f *Form) callSubmit(ctx context.Context, d Draft) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submit panicked: %v", r)
		}
	}()
	return f.submit(ctx, d)
}

// fire advances the lifecycle. Failures here mean a broken machine, so the
// form falls back to Idle rather than staying stuck in Submitting.
func (f *Form) fire(ctx context.Context, event statemachine.Event) {
	if err := f.sm.Fire(ctx, event, nil); err != nil {
		f.logger.ErrorContext(ctx, "registration state transition failed",
			logger.Component("registration"),
			logger.Event(event.Name()),
			logger.Error(err),
		)
		_ = f.sm.Reset()
	}
}

func (f *Form) state() State {
	s, _ := f.sm.Current().(State)
	return s
}

// State returns the current submission state.
func (f *Form) State() State {
	return f.state()
}

// Control returns the submit button presentation for the current state.
func (f *Form) Control() Control {
	return ControlFor(f.state())
}

// Draft returns a copy of the current draft.
func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Initial returns the seeded draft the form resets to.
func (f *Form) Initial() Draft {
	return f.initial
}

// Errors returns a copy of the field errors currently shown.
func (f *Form) Errors() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.errors)
}

// VisibleFields returns the fields to render for the current draft.
func (f *Form) VisibleFields() []Field {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schema.Fields(f.draft)
}

func (f *Form) Schema() Schema {
	return f.schema
}

func (f *Form) Profile() identity.Profile {
	return f.profile
}
