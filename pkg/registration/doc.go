// Package registration implements the adaptive professional-registration form.
//
// A Form is built once from an identity.Profile. The profile's auth method
// selects one of two immutable schemas: password/social sign-ins must supply an
// email address, phone sign-ins never see the email field at all. The draft is
// seeded from the profile and reset to that seed after a successful submission.
//
// Submissions run through a small state machine:
//
//	Idle -> Submitting -> Succeeded -> Idle
//	                   -> Failed    -> Idle
//
// Only one submission can be in flight per form. A second Submit while one is
// running returns ErrSubmitInProgress and the collaborator is not called.
//
// Basic usage:
//
//	form, err := registration.New(profile, registration.Submitter(repo, profile),
//		registration.WithNotifier(notifier),
//		registration.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//	_ = form.Set(registration.FieldCity, "Pune")
//	if err := form.Submit(ctx); err != nil {
//		// validator.ValidationErrors, ErrSubmitInProgress or ErrSubmitFailed
//	}
//
// The persistence adapter (Repository, Submitter) and its migrations live in
// this package too but are optional: any SubmitFunc works.
package registration
