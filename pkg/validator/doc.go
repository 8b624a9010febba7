// Package validator builds field validation out of small Rule values.
//
// A Rule couples a Check func with translation-friendly error metadata.
// Apply evaluates rules and aggregates failures into ValidationErrors, which
// implements error; FirstFailure stops at the first failing rule, which is the
// shape a form wants when it shows one message per field.
//
//	err := validator.Apply(
//	    validator.MinLen("firstName", draft.FirstName, 2),
//	    validator.ValidEmail("email", draft.Email).WithMessage("Invalid email address"),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    msg := verrs.First("email")
//	}
//
// Rules are stateless and safe for concurrent use.
package validator
