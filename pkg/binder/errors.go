package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrFailedToParseForm    = errors.New("failed to parse form data")
	ErrFailedToParseQuery   = errors.New("failed to parse query parameters")
	ErrInvalidTarget        = errors.New("binding target must be a non-nil pointer to struct")

	// ErrBinderNotApplicable tells a binder chain to move on to the next binder.
	ErrBinderNotApplicable = errors.New("binder not applicable to request")
)
