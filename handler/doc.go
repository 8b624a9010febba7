// Package handler provides typed HTTP handlers with DataStar-aware responses.
//
// A HandlerFunc receives a Context and a request struct filled by binders and
// returns a Response. Wrap turns it into an http.HandlerFunc:
//
//	type fieldRequest struct {
//		Field string `form:"field"`
//		Value string `form:"value"`
//	}
//
//	r.Post("/register/field", handler.Wrap(s.setField,
//		handler.WithBinders[handler.Context, fieldRequest](binder.Form()),
//		handler.WithErrorHandler[handler.Context, fieldRequest](errorHandler),
//	))
//
// # Responses
//
// Templ, TemplMulti and Redirect render differently depending on the request.
// DataStar actions (detected by IsDataStar) receive Server-Sent Events that
// patch elements or run a client-side redirect. Regular requests receive full
// HTML or an HTTP redirect, so pages keep working without JavaScript.
//
// # Errors
//
// Binding failures are reported as ErrBadRequest. NewErrorHandler classifies
// errors (HTTPError codes, validator.ValidationErrors as 422), logs them with
// the chi request id and renders either an error page or a toast patch.
package handler
