package binder

import "net/http"

// Query binds `query` tagged fields from the URL query string.
//
//	type loginRequest struct {
//		Connection string `query:"connection"`
//		ReturnTo   string `query:"return_to"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}
