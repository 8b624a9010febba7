// Package binder fills request structs from HTTP requests.
//
// Form reads url-encoded and multipart bodies into `form` tagged fields,
// Query reads the URL query into `query` tagged fields. Both return errors
// wrapping a package sentinel, and Form returns ErrBinderNotApplicable for
// requests that carry no body so binders can be chained.
//
// Supported field types are strings, integers, floats, bools (with lenient
// "on"/"off" parsing for checkboxes), pointers to those and slices of those.
package binder
