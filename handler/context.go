package handler

import (
	"context"
	"net/http"
)

// Context is what a HandlerFunc receives: the request's context plus the
// request and response pair it belongs to.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
}

// NewContext binds w and r. The context methods answer for r.Context() as it
// was when NewContext was called.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return reqContext{Context: r.Context(), w: w, r: r}
}

type reqContext struct {
	context.Context
	w http.ResponseWriter
	r *http.Request
}

func (c reqContext) Request() *http.Request              { return c.r }
func (c reqContext) ResponseWriter() http.ResponseWriter { return c.w }
