package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idadental/registration/handler"
	"github.com/idadental/registration/pkg/binder"
)

type fieldRequest struct {
	Field string `form:"field" query:"field"`
	Value string `form:"value"`
}

func textResponse(code int, body string) handler.Response {
	return handler.ResponseFunc(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(code)
		_, err := w.Write([]byte(body))
		return err
	})
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("binds form and query", func(t *testing.T) {
		t.Parallel()

		h := handler.HandlerFunc[handler.Context, fieldRequest](func(ctx handler.Context, req fieldRequest) handler.Response {
			assert.NotNil(t, ctx.Request())
			return textResponse(http.StatusOK, req.Field+"="+req.Value)
		})
		wrapped := handler.Wrap(h, handler.WithBinders[handler.Context, fieldRequest](binder.Query(), binder.Form()))

		body := url.Values{"field": {"city"}, "value": {"Pune"}}.Encode()
		r := httptest.NewRequest(http.MethodPost, "/register/field", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		wrapped(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "city=Pune", w.Body.String())
	})

	t.Run("not applicable binders are skipped", func(t *testing.T) {
		t.Parallel()

		h := handler.HandlerFunc[handler.Context, fieldRequest](func(_ handler.Context, req fieldRequest) handler.Response {
			return textResponse(http.StatusOK, req.Field)
		})
		wrapped := handler.Wrap(h, handler.WithBinders[handler.Context, fieldRequest](binder.Query(), binder.Form()))

		w := httptest.NewRecorder()
		wrapped(w, httptest.NewRequest(http.MethodGet, "/?field=email", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "email", w.Body.String())
	})

	t.Run("binding failure is a bad request", func(t *testing.T) {
		t.Parallel()

		var got error
		h := handler.HandlerFunc[handler.Context, fieldRequest](func(handler.Context, fieldRequest) handler.Response {
			t.Fatal("handler must not run")
			return nil
		})
		wrapped := handler.Wrap(h,
			handler.WithBinders[handler.Context, fieldRequest](binder.Form()),
			handler.WithErrorHandler[handler.Context, fieldRequest](func(ctx handler.Context, err error) {
				got = err
				ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
			}),
		)

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		wrapped(w, r)

		assert.Equal(t, http.StatusTeapot, w.Code)
		require.Error(t, got)
		assert.ErrorIs(t, got, binder.ErrUnsupportedMediaType)
		var httpErr handler.HTTPError
		require.ErrorAs(t, got, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("render error uses default handler", func(t *testing.T) {
		t.Parallel()

		h := handler.HandlerFunc[handler.Context, struct{}](func(handler.Context, struct{}) handler.Response {
			return handler.ResponseFunc(func(http.ResponseWriter, *http.Request) error {
				return errors.New("render failed")
			})
		})
		w := httptest.NewRecorder()
		handler.Wrap(h)(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "render failed")
	})

	t.Run("http errors keep their code", func(t *testing.T) {
		t.Parallel()

		h := handler.HandlerFunc[handler.Context, struct{}](func(handler.Context, struct{}) handler.Response {
			return handler.ResponseFunc(func(http.ResponseWriter, *http.Request) error {
				return handler.ErrNotFound
			})
		})
		w := httptest.NewRecorder()
		handler.Wrap(h)(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "not_found")
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		h := handler.HandlerFunc[handler.Context, struct{}](func(handler.Context, struct{}) handler.Response {
			return handler.Error(handler.ErrServiceUnavailable.Wrap(errors.New("redis down")))
		})
		w := httptest.NewRecorder()
		handler.Wrap(h)(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, w.Body.String(), "redis down")
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		var got error
		h := handler.HandlerFunc[handler.Context, struct{}](func(handler.Context, struct{}) handler.Response {
			return nil
		})
		w := httptest.NewRecorder()
		handler.Wrap(h, handler.WithErrorHandler[handler.Context, struct{}](func(_ handler.Context, err error) {
			got = err
		}))(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.ErrorIs(t, got, handler.ErrNilResponse)
	})
}

type appContext struct {
	handler.Context
	tenant string
}

func TestWrap_CustomContext(t *testing.T) {
	t.Parallel()

	h := handler.HandlerFunc[appContext, struct{}](func(ctx appContext, _ struct{}) handler.Response {
		return textResponse(http.StatusOK, ctx.tenant)
	})
	wrapped := handler.Wrap(h, handler.WithContextFactory[appContext, struct{}](func(w http.ResponseWriter, r *http.Request) appContext {
		return appContext{Context: handler.NewContext(w, r), tenant: "ida"}
	}))

	w := httptest.NewRecorder()
	wrapped(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "ida", w.Body.String())

	assert.Panics(t, func() {
		handler.Wrap(h)(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestIsDataStar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		header map[string]string
		want   bool
	}{
		{"plain", "/", nil, false},
		{"accept header", "/", map[string]string{"Accept": "text/event-stream"}, true},
		{"request header", "/", map[string]string{"Datastar-Request": "true"}, true},
		{"query param", "/?datastar=%7B%7D", nil, true},
		{"html accept", "/", map[string]string{"Accept": "text/html"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, handler.IsDataStar(r))
		})
	}
}
